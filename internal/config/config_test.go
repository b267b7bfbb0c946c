package config

import (
	"testing"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.OverlapThreshold != 0.8 {
		t.Errorf("Expected default overlap threshold 0.8, got %f", cfg.OverlapThreshold)
	}
	if cfg.MaxScore != 100 || cfg.UnmatchedTextPenalty != 20 || cfg.UncoveredZonePenalty != 10 {
		t.Errorf("Unexpected default penalties: max=%d unmatched=%d uncovered=%d",
			cfg.MaxScore, cfg.UnmatchedTextPenalty, cfg.UncoveredZonePenalty)
	}
	if cfg.DetectorBackend != "tesseract" {
		t.Errorf("Expected default detector backend tesseract, got %s", cfg.DetectorBackend)
	}
	if cfg.PresetStoreBackend != "file" {
		t.Errorf("Expected default preset store file, got %s", cfg.PresetStoreBackend)
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for invalid PORT")
	}
}

func TestLoadFromEnv_InvalidThreshold(t *testing.T) {
	t.Setenv("OVERLAP_THRESHOLD", "1.5")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for OVERLAP_THRESHOLD outside [0,1]")
	}
}

func TestLoadFromEnv_UnsupportedDetector(t *testing.T) {
	t.Setenv("DETECTOR_BACKEND", "easyocr")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for unsupported DETECTOR_BACKEND")
	}
}

func TestLoadFromEnv_AzureStoreRequiresCredentials(t *testing.T) {
	t.Setenv("PRESET_STORE", "azure")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for azure store without credentials")
	}

	t.Setenv("AZURE_ACCOUNT_NAME", "qa")
	t.Setenv("AZURE_ACCOUNT_KEY", "c2VjcmV0")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error with credentials: %v", err)
	}
	if cfg.PresetStoreBackend != "azure" {
		t.Errorf("Expected azure preset store, got %s", cfg.PresetStoreBackend)
	}
}

func TestLoadFromEnv_AzureStorageRequiresCredentials(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "azure")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for azure storage without credentials")
	}

	t.Setenv("AZURE_ACCOUNT_NAME", "qa")
	t.Setenv("AZURE_ACCOUNT_KEY", "c2VjcmV0")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error with credentials: %v", err)
	}
	if cfg.StorageBackend != "azure" {
		t.Errorf("Expected azure storage backend, got %s", cfg.StorageBackend)
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: " 127.0.0.1 ", Port: " 9090 "}
	if got := cfg.ServerAddress(); got != "127.0.0.1:9090" {
		t.Errorf("ServerAddress() = %q, want 127.0.0.1:9090", got)
	}
}

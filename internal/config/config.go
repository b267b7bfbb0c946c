package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server and engine settings, loaded from the environment.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	DetectionTimeout   time.Duration
	MaxRequestBodySize int64

	// Engine defaults. Per-request overrides are applied on top.
	OverlapThreshold     float64
	MaxScore             int
	UnmatchedTextPenalty int
	UncoveredZonePenalty int

	// Detector backend: "tesseract" or "vision".
	DetectorBackend string
	OCRLanguage     string

	// Banner storage backend: "http" or "azure".
	StorageBackend string

	// Preset store backend: "file" or "azure".
	PresetStoreBackend string
	PresetDir          string
	AzureAccountName   string
	AzureAccountKey    string
	AzureContainer     string

	// BatchConcurrency bounds parallel banner validations in batch runs.
	BatchConcurrency int
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		DetectionTimeout:   parseDurationOrDefault("DETECTION_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		OverlapThreshold:     parseFloatOrDefault("OVERLAP_THRESHOLD", 0.8),
		MaxScore:             int(parseIntOrDefault("MAX_SCORE", 100)),
		UnmatchedTextPenalty: int(parseIntOrDefault("UNMATCHED_TEXT_PENALTY", 20)),
		UncoveredZonePenalty: int(parseIntOrDefault("UNCOVERED_ZONE_PENALTY", 10)),

		DetectorBackend: getEnvOrDefault("DETECTOR_BACKEND", "tesseract"),
		OCRLanguage:     getEnvOrDefault("OCR_LANGUAGE", "eng"),

		StorageBackend: getEnvOrDefault("STORAGE_BACKEND", "http"),

		PresetStoreBackend: getEnvOrDefault("PRESET_STORE", "file"),
		PresetDir:          getEnvOrDefault("PRESET_DIR", "."),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
		AzureContainer:     getEnvOrDefault("AZURE_CONTAINER", "banner-qa-config"),

		BatchConcurrency: int(parseIntOrDefault("BATCH_CONCURRENCY", 4)),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.DetectionTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, detection=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.DetectionTimeout)
	}
	if cfg.OverlapThreshold < 0 || cfg.OverlapThreshold > 1 {
		return nil, fmt.Errorf("OVERLAP_THRESHOLD must be in [0,1] (got %f)", cfg.OverlapThreshold)
	}
	if cfg.MaxScore <= 0 {
		return nil, fmt.Errorf("MAX_SCORE must be > 0 (got %d)", cfg.MaxScore)
	}
	if cfg.UnmatchedTextPenalty < 0 || cfg.UncoveredZonePenalty < 0 {
		return nil, fmt.Errorf("penalties must be >= 0 (got unmatched=%d, uncovered=%d)",
			cfg.UnmatchedTextPenalty, cfg.UncoveredZonePenalty)
	}
	if cfg.BatchConcurrency < 1 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be >= 1 (got %d)", cfg.BatchConcurrency)
	}
	switch cfg.DetectorBackend {
	case "tesseract", "vision":
	default:
		return nil, fmt.Errorf("unsupported DETECTOR_BACKEND: %q", cfg.DetectorBackend)
	}
	switch cfg.StorageBackend {
	case "http":
	case "azure":
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage backend requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q", cfg.StorageBackend)
	}
	switch cfg.PresetStoreBackend {
	case "file":
	case "azure":
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure preset store requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported PRESET_STORE: %q", cfg.PresetStoreBackend)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

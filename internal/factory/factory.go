package factory

import (
	"context"
	"fmt"
	"time"

	"go-banner-qa/internal/config"
	"go-banner-qa/internal/detector"
	"go-banner-qa/internal/preset"
	"go-banner-qa/internal/storage"
)

// DetectorType represents different text detection backends
type DetectorType string

const (
	// TesseractDetector runs OCR locally via the Tesseract engine
	TesseractDetector DetectorType = "tesseract"
	// VisionDetector uses the Google Cloud Vision API
	VisionDetector DetectorType = "vision"
)

// StorageType represents different banner storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based banner fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// PresetStoreType represents different preset persistence backends
type PresetStoreType string

const (
	// FilePresetStore persists presets on the local filesystem
	FilePresetStore PresetStoreType = "file"
	// AzurePresetStore persists presets in Azure blob storage
	AzurePresetStore PresetStoreType = "azure"
)

// DetectorFactory creates text detectors
type DetectorFactory interface {
	CreateDetector(ctx context.Context, detectorType DetectorType) (detector.TextDetector, error)
}

// StorageFactory creates banner fetchers
type StorageFactory interface {
	CreateFetcher(storageType StorageType) (storage.BannerFetcher, error)
}

// PresetStoreFactory creates preset stores
type PresetStoreFactory interface {
	CreateStore(storeType PresetStoreType) (preset.Store, error)
}

// detectorFactory implements DetectorFactory
type detectorFactory struct {
	cfg *config.Config
}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory(cfg *config.Config) DetectorFactory {
	return &detectorFactory{cfg: cfg}
}

// CreateDetector creates a detector based on the specified backend
func (f *detectorFactory) CreateDetector(ctx context.Context, detectorType DetectorType) (detector.TextDetector, error) {
	switch detectorType {
	case TesseractDetector:
		return detector.NewTesseractDetector(f.cfg.OCRLanguage), nil
	case VisionDetector:
		return detector.NewVisionDetector(ctx)
	default:
		return nil, fmt.Errorf("unsupported detector type: %s", detectorType)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateFetcher creates a banner fetcher based on the specified backend
func (f *storageFactory) CreateFetcher(storageType StorageType) (storage.BannerFetcher, error) {
	switch storageType {
	case HTTPStorage:
		timeout := f.cfg.ImageFetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return storage.NewHTTPBannerFetcher(timeout, f.cfg.MaxRequestBodySize), nil
	case AzureStorage:
		return storage.NewAzureBannerFetcher(
			f.cfg.AzureAccountName,
			f.cfg.AzureAccountKey,
			f.cfg.MaxRequestBodySize,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// presetStoreFactory implements PresetStoreFactory
type presetStoreFactory struct {
	cfg *config.Config
}

// NewPresetStoreFactory creates a new preset store factory
func NewPresetStoreFactory(cfg *config.Config) PresetStoreFactory {
	return &presetStoreFactory{cfg: cfg}
}

// CreateStore creates a preset store based on the specified backend
func (f *presetStoreFactory) CreateStore(storeType PresetStoreType) (preset.Store, error) {
	switch storeType {
	case FilePresetStore:
		return preset.NewFileStore(f.cfg.PresetDir), nil
	case AzurePresetStore:
		return preset.NewBlobStore(
			f.cfg.AzureAccountName,
			f.cfg.AzureAccountKey,
			f.cfg.AzureContainer,
		)
	default:
		return nil, fmt.Errorf("unsupported preset store type: %s", storeType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	DetectorFactory    DetectorFactory
	StorageFactory     StorageFactory
	PresetStoreFactory PresetStoreFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		DetectorFactory:    NewDetectorFactory(cfg),
		StorageFactory:     NewStorageFactory(cfg),
		PresetStoreFactory: NewPresetStoreFactory(cfg),
	}
}

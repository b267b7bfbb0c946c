package preset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"go-banner-qa/internal/logger"
	"go-banner-qa/pkg/models"
)

// ErrNotFound indicates the stored key does not exist yet.
var ErrNotFound = errors.New("preset key not found")

// Store is the durable key/value persistence collaborator for configuration
// schemas. Implementations are used strictly outside the validation hot path.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Load reads the full configuration from the store. Loading is fail-soft:
// a missing or unparseable schema is logged and replaced with its empty
// value, never propagated as a failure of validation.
func Load(ctx context.Context, store Store) models.Config {
	cfg := models.Config{}

	if data, ok := fetch(ctx, store, KeyZonePresets); ok {
		zones, err := DecodeZonePresets(data)
		if err != nil {
			logger.WithComponent("preset").WithError(err).Warn("Malformed zone presets, using empty zone set")
		} else {
			cfg.Zones = zones
		}
	}

	if data, ok := fetch(ctx, store, KeyIgnoreTerms); ok {
		terms, err := DecodeIgnoreTerms(data)
		if err != nil {
			logger.WithComponent("preset").WithError(err).Warn("Malformed ignore terms, using empty term set")
		} else {
			cfg.IgnoreTerms = terms
		}
	}

	if data, ok := fetch(ctx, store, KeyIgnoreZones); ok {
		zones, err := DecodeIgnoreZones(data)
		if err != nil {
			logger.WithComponent("preset").WithError(err).Warn("Malformed ignore zones, using empty ignore zone set")
		} else {
			cfg.IgnoreZones = zones
		}
	}

	return cfg
}

func fetch(ctx context.Context, store Store, key string) ([]byte, bool) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.WithComponent("preset").WithError(err).WithField("key", key).Warn("Failed to read stored configuration")
		}
		return nil, false
	}
	return data, true
}

// Save writes the full configuration to the store. Unlike Load, save errors
// are returned: the editor asked for persistence and needs to know it failed.
func Save(ctx context.Context, store Store, cfg models.Config) error {
	zones, err := EncodeZonePresets(cfg.Zones)
	if err != nil {
		return fmt.Errorf("encode zone presets: %w", err)
	}
	if err := store.Put(ctx, KeyZonePresets, zones); err != nil {
		return fmt.Errorf("save zone presets: %w", err)
	}

	terms, err := EncodeIgnoreTerms(cfg.IgnoreTerms)
	if err != nil {
		return fmt.Errorf("encode ignore terms: %w", err)
	}
	if err := store.Put(ctx, KeyIgnoreTerms, terms); err != nil {
		return fmt.Errorf("save ignore terms: %w", err)
	}

	ignoreZones, err := EncodeIgnoreZones(cfg.IgnoreZones)
	if err != nil {
		return fmt.Errorf("encode ignore zones: %w", err)
	}
	if err := store.Put(ctx, KeyIgnoreZones, ignoreZones); err != nil {
		return fmt.Errorf("save ignore zones: %w", err)
	}

	return nil
}

// FileStore persists configuration schemas as JSON files in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Put(ctx context.Context, key string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, key), data, 0o644)
}

// BlobStore persists configuration schemas as blobs in an Azure container,
// for deployments where editors share presets across instances.
type BlobStore struct {
	client    *azblob.Client
	container string
}

// NewBlobStore creates an Azure-blob-backed store.
func NewBlobStore(accountName, accountKey, container string) (*BlobStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &BlobStore{client: client, container: container}, nil
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.UploadBuffer(ctx, s.container, key, data, nil)
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

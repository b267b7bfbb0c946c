package service

import (
	"context"
	"sync"

	apperrors "go-banner-qa/internal/errors"
	"go-banner-qa/internal/preset"
	"go-banner-qa/pkg/models"
)

// ConfigService manages the active validation configuration and its
// persistence.
type ConfigService interface {
	// Snapshot returns the current configuration
	Snapshot() models.Config

	// SetZones replaces the zone presets and persists them
	SetZones(ctx context.Context, zones []models.Zone) (models.Config, error)

	// SetIgnoreTerms replaces the ignore terms and persists them
	SetIgnoreTerms(ctx context.Context, terms []string) (models.Config, error)

	// SetIgnoreZones replaces the ignore zones and persists them
	SetIgnoreZones(ctx context.Context, zones []models.Zone) (models.Config, error)
}

// configService implements ConfigService over a preset store
type configService struct {
	mu      sync.RWMutex
	current models.Config
	store   preset.Store
}

// NewConfigService creates a config service seeded from the preset store.
// A store with no saved presets starts from the built-in defaults.
func NewConfigService(ctx context.Context, store preset.Store) ConfigService {
	cfg := preset.Load(ctx, store)
	if len(cfg.Zones) == 0 && len(cfg.IgnoreTerms) == 0 && len(cfg.IgnoreZones) == 0 {
		cfg = preset.DefaultConfig()
	}
	return &configService{
		current: cfg,
		store:   store,
	}
}

// Snapshot returns the current configuration
func (s *configService) Snapshot() models.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetZones replaces the zone presets and persists them
func (s *configService) SetZones(ctx context.Context, zones []models.Zone) (models.Config, error) {
	for _, z := range zones {
		if z.Name == "" {
			return models.Config{}, apperrors.NewValidationError("zone name must not be empty", nil)
		}
	}
	return s.update(ctx, func(cfg models.Config) models.Config {
		next := cfg
		next.Zones = nil
		for _, z := range zones {
			next = next.WithZone(z)
		}
		return next
	})
}

// SetIgnoreTerms replaces the ignore terms and persists them
func (s *configService) SetIgnoreTerms(ctx context.Context, terms []string) (models.Config, error) {
	return s.update(ctx, func(cfg models.Config) models.Config {
		next := cfg
		next.IgnoreTerms = nil
		return next.WithIgnoreTerms(terms...)
	})
}

// SetIgnoreZones replaces the ignore zones and persists them
func (s *configService) SetIgnoreZones(ctx context.Context, zones []models.Zone) (models.Config, error) {
	for _, z := range zones {
		if z.Name == "" {
			return models.Config{}, apperrors.NewValidationError("ignore zone name must not be empty", nil)
		}
	}
	return s.update(ctx, func(cfg models.Config) models.Config {
		next := cfg
		next.IgnoreZones = nil
		for _, z := range zones {
			next = next.WithIgnoreZone(z)
		}
		return next
	})
}

// update applies a mutation, persists the result, and commits it on success
func (s *configService) update(ctx context.Context, mutate func(models.Config) models.Config) (models.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := mutate(s.current)
	if err := preset.Save(ctx, s.store, next); err != nil {
		return models.Config{}, apperrors.NewInternalError("failed to persist configuration", err)
	}
	s.current = next
	return next, nil
}

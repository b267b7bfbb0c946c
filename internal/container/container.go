package container

import (
	"context"
	"fmt"
	"net/http"

	"go-banner-qa/internal/config"
	"go-banner-qa/internal/detector"
	"go-banner-qa/internal/factory"
	"go-banner-qa/internal/logger"
	"go-banner-qa/internal/observer"
	"go-banner-qa/internal/repository"
	"go-banner-qa/internal/service"
	"go-banner-qa/internal/transport"
	"go-banner-qa/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	textDetector  detector.TextDetector
	bannerRepo    repository.BannerRepository
	configService service.ConfigService
	validations   service.BannerValidationService
	metrics       *observer.MetricsObserver
	handler       http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	factories := factory.NewComponentFactory(cfg)

	fetcher, err := factories.StorageFactory.CreateFetcher(factory.StorageType(cfg.StorageBackend))
	if err != nil {
		return nil, err
	}

	textDetector, err := factories.DetectorFactory.CreateDetector(ctx, factory.DetectorType(cfg.DetectorBackend))
	if err != nil {
		return nil, err
	}

	presetStore, err := factories.PresetStoreFactory.CreateStore(factory.PresetStoreType(cfg.PresetStoreBackend))
	if err != nil {
		return nil, err
	}

	configService := service.NewConfigService(ctx, presetStore)
	bannerRepo := repository.NewBannerRepository(fetcher)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	options := validation.DefaultOptions().
		WithThreshold(cfg.OverlapThreshold).
		WithPenalties(validation.Penalties{
			MaxScore:      cfg.MaxScore,
			UnmatchedText: cfg.UnmatchedTextPenalty,
			UncoveredZone: cfg.UncoveredZonePenalty,
		})

	validations := service.NewBannerValidationService(
		bannerRepo,
		textDetector,
		configService,
		options,
		cfg.DetectionTimeout,
		cfg.BatchConcurrency,
		events,
	)

	handler := transport.NewHandler(validations, configService, metrics, cfg)

	return &Container{
		config:        cfg,
		textDetector:  textDetector,
		bannerRepo:    bannerRepo,
		configService: configService,
		validations:   validations,
		metrics:       metrics,
		handler:       handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases detector resources
func (c *Container) Close() error {
	if c.textDetector != nil {
		return c.textDetector.Close()
	}
	return nil
}

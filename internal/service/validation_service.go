package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"go-banner-qa/internal/detector"
	apperrors "go-banner-qa/internal/errors"
	"go-banner-qa/internal/observer"
	"go-banner-qa/internal/repository"
	"go-banner-qa/pkg/models"
	"go-banner-qa/pkg/validation"
)

// Banners are expected at an 8:3 aspect ratio. Deviations beyond the
// tolerance produce a warning, never a penalty.
const (
	expectedAspectRatio = 8.0 / 3.0
	aspectTolerance     = 0.01
)

// BannerValidationService defines the interface for banner text zone validation
type BannerValidationService interface {
	// ValidateBanner fetches a banner, detects its text, and scores it
	ValidateBanner(ctx context.Context, request models.ValidationRequest) (*models.ValidationResult, error)

	// ValidateBatch validates several banner URLs concurrently
	ValidateBatch(ctx context.Context, request models.BatchValidationRequest) *models.BatchValidationResponse

	// ValidateBannerURL validates if the provided URL is acceptable
	ValidateBannerURL(bannerURL string) error
}

// bannerValidationService implements BannerValidationService
type bannerValidationService struct {
	bannerRepo       repository.BannerRepository
	textDetector     detector.TextDetector
	configs          ConfigService
	baseOptions      validation.Options
	detectionTimeout time.Duration
	batchConcurrency int
	events           observer.Subject
}

// NewBannerValidationService creates a new banner validation service
func NewBannerValidationService(
	bannerRepository repository.BannerRepository,
	textDetector detector.TextDetector,
	configs ConfigService,
	baseOptions validation.Options,
	detectionTimeout time.Duration,
	batchConcurrency int,
	events observer.Subject,
) BannerValidationService {
	if batchConcurrency <= 0 {
		batchConcurrency = 4
	}
	return &bannerValidationService{
		bannerRepo:       bannerRepository,
		textDetector:     textDetector,
		configs:          configs,
		baseOptions:      baseOptions,
		detectionTimeout: detectionTimeout,
		batchConcurrency: batchConcurrency,
		events:           events,
	}
}

// ValidateBanner fetches a banner, detects its text, and scores it. When the
// request carries inline detections, the fetch and detection steps are
// skipped and the detections are validated as-is.
func (s *bannerValidationService) ValidateBanner(ctx context.Context, request models.ValidationRequest) (*models.ValidationResult, error) {
	start := time.Now()
	s.publish(ctx, observer.ValidationEvent{
		EventType: observer.ValidationStarted,
		Timestamp: start,
		BannerURL: request.URL,
	})

	result, err := s.validate(ctx, request)
	if err != nil {
		s.publish(ctx, observer.ValidationEvent{
			EventType:      observer.ValidationFailed,
			Timestamp:      time.Now(),
			BannerURL:      request.URL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.publish(ctx, observer.ValidationEvent{
		EventType:      observer.ValidationCompleted,
		Timestamp:      time.Now(),
		BannerURL:      request.URL,
		ProcessingTime: time.Since(start),
		Score:          result.Score,
		Infractions:    len(result.Infractions),
		Success:        true,
	})
	return result, nil
}

func (s *bannerValidationService) validate(ctx context.Context, request models.ValidationRequest) (*models.ValidationResult, error) {
	detections := request.Detections
	width, height := request.ImageWidth, request.ImageHeight
	var warnings []string

	if len(detections) == 0 {
		if request.URL == "" {
			return nil, apperrors.NewValidationError("either url or detections must be provided", nil)
		}

		banner, err := s.bannerRepo.FetchBanner(ctx, request.URL)
		if err != nil {
			s.publish(ctx, observer.ValidationEvent{
				EventType:    observer.BannerFetchFailed,
				Timestamp:    time.Now(),
				BannerURL:    request.URL,
				ErrorMessage: err.Error(),
			})
			return nil, wrapFetchError(err)
		}
		s.publish(ctx, observer.ValidationEvent{
			EventType: observer.BannerFetched,
			Timestamp: time.Now(),
			BannerURL: request.URL,
			Success:   true,
		})

		width, height = banner.Width, banner.Height
		if warning, ok := aspectWarning(width, height); ok {
			warnings = append(warnings, warning)
		}

		detectCtx := ctx
		if s.detectionTimeout > 0 {
			var cancel context.CancelFunc
			detectCtx, cancel = context.WithTimeout(ctx, s.detectionTimeout)
			defer cancel()
		}
		detections, err = s.textDetector.DetectText(detectCtx, banner.Data)
		if err != nil {
			return nil, err
		}
	} else if width <= 0 || height <= 0 {
		// Inline detections without dimensions are treated as already
		// normalized; nothing to check here.
		width, height = 0, 0
	}

	cfg := s.configs.Snapshot()
	if request.Config != nil {
		cfg = *request.Config
	}

	opts := s.baseOptions
	if request.OverlapThreshold != nil {
		opts = opts.WithThreshold(*request.OverlapThreshold)
	}

	validator := validation.NewZoneValidatorWithOptions(opts)
	result := validator.Validate(cfg, detections, width, height)
	result.Warnings = append(warnings, result.Warnings...)
	return &result, nil
}

// ValidateBatch validates several banner URLs concurrently. Per-URL failures
// are reported in their batch item and never abort the whole run.
func (s *bannerValidationService) ValidateBatch(ctx context.Context, request models.BatchValidationRequest) *models.BatchValidationResponse {
	items := make([]models.BatchValidationItem, len(request.URLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, bannerURL := range request.URLs {
		g.Go(func() error {
			result, err := s.ValidateBanner(ctx, models.ValidationRequest{
				URL:              bannerURL,
				OverlapThreshold: request.OverlapThreshold,
			})
			if err != nil {
				items[i] = models.BatchValidationItem{URL: bannerURL, Error: err.Error()}
				return nil
			}
			items[i] = models.BatchValidationItem{URL: bannerURL, Result: result}
			return nil
		})
	}

	// Workers never return errors; Wait only orders completion.
	_ = g.Wait()

	return &models.BatchValidationResponse{Items: items}
}

// ValidateBannerURL validates if the provided URL is acceptable
func (s *bannerValidationService) ValidateBannerURL(bannerURL string) error {
	return s.bannerRepo.ValidateBannerURL(bannerURL)
}

func (s *bannerValidationService) publish(ctx context.Context, event observer.ValidationEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

// aspectWarning checks the banner dimensions against the expected 8:3
// aspect ratio.
func aspectWarning(width, height int) (string, bool) {
	if width <= 0 || height <= 0 {
		return "", false
	}
	ratio := float64(width) / float64(height)
	if math.Abs(ratio-expectedAspectRatio) <= aspectTolerance {
		return "", false
	}
	return fmt.Sprintf("Banner aspect ratio %.3f deviates from expected 8:3 (%.3f)", ratio, expectedAspectRatio), true
}

// wrapFetchError maps repository failures onto the API error taxonomy.
func wrapFetchError(err error) error {
	if _, ok := err.(*apperrors.AppError); ok {
		return err
	}
	if err == repository.ErrInvalidBannerURL {
		return apperrors.NewValidationError("invalid banner URL", err)
	}
	return apperrors.NewNetworkError("failed to fetch banner", err)
}

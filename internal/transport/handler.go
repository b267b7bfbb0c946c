package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-banner-qa/internal/config"
	apperrors "go-banner-qa/internal/errors"
	"go-banner-qa/internal/logger"
	"go-banner-qa/internal/observer"
	"go-banner-qa/internal/service"
	"go-banner-qa/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// zonesBody is the PUT body for zone and ignore-zone replacement.
type zonesBody struct {
	Zones []models.Zone `json:"zones" binding:"required"`
}

// termsBody is the PUT body for ignore-term replacement.
type termsBody struct {
	Terms []string `json:"terms" binding:"required"`
}

// NewHandler wires the HTTP routes for banner validation and configuration
// management.
func NewHandler(
	validations service.BannerValidationService,
	configs service.ConfigService,
	metrics *observer.MetricsObserver,
	cfg *config.Config,
) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", getMetrics(metrics))

	r.POST("/validate", validateBanner(validations, cfg))
	r.POST("/validate/batch", validateBatch(validations, cfg))

	r.GET("/config/zones", getZones(configs))
	r.PUT("/config/zones", putZones(configs))
	r.GET("/config/ignore-terms", getIgnoreTerms(configs))
	r.PUT("/config/ignore-terms", putIgnoreTerms(configs))
	r.GET("/config/ignore-zones", getIgnoreZones(configs))
	r.PUT("/config/ignore-zones", putIgnoreZones(configs))

	return r
}

func validateBanner(svc service.BannerValidationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing banner validation request")

		var req models.ValidationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		if req.URL != "" {
			if err := svc.ValidateBannerURL(req.URL); err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"url": req.URL,
					"ip":  c.ClientIP(),
				}).Error("Invalid banner URL")
				respondError(c, apperrors.GetStatusCode(err), "invalid banner URL", err)
				return
			}
		}

		result, err := svc.ValidateBanner(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = apperrors.NewTimeoutError("Banner validation timeout", err)
			}
			respondError(c, determineStatusCode(err), "banner validation failed", err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"score":              result.Score,
			"infractions":        len(result.Infractions),
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Banner validation completed successfully")

		c.JSON(http.StatusOK, result)
	}
}

func validateBatch(svc service.BannerValidationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchValidationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		for _, bannerURL := range req.URLs {
			if err := svc.ValidateBannerURL(bannerURL); err != nil {
				respondError(c, apperrors.GetStatusCode(err), "invalid banner URL", err)
				return
			}
		}

		resp := svc.ValidateBatch(ctx, req)

		logger.WithFields(logrus.Fields{
			"banners": len(req.URLs),
		}).Info("Batch validation completed")

		c.JSON(http.StatusOK, resp)
	}
}

func getZones(configs service.ConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"zones": configs.Snapshot().Zones})
	}
}

func putZones(configs service.ConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body zonesBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		updated, err := configs.SetZones(c.Request.Context(), body.Zones)
		if err != nil {
			respondError(c, determineStatusCode(err), "failed to update zones", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"zones": updated.Zones})
	}
}

func getIgnoreTerms(configs service.ConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		terms := configs.Snapshot().IgnoreTerms
		if terms == nil {
			terms = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"terms": terms})
	}
}

func putIgnoreTerms(configs service.ConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body termsBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		updated, err := configs.SetIgnoreTerms(c.Request.Context(), body.Terms)
		if err != nil {
			respondError(c, determineStatusCode(err), "failed to update ignore terms", err)
			return
		}
		terms := updated.IgnoreTerms
		if terms == nil {
			terms = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"terms": terms})
	}
}

func getIgnoreZones(configs service.ConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"zones": configs.Snapshot().IgnoreZones})
	}
}

func putIgnoreZones(configs service.ConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body zonesBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		updated, err := configs.SetIgnoreZones(c.Request.Context(), body.Zones)
		if err != nil {
			respondError(c, determineStatusCode(err), "failed to update ignore zones", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"zones": updated.IgnoreZones})
	}
}

func getMetrics(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}

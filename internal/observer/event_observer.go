package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ValidationEvent represents a banner validation event
type ValidationEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	BannerURL      string                 `json:"banner_url"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Score          int                    `json:"score"`
	Infractions    int                    `json:"infractions"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of validation event
type EventType string

const (
	// ValidationStarted when validation begins
	ValidationStarted EventType = "validation_started"
	// ValidationCompleted when validation finishes successfully
	ValidationCompleted EventType = "validation_completed"
	// ValidationFailed when validation fails
	ValidationFailed EventType = "validation_failed"
	// BannerFetched when a banner is successfully fetched
	BannerFetched EventType = "banner_fetched"
	// BannerFetchFailed when a banner fetch fails
	BannerFetchFailed EventType = "banner_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ValidationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ValidationEvent)
}

// LoggingObserver logs validation events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles validation events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ValidationEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"banner_url":      event.BannerURL,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.EventType == ValidationCompleted {
		fields["score"] = event.Score
		fields["infractions"] = event.Infractions
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case ValidationStarted:
		o.logger.WithFields(fields).Info("Banner validation started")
	case ValidationCompleted:
		o.logger.WithFields(fields).Info("Banner validation completed")
	case ValidationFailed:
		o.logger.WithFields(fields).Error("Banner validation failed")
	case BannerFetched:
		o.logger.WithFields(fields).Debug("Banner fetched successfully")
	case BannerFetchFailed:
		o.logger.WithFields(fields).Error("Banner fetch failed")
	default:
		o.logger.WithFields(fields).Info("Validation event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects metrics from validation events
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalValidations      int64
	successfulValidations int64
	failedValidations     int64
	perfectScores         int64
	totalScore            int64
	totalInfractions      int64
	totalProcessingTime   time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles validation events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ValidationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ValidationStarted:
		o.totalValidations++
	case ValidationCompleted:
		o.successfulValidations++
		o.totalScore += int64(event.Score)
		o.totalInfractions += int64(event.Infractions)
		o.totalProcessingTime += event.ProcessingTime
		if event.Infractions == 0 {
			o.perfectScores++
		}
	case ValidationFailed:
		o.failedValidations++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	avgScore := float64(0)
	if o.successfulValidations > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulValidations)
		avgScore = float64(o.totalScore) / float64(o.successfulValidations)
	}

	return map[string]interface{}{
		"total_validations":      o.totalValidations,
		"successful_validations": o.successfulValidations,
		"failed_validations":     o.failedValidations,
		"perfect_scores":         o.perfectScores,
		"average_score":          avgScore,
		"total_infractions":      o.totalInfractions,
		"total_processing_time":  o.totalProcessingTime,
		"avg_processing_time":    avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ValidationEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Notify observers concurrently
	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

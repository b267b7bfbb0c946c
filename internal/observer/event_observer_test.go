package observer

import (
	"context"
	"testing"
	"time"
)

func TestMetricsObserver_CollectsValidationMetrics(t *testing.T) {
	ctx := context.Background()
	o := NewMetricsObserver()

	o.OnEvent(ctx, ValidationEvent{EventType: ValidationStarted})
	o.OnEvent(ctx, ValidationEvent{
		EventType:      ValidationCompleted,
		Score:          70,
		Infractions:    2,
		ProcessingTime: 100 * time.Millisecond,
		Success:        true,
	})
	o.OnEvent(ctx, ValidationEvent{EventType: ValidationStarted})
	o.OnEvent(ctx, ValidationEvent{
		EventType:      ValidationCompleted,
		Score:          100,
		ProcessingTime: 50 * time.Millisecond,
		Success:        true,
	})
	o.OnEvent(ctx, ValidationEvent{EventType: ValidationStarted})
	o.OnEvent(ctx, ValidationEvent{EventType: ValidationFailed, ErrorMessage: "fetch failed"})

	metrics := o.GetMetrics()
	if metrics["total_validations"].(int64) != 3 {
		t.Errorf("Expected 3 total validations, got %v", metrics["total_validations"])
	}
	if metrics["successful_validations"].(int64) != 2 {
		t.Errorf("Expected 2 successful validations, got %v", metrics["successful_validations"])
	}
	if metrics["failed_validations"].(int64) != 1 {
		t.Errorf("Expected 1 failed validation, got %v", metrics["failed_validations"])
	}
	if metrics["perfect_scores"].(int64) != 1 {
		t.Errorf("Expected 1 perfect score, got %v", metrics["perfect_scores"])
	}
	if metrics["average_score"].(float64) != 85.0 {
		t.Errorf("Expected average score 85, got %v", metrics["average_score"])
	}
	if metrics["avg_processing_time"].(time.Duration) != 75*time.Millisecond {
		t.Errorf("Expected avg processing time 75ms, got %v", metrics["avg_processing_time"])
	}
}

func TestEventPublisher_SubscribeUnsubscribe(t *testing.T) {
	pub := NewEventPublisher()
	metrics := NewMetricsObserver()

	pub.Subscribe(metrics)
	pub.NotifyObservers(context.Background(), ValidationEvent{EventType: ValidationStarted})

	// Observers are notified asynchronously.
	waitFor(t, func() bool {
		return metrics.GetMetrics()["total_validations"].(int64) == 1
	})

	pub.Unsubscribe(metrics)
	pub.NotifyObservers(context.Background(), ValidationEvent{EventType: ValidationStarted})

	time.Sleep(50 * time.Millisecond)
	if got := metrics.GetMetrics()["total_validations"].(int64); got != 1 {
		t.Errorf("Expected no events after unsubscribe, total is %d", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func fastRetry(maxAttempts int) Config {
	return Config{
		Retry: Retry{
			MaxAttempts:    maxAttempts,
			InitialBackoff: 1 * time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
			Multiplier:     2,
		},
	}
}

func TestExecuteRetriesRetryableFailure(t *testing.T) {
	errRetryable := errors.New("retryable")
	exec := NewExecutor(fastRetry(3), func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, errRetryable),
			RecordFailure: true,
		}
	}, "op")

	attempts := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errRetryable
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastRetry(3), func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	}, "op")

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteRejectsUnregisteredOperation(t *testing.T) {
	exec := NewExecutor(fastRetry(1), nil, "chat", "embed")

	called := false
	err := exec.Execute(context.Background(), "reindex", func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatalf("expected error for unregistered operation")
	}
	if called {
		t.Fatalf("callback must not run for an unregistered operation")
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	cfg := fastRetry(1)
	cfg.Breaker = Breaker{
		Enabled:          true,
		MinRequests:      2,
		FailureRatio:     0.5,
		OpenTimeout:      50 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	}
	exec := NewExecutor(cfg, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}, "op")

	errUpstream := errors.New("upstream down")
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errUpstream
		})
		if !errors.Is(err, errUpstream) {
			t.Fatalf("expected upstream error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestExecuteStopsWhenContextCancelled(t *testing.T) {
	cfg := Config{
		Retry: Retry{
			MaxAttempts:    5,
			InitialBackoff: 50 * time.Millisecond,
			MaxBackoff:     100 * time.Millisecond,
			Multiplier:     2,
		},
	}
	exec := NewExecutor(cfg, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}, "op")

	ctx, cancel := context.WithCancel(context.Background())
	errRetryable := errors.New("retryable")
	attempts := 0
	err := exec.Execute(ctx, "op", func(context.Context) error {
		attempts++
		cancel()
		return errRetryable
	})
	if !errors.Is(err, errRetryable) {
		t.Fatalf("expected last attempt error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected retry loop to stop after cancellation, got %d attempts", attempts)
	}
}

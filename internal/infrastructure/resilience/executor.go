package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type ErrorClassification struct {
	Retryable     bool
	RecordFailure bool
}

type ErrorClassifier func(err error) ErrorClassification

// Executor wraps a fixed set of outbound operations with bounded retries
// and one circuit breaker per operation. Operations are registered at
// construction; executing an unregistered name is a wiring bug and fails
// immediately.
type Executor struct {
	cfg      Config
	classify ErrorClassifier
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(cfg Config, classify ErrorClassifier, operations ...string) *Executor {
	if classify == nil {
		classify = func(error) ErrorClassification {
			return ErrorClassification{RecordFailure: true}
		}
	}
	e := &Executor{
		cfg:      cfg.withDefaults(),
		classify: classify,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any], len(operations)),
	}
	for _, operation := range operations {
		e.breakers[operation] = e.newBreaker(operation)
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	breaker, ok := e.breakers[operation]
	if !ok {
		return fmt.Errorf("resilience: operation %q is not registered", operation)
	}

	if !e.cfg.Breaker.Enabled {
		return e.attempt(ctx, operation, fn)
	}
	_, err := breaker.Execute(func() (any, error) {
		return nil, e.attempt(ctx, operation, fn)
	})
	return err
}

func (e *Executor) attempt(ctx context.Context, operation string, fn func(context.Context) error) error {
	retry := e.cfg.Retry

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt >= retry.MaxAttempts || !e.classify(lastErr).Retryable {
			return lastErr
		}

		wait := backoffFor(retry, attempt)
		slog.Warn("retry_attempt",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", retry.MaxAttempts,
			"backoff_ms", wait.Milliseconds(),
			"error", lastErr,
		)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(wait):
		}
	}
}

// backoffFor returns the capped exponential delay after the given attempt.
func backoffFor(r Retry, attempt int) time.Duration {
	wait := r.InitialBackoff
	for i := 1; i < attempt; i++ {
		wait = time.Duration(float64(wait) * r.Multiplier)
		if wait >= r.MaxBackoff {
			return r.MaxBackoff
		}
	}
	if wait > r.MaxBackoff {
		return r.MaxBackoff
	}
	return wait
}

func (e *Executor) newBreaker(operation string) *gobreaker.CircuitBreaker[any] {
	policy := e.cfg.Breaker
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        operation,
		MaxRequests: policy.HalfOpenMaxCalls,
		Timeout:     policy.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < policy.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= policy.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !e.classify(err).RecordFailure
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

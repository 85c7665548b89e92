package azopenai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
	"github.com/hombredepalabra/rag-gateway/internal/infrastructure/resilience"
)

// NewExecutor builds a resilience executor registered for exactly this
// client's operations, classifying failures with the upstream-aware
// classifier below.
func NewExecutor(cfg resilience.Config) *resilience.Executor {
	return resilience.NewExecutor(cfg, classifyUpstreamError, opChat, opGroundedChat, opEmbed)
}

func classifyUpstreamError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{
				Retryable:     true,
				RecordFailure: true,
			}
		}
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

// translateError maps a transport outcome to the domain taxonomy once
// retries are spent. Upstream rejections keep the upstream text so the
// handler can surface it; circuit-open and cancellation map to
// unavailability rather than an upstream fault.
func translateError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrUnavailable, operation, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrUnavailable, operation, err)
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return &domain.UpstreamError{
			Operation:  operation,
			StatusCode: statusErr.StatusCode,
			Message:    statusErr.Message,
		}
	}

	return domain.WrapError(domain.ErrUpstream, operation, err)
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

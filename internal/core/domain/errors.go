package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
	ErrUnavailable  = errors.New("temporarily unavailable")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// UpstreamError carries the model host's rejection so handlers can surface
// the upstream-supplied text in the response details.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Operation, e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// UpstreamDetails extracts the upstream-supplied error text from err, or
// falls back to the error's own message.
func UpstreamDetails(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

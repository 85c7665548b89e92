package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseRecorderCapturesStatusAndBytes(t *testing.T) {
	inner := httptest.NewRecorder()
	recorder := NewResponseRecorder(inner)

	recorder.WriteHeader(http.StatusTooManyRequests)
	if _, err := recorder.Write([]byte(`{"error":"rate limit exceeded"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	if recorder.Status != http.StatusTooManyRequests {
		t.Fatalf("expected recorded status 429, got %d", recorder.Status)
	}
	if recorder.Bytes != len(`{"error":"rate limit exceeded"}`) {
		t.Fatalf("expected recorded bytes %d, got %d", len(`{"error":"rate limit exceeded"}`), recorder.Bytes)
	}
	if inner.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status forwarded to underlying writer, got %d", inner.Code)
	}
}

func TestResponseRecorderDefaultsToOK(t *testing.T) {
	recorder := NewResponseRecorder(httptest.NewRecorder())
	if _, err := recorder.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if recorder.Status != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", recorder.Status)
	}
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	relayRequestsTotal *prometheus.CounterVec
	relayDuration      *prometheus.HistogramVec
	citationsReturned  *prometheus.HistogramVec
	llmTokensTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rgw",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rgw",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rgw",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	relayRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rgw",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Total relay requests by endpoint and outcome.",
		},
		[]string{"service", "endpoint", "outcome"},
	)
	relayDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rgw",
			Subsystem: "relay",
			Name:      "duration_seconds",
			Help:      "End-to-end relay duration in seconds, outbound call included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	citationsReturned := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rgw",
			Subsystem: "relay",
			Name:      "citations_returned",
			Help:      "Distribution of citations per successful grounded completion.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rgw",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Upstream-reported token usage by direction.",
		},
		[]string{"service", "endpoint", "direction"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		relayRequestsTotal,
		relayDuration,
		citationsReturned,
		llmTokensTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		relayRequestsTotal: relayRequestsTotal,
		relayDuration:      relayDuration,
		citationsReturned:  citationsReturned,
		llmTokensTotal:     llmTokensTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := NewResponseRecorder(w)

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.Status),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath keeps label cardinality bounded: everything outside the
// fixed route table collapses into one bucket.
func normalizePath(path string) string {
	switch path {
	case "/", "/healthz", "/metrics", "/api/chat", "/api/chat/base", "/api/embeddings":
		return path
	default:
		return "/unmatched"
	}
}

func (m *HTTPServerMetrics) RecordRelayRequest(service, endpoint, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.relayRequestsTotal.WithLabelValues(service, endpoint, outcome).Inc()
	m.relayDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordCitations(service string, count int) {
	m.citationsReturned.WithLabelValues(service).Observe(float64(count))
}

func (m *HTTPServerMetrics) RecordTokenUsage(service, endpoint string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, endpoint, "in").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, endpoint, "out").Add(float64(completionTokens))
	}
}

package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hombredepalabra/rag-gateway/internal/config"
	"github.com/hombredepalabra/rag-gateway/internal/core/ports"
	"github.com/hombredepalabra/rag-gateway/internal/observability/metrics"
)

const serviceLabel = "api"

type Router struct {
	cfg         config.Config
	chatSvc     ports.ChatService
	embedSvc    ports.EmbeddingService
	httpMetrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	chatSvc ports.ChatService,
	embedSvc ports.EmbeddingService,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:         cfg,
		chatSvc:     chatSvc,
		embedSvc:    embedSvc,
		httpMetrics: httpMetrics,
	}
}

func (rt *Router) Handler() (http.Handler, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.httpMetrics.Handler())
	mux.HandleFunc("/api/chat", rt.groundedChat)
	mux.HandleFunc("/api/chat/base", rt.baseChat)
	mux.HandleFunc("/api/embeddings", rt.embeddings)

	var handler http.Handler = validator.middleware(mux)
	if rt.cfg.APIMaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, 100*time.Millisecond)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	handler = rt.httpMetrics.Middleware(serviceLabel, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// notFound is the fallback for every unmatched path or method.
func (rt *Router) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

package bootstrap

import (
	"time"

	"github.com/hombredepalabra/rag-gateway/internal/config"
	"github.com/hombredepalabra/rag-gateway/internal/core/ports"
	"github.com/hombredepalabra/rag-gateway/internal/core/usecase"
	"github.com/hombredepalabra/rag-gateway/internal/infrastructure/llm/azopenai"
	"github.com/hombredepalabra/rag-gateway/internal/infrastructure/resilience"
	"github.com/hombredepalabra/rag-gateway/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	ChatSvc  ports.ChatService
	EmbedSvc ports.EmbeddingService
}

func New(cfg config.Config) *App {
	executor := azopenai.NewExecutor(resilience.Config{
		Retry: resilience.Retry{
			MaxAttempts:    cfg.UpstreamMaxAttempts,
			InitialBackoff: time.Duration(cfg.UpstreamRetryBackoffMS) * time.Millisecond,
		},
		Breaker: resilience.Breaker{
			Enabled:     cfg.UpstreamBreakerEnabled,
			OpenTimeout: time.Duration(cfg.UpstreamBreakerOpenSeconds) * time.Second,
		},
	})

	client := azopenai.New(azopenai.Options{
		Endpoint:            cfg.OpenAIEndpoint,
		APIKey:              cfg.OpenAIKey,
		APIVersion:          cfg.OpenAIAPIVersion,
		ChatDeployment:      cfg.ChatDeployment,
		EmbeddingDeployment: cfg.EmbeddingDeployment,
		SearchEndpoint:      cfg.SearchEndpoint,
		SearchKey:           cfg.SearchKey,
		SearchIndex:         cfg.SearchIndex,
		Timeout:             time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second,
		LogPayloads:         cfg.LogUpstreamPayloads,
	}, executor)

	return &App{
		Config:   cfg,
		Metrics:  metrics.NewHTTPServerMetrics("api"),
		ChatSvc:  usecase.NewChatUseCase(client),
		EmbedSvc: usecase.NewEmbedUseCase(client),
	}
}

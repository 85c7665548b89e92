package ports

import (
	"context"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
)

// CompletionClient talks to the model host's chat-completions endpoints.
type CompletionClient interface {
	CompleteChat(ctx context.Context, messages []domain.Message) (*domain.ChatResult, error)
	// CompleteChatWithData grounds the completion in the configured search
	// index before generating, using the given retrieval mode.
	CompleteChatWithData(ctx context.Context, messages []domain.Message, queryType domain.QueryType) (*domain.ChatResult, error)
}

// EmbeddingClient talks to the embedding deployment.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) (*domain.Embedding, error)
}

package ports

import (
	"context"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
)

// ChatService is the inbound contract for chat relaying.
type ChatService interface {
	// GroundedChat forwards the conversation with a search-index data source attached.
	GroundedChat(ctx context.Context, messages []domain.Message, systemPrompt string, queryType domain.QueryType) (*domain.ChatResult, error)
	// Chat forwards the conversation without retrieval augmentation.
	Chat(ctx context.Context, messages []domain.Message, systemPrompt string) (*domain.ChatResult, error)
}

// EmbeddingService is the inbound contract for embedding generation.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) (*domain.Embedding, error)
}

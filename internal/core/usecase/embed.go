package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
	"github.com/hombredepalabra/rag-gateway/internal/core/ports"
)

type EmbedUseCase struct {
	embeddings ports.EmbeddingClient
}

func NewEmbedUseCase(embeddings ports.EmbeddingClient) *EmbedUseCase {
	return &EmbedUseCase{embeddings: embeddings}
}

func (uc *EmbedUseCase) Embed(ctx context.Context, text string) (*domain.Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "embed",
			fmt.Errorf("text is required"))
	}

	embedding, err := uc.embeddings.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if embedding.Dimensions() == 0 {
		return nil, domain.WrapError(domain.ErrUpstream, "embed",
			fmt.Errorf("empty embedding result"))
	}
	return embedding, nil
}

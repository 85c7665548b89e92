package usecase

import (
	"context"
	"fmt"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
	"github.com/hombredepalabra/rag-gateway/internal/core/ports"
)

// Default system prompts used when the caller omits systemPrompt. Both chat
// routes always prepend a system message so the two relays behave the same.
const (
	DefaultGroundedPrompt  = "You are a helpful assistant. Answer using the retrieved documents and cite your sources."
	DefaultAssistantPrompt = "You are a helpful assistant."
)

type ChatUseCase struct {
	completions ports.CompletionClient
}

func NewChatUseCase(completions ports.CompletionClient) *ChatUseCase {
	return &ChatUseCase{completions: completions}
}

func (uc *ChatUseCase) GroundedChat(
	ctx context.Context,
	messages []domain.Message,
	systemPrompt string,
	queryType domain.QueryType,
) (*domain.ChatResult, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	if queryType == "" {
		queryType = domain.DefaultQueryType
	}
	if !queryType.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "grounded chat",
			fmt.Errorf("unknown query type %q", queryType))
	}

	conversation := prependSystemMessage(messages, systemPrompt, DefaultGroundedPrompt)
	result, err := uc.completions.CompleteChatWithData(ctx, conversation, queryType)
	if err != nil {
		return nil, fmt.Errorf("complete grounded chat: %w", err)
	}
	if result.Citations == nil {
		result.Citations = []domain.Citation{}
	}
	return result, nil
}

func (uc *ChatUseCase) Chat(
	ctx context.Context,
	messages []domain.Message,
	systemPrompt string,
) (*domain.ChatResult, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	conversation := prependSystemMessage(messages, systemPrompt, DefaultAssistantPrompt)
	result, err := uc.completions.CompleteChat(ctx, conversation)
	if err != nil {
		return nil, fmt.Errorf("complete chat: %w", err)
	}
	if result.Citations == nil {
		result.Citations = []domain.Citation{}
	}
	return result, nil
}

func validateMessages(messages []domain.Message) error {
	if len(messages) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chat",
			fmt.Errorf("messages must be a non-empty array"))
	}
	return nil
}

func prependSystemMessage(messages []domain.Message, systemPrompt, fallback string) []domain.Message {
	prompt := systemPrompt
	if prompt == "" {
		prompt = fallback
	}
	conversation := make([]domain.Message, 0, len(messages)+1)
	conversation = append(conversation, domain.Message{Role: domain.RoleSystem, Content: prompt})
	return append(conversation, messages...)
}

package usecase

import (
	"context"
	"testing"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
)

type fakeCompletionClient struct {
	calls        int
	lastMessages []domain.Message
	lastQuery    domain.QueryType
	result       *domain.ChatResult
	err          error
}

func (f *fakeCompletionClient) CompleteChat(_ context.Context, messages []domain.Message) (*domain.ChatResult, error) {
	f.calls++
	f.lastMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeCompletionClient) CompleteChatWithData(_ context.Context, messages []domain.Message, queryType domain.QueryType) (*domain.ChatResult, error) {
	f.calls++
	f.lastMessages = messages
	f.lastQuery = queryType
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func okResult() *domain.ChatResult {
	return &domain.ChatResult{
		Message:   "answer",
		Citations: []domain.Citation{},
		Usage:     domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func TestGroundedChatPrependsSystemPrompt(t *testing.T) {
	client := &fakeCompletionClient{result: okResult()}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	if _, err := uc.GroundedChat(context.Background(), messages, "You are a pirate.", ""); err != nil {
		t.Fatalf("grounded chat: %v", err)
	}

	if len(client.lastMessages) != 2 {
		t.Fatalf("expected 2 outbound messages, got %d", len(client.lastMessages))
	}
	first := client.lastMessages[0]
	if first.Role != domain.RoleSystem || first.Content != "You are a pirate." {
		t.Fatalf("unexpected first outbound message: %+v", first)
	}
	second := client.lastMessages[1]
	if second.Role != domain.RoleUser || second.Content != "hi" {
		t.Fatalf("unexpected second outbound message: %+v", second)
	}
}

func TestGroundedChatDefaultsQueryType(t *testing.T) {
	client := &fakeCompletionClient{result: okResult()}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	if _, err := uc.GroundedChat(context.Background(), messages, "", ""); err != nil {
		t.Fatalf("grounded chat: %v", err)
	}
	if client.lastQuery != domain.QueryTypeVectorSimpleHybrid {
		t.Fatalf("expected default query type %s, got %s", domain.QueryTypeVectorSimpleHybrid, client.lastQuery)
	}
}

func TestGroundedChatUsesDefaultPromptWhenOmitted(t *testing.T) {
	client := &fakeCompletionClient{result: okResult()}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	if _, err := uc.GroundedChat(context.Background(), messages, "", domain.QueryTypeVector); err != nil {
		t.Fatalf("grounded chat: %v", err)
	}
	if client.lastMessages[0].Content != DefaultGroundedPrompt {
		t.Fatalf("expected default grounded prompt, got %q", client.lastMessages[0].Content)
	}
}

func TestGroundedChatRejectsEmptyMessages(t *testing.T) {
	client := &fakeCompletionClient{result: okResult()}
	uc := NewChatUseCase(client)

	if _, err := uc.GroundedChat(context.Background(), nil, "", ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected no outbound call, got %d", client.calls)
	}
}

func TestGroundedChatRejectsUnknownQueryType(t *testing.T) {
	client := &fakeCompletionClient{result: okResult()}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	_, err := uc.GroundedChat(context.Background(), messages, "", domain.QueryType("vectorish"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected no outbound call, got %d", client.calls)
	}
}

func TestGroundedChatNormalizesNilCitations(t *testing.T) {
	client := &fakeCompletionClient{result: &domain.ChatResult{Message: "answer"}}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	result, err := uc.GroundedChat(context.Background(), messages, "", "")
	if err != nil {
		t.Fatalf("grounded chat: %v", err)
	}
	if result.Citations == nil {
		t.Fatalf("expected citations to be an empty slice, got nil")
	}
}

func TestChatAlwaysPrependsSystemMessage(t *testing.T) {
	client := &fakeCompletionClient{result: okResult()}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	if _, err := uc.Chat(context.Background(), messages, ""); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if len(client.lastMessages) != 2 {
		t.Fatalf("expected 2 outbound messages, got %d", len(client.lastMessages))
	}
	if client.lastMessages[0].Role != domain.RoleSystem || client.lastMessages[0].Content != DefaultAssistantPrompt {
		t.Fatalf("unexpected system message: %+v", client.lastMessages[0])
	}
}

func TestChatPropagatesUpstreamError(t *testing.T) {
	upstreamErr := &domain.UpstreamError{Operation: "chat", StatusCode: 401, Message: "invalid api key"}
	client := &fakeCompletionClient{err: upstreamErr}
	uc := NewChatUseCase(client)

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	_, err := uc.Chat(context.Background(), messages, "")
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error kind, got %v", err)
	}
	if domain.UpstreamDetails(err) != "invalid api key" {
		t.Fatalf("expected upstream details preserved, got %q", domain.UpstreamDetails(err))
	}
}

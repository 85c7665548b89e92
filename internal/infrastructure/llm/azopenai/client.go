package azopenai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
	"github.com/hombredepalabra/rag-gateway/internal/infrastructure/resilience"
)

// Grounding behavior is fixed by the relay, not caller-configurable:
// retrieved documents are filtered at medium strictness and at most five
// documents are handed to the model.
const (
	groundingStrictness   = 3
	groundingTopDocuments = 5
)

// Operation names under which outbound calls are retried and breakered.
const (
	opChat         = "chat"
	opGroundedChat = "grounded_chat"
	opEmbed        = "embed"
)

type Options struct {
	Endpoint            string
	APIKey              string
	APIVersion          string
	ChatDeployment      string
	EmbeddingDeployment string

	SearchEndpoint string
	SearchKey      string
	SearchIndex    string

	Timeout     time.Duration
	LogPayloads bool
}

// Client talks to an Azure OpenAI resource: plain chat completions, chat
// completions grounded in a search index, and embeddings.
type Client struct {
	opts       Options
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(opts Options, executor *resilience.Executor) *Client {
	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")
	opts.SearchEndpoint = strings.TrimRight(opts.SearchEndpoint, "/")
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

type chatPayload struct {
	Messages    []domain.Message `json:"messages"`
	DataSources []dataSource     `json:"data_sources,omitempty"`
}

type dataSource struct {
	Type       string           `json:"type"`
	Parameters searchParameters `json:"parameters"`
}

type searchParameters struct {
	Endpoint            string              `json:"endpoint"`
	IndexName           string              `json:"index_name"`
	Authentication      apiKeyAuth          `json:"authentication"`
	EmbeddingDependency embeddingDependency `json:"embedding_dependency"`
	QueryType           string              `json:"query_type"`
	Strictness          int                 `json:"strictness"`
	TopNDocuments       int                 `json:"top_n_documents"`
}

type apiKeyAuth struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type embeddingDependency struct {
	Type           string `json:"type"`
	DeploymentName string `json:"deployment_name"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Context struct {
				Citations []struct {
					Title    string `json:"title"`
					Content  string `json:"content"`
					URL      string `json:"url"`
					Filepath string `json:"filepath"`
					ChunkID  string `json:"chunk_id"`
				} `json:"citations"`
			} `json:"context"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *Client) CompleteChat(ctx context.Context, messages []domain.Message) (*domain.ChatResult, error) {
	return c.completeChat(ctx, opChat, chatPayload{Messages: messages})
}

func (c *Client) CompleteChatWithData(
	ctx context.Context,
	messages []domain.Message,
	queryType domain.QueryType,
) (*domain.ChatResult, error) {
	payload := chatPayload{
		Messages: messages,
		DataSources: []dataSource{{
			Type: "azure_search",
			Parameters: searchParameters{
				Endpoint:  c.opts.SearchEndpoint,
				IndexName: c.opts.SearchIndex,
				Authentication: apiKeyAuth{
					Type: "api_key",
					Key:  c.opts.SearchKey,
				},
				EmbeddingDependency: embeddingDependency{
					Type:           "deployment_name",
					DeploymentName: c.opts.EmbeddingDeployment,
				},
				QueryType:     string(queryType),
				Strictness:    groundingStrictness,
				TopNDocuments: groundingTopDocuments,
			},
		}},
	}
	return c.completeChat(ctx, opGroundedChat, payload)
}

func (c *Client) completeChat(ctx context.Context, operation string, payload chatPayload) (*domain.ChatResult, error) {
	var response chatCompletionResponse
	if err := c.postJSON(ctx, operation, c.chatURL(), payload, &response); err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, domain.WrapError(domain.ErrUpstream, operation,
			fmt.Errorf("no completion choices returned"))
	}

	choice := response.Choices[0]
	citations := make([]domain.Citation, 0, len(choice.Message.Context.Citations))
	for _, raw := range choice.Message.Context.Citations {
		citations = append(citations, domain.Citation{
			Title:    raw.Title,
			Content:  raw.Content,
			URL:      raw.URL,
			Filepath: raw.Filepath,
			ChunkID:  raw.ChunkID,
		})
	}

	return &domain.ChatResult{
		Message:   choice.Message.Content,
		Citations: citations,
		Usage: domain.Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		},
	}, nil
}

func (c *Client) Embed(ctx context.Context, text string) (*domain.Embedding, error) {
	request := map[string]any{
		"input": text,
	}

	var response struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, opEmbed, c.embeddingsURL(), request, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, domain.WrapError(domain.ErrUpstream, opEmbed,
			fmt.Errorf("no embedding data returned"))
	}
	return &domain.Embedding{Vector: response.Data[0].Embedding}, nil
}

func (c *Client) chatURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.opts.Endpoint, c.opts.ChatDeployment, c.opts.APIVersion)
}

func (c *Client) embeddingsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/embeddings?api-version=%s",
		c.opts.Endpoint, c.opts.EmbeddingDeployment, c.opts.APIVersion)
}

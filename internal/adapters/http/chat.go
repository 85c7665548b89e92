package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hombredepalabra/rag-gateway/internal/core/domain"
)

type chatRequest struct {
	Messages     []domain.Message `json:"messages"`
	SystemPrompt string           `json:"systemPrompt"`
	QueryType    string           `json:"queryType"`
}

type groundedChatResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Citations []domain.Citation `json:"citations"`
	Usage     domain.Usage      `json:"usage"`
}

type baseChatResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Usage   domain.Usage `json:"usage"`
}

func (rt *Router) groundedChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rt.notFound(w, r)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: messages must be an array of {role, content}"})
		return
	}

	start := time.Now()
	result, err := rt.chatSvc.GroundedChat(r.Context(), req.Messages, req.SystemPrompt, domain.QueryType(req.QueryType))
	if err != nil {
		rt.httpMetrics.RecordRelayRequest(serviceLabel, "chat", "error", time.Since(start))
		rt.writeError(w, "chat relay failed", err)
		return
	}

	rt.httpMetrics.RecordRelayRequest(serviceLabel, "chat", "success", time.Since(start))
	rt.httpMetrics.RecordCitations(serviceLabel, len(result.Citations))
	rt.httpMetrics.RecordTokenUsage(serviceLabel, "chat", result.Usage.PromptTokens, result.Usage.CompletionTokens)

	writeJSON(w, http.StatusOK, groundedChatResponse{
		Success:   true,
		Message:   result.Message,
		Citations: result.Citations,
		Usage:     result.Usage,
	})
}

func (rt *Router) baseChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rt.notFound(w, r)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: messages must be an array of {role, content}"})
		return
	}

	start := time.Now()
	result, err := rt.chatSvc.Chat(r.Context(), req.Messages, req.SystemPrompt)
	if err != nil {
		rt.httpMetrics.RecordRelayRequest(serviceLabel, "chat_base", "error", time.Since(start))
		rt.writeError(w, "chat relay failed", err)
		return
	}

	rt.httpMetrics.RecordRelayRequest(serviceLabel, "chat_base", "success", time.Since(start))
	rt.httpMetrics.RecordTokenUsage(serviceLabel, "chat_base", result.Usage.PromptTokens, result.Usage.CompletionTokens)

	writeJSON(w, http.StatusOK, baseChatResponse{
		Success: true,
		Message: result.Message,
		Usage:   result.Usage,
	})
}

// writeError maps a domain error to its HTTP status. Server-side failures
// carry the upstream-supplied text in details; client errors surface the
// validation message itself.
func (rt *Router) writeError(w http.ResponseWriter, summary string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status < http.StatusInternalServerError {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, status, errorResponse{Error: summary, Details: domain.UpstreamDetails(err)})
}

package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"
)

type embeddingsRequest struct {
	Text string `json:"text"`
}

type embeddingsResponse struct {
	Success    bool      `json:"success"`
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

func (rt *Router) embeddings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rt.notFound(w, r)
		return
	}

	var req embeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: text is required"})
		return
	}

	start := time.Now()
	embedding, err := rt.embedSvc.Embed(r.Context(), req.Text)
	if err != nil {
		rt.httpMetrics.RecordRelayRequest(serviceLabel, "embeddings", "error", time.Since(start))
		rt.writeError(w, "embedding relay failed", err)
		return
	}

	rt.httpMetrics.RecordRelayRequest(serviceLabel, "embeddings", "success", time.Since(start))
	writeJSON(w, http.StatusOK, embeddingsResponse{
		Success:    true,
		Embedding:  embedding.Vector,
		Dimensions: embedding.Dimensions(),
	})
}

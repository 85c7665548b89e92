package httpadapter

import "net/http"

type statusResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Config  statusConfig `json:"config"`
}

type statusConfig struct {
	SearchIndex    string `json:"searchIndex"`
	EmbeddingModel string `json:"embeddingModel"`
	ChatModel      string `json:"chatModel"`
}

// root answers the configuration echo on exactly "/"; everything else that
// lands here is an unmatched path.
func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		rt.notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Message: "rag gateway is running",
		Config: statusConfig{
			SearchIndex:    rt.cfg.SearchIndex,
			EmbeddingModel: rt.cfg.EmbeddingDeployment,
			ChatModel:      rt.cfg.ChatDeployment,
		},
	})
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rt.notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

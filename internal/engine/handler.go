package engine

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	engine *Engine
}

func NewHandler(eng *Engine) *Handler {
	return &Handler{engine: eng}
}

type statusResponse struct {
	Backend    string          `json:"backend"`
	Available  bool            `json:"available"`
	Operations map[string]bool `json:"operations"`
}

// BackendStatus reports which backend is active and which operations it
// currently serves.
func (h *Handler) BackendStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Backend:    h.engine.BackendName(),
		Available:  h.engine.Available(),
		Operations: h.engine.Status(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

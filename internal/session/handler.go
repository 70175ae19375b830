package session

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

type listResponse struct {
	Count    int    `json:"count"`
	Sessions []Info `json:"sessions"`
}

// List reports the live sessions for diagnostics.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{
		Count:    h.hub.Count(),
		Sessions: h.hub.Sessions(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

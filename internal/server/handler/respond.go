// Package handler provides the HTTP handlers for the LabelPilot API.
package handler

import (
	"encoding/json"
	"net/http"
)

// detailResponse mirrors the {"detail": ...} error body shape used across the
// API.
type detailResponse struct {
	Detail string `json:"detail"`
}

// writeJSON serializes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error body.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

// InfoHandler serves the service info document at the API root.
type InfoHandler struct {
	engineAvailable bool
}

// NewInfoHandler creates an InfoHandler.
func NewInfoHandler(engineAvailable bool) *InfoHandler {
	return &InfoHandler{engineAvailable: engineAvailable}
}

// Handle reports the service name and whether automation is enabled.
func (h *InfoHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "LabelPilot issue automation API",
		"engine_available": h.engineAvailable,
	})
}

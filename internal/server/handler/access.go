package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ghclient "github.com/labelpilot/labelpilot/internal/github"
)

// AccessHandler exposes repository access verification.
type AccessHandler struct {
	verifier *ghclient.Verifier
	logger   *slog.Logger
}

// NewAccessHandler creates an AccessHandler.
func NewAccessHandler(verifier *ghclient.Verifier, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{verifier: verifier, logger: logger}
}

type verifyAccessRequest struct {
	RepoFullName string `json:"repo_full_name"`
	UserID       string `json:"user_id"`
}

// Verify checks whether the user's stored credential can reach the given
// repository. The check always answers 200; lack of access is data, not an
// HTTP error.
func (h *AccessHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RepoFullName == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "repo_full_name and user_id are required")
		return
	}

	result := h.verifier.VerifyAccess(r.Context(), req.RepoFullName, req.UserID)
	h.logger.Debug("verified repository access",
		"repository", req.RepoFullName, "user_id", req.UserID, "has_access", result.HasAccess)
	writeJSON(w, http.StatusOK, result)
}

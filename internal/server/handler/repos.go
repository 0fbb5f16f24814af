package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/labelpilot/labelpilot/internal/catalog"
	"github.com/labelpilot/labelpilot/internal/core"
	ghclient "github.com/labelpilot/labelpilot/internal/github"
	"github.com/labelpilot/labelpilot/internal/store"
)

// ReposHandler serves the user's GitHub repository listing and the connected
// repository catalog.
type ReposHandler struct {
	catalog catalog.Store
	creds   *store.CredentialStore
	clients ghclient.ClientFactory
	logger  *slog.Logger
}

// NewReposHandler creates a ReposHandler.
func NewReposHandler(cat catalog.Store, creds *store.CredentialStore, clients ghclient.ClientFactory, logger *slog.Logger) *ReposHandler {
	return &ReposHandler{catalog: cat, creds: creds, clients: clients, logger: logger}
}

// ListGitHub lists the repositories the user's GitHub account can access,
// paginated with page and per_page query parameters.
func (h *ReposHandler) ListGitHub(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	token, ok := h.creds.Get(userID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "GitHub authentication required")
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 30)

	repos, err := h.clients(r.Context(), token).ListUserRepositories(r.Context(), page, perPage)
	if err != nil {
		if ghclient.StatusCode(err) == http.StatusUnauthorized {
			h.creds.Delete(userID)
			h.logger.Info("evicted invalid github token", "user_id", userID)
			writeError(w, http.StatusUnauthorized, "GitHub token is invalid or expired")
			return
		}
		h.logger.Error("failed to list github repositories", "user_id", userID, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch repositories from GitHub")
		return
	}

	out := make([]map[string]any, 0, len(repos))
	for _, repo := range repos {
		out = append(out, map[string]any{
			"id":          repo.GetID(),
			"name":        repo.GetName(),
			"full_name":   repo.GetFullName(),
			"description": repo.GetDescription(),
			"html_url":    repo.GetHTMLURL(),
			"private":     repo.GetPrivate(),
			"language":    repo.GetLanguage(),
			"updated_at":  repo.GetUpdatedAt(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"repositories": out,
		"page":         page,
		"per_page":     perPage,
	})
}

type createRepoRequest struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Create connects a repository to the user's catalog.
func (h *ReposHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = r.URL.Query().Get("user_id")
	}
	if req.UserID == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "user_id and full_name are required")
		return
	}

	saved, err := h.catalog.Add(r.Context(), req.UserID, catalog.Repository{
		Name:        req.Name,
		FullName:    req.FullName,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateRepository) {
			writeError(w, http.StatusConflict, "Repository already exists")
			return
		}
		h.logger.Error("failed to add repository", "user_id", req.UserID, "repository", req.FullName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add repository")
		return
	}

	h.logger.Info("repository connected", "user_id", req.UserID, "repository", saved.FullName)
	writeJSON(w, http.StatusCreated, saved)
}

// List returns the user's connected repositories.
func (h *ReposHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	repos, err := h.catalog.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list repositories", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list repositories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"repositories": repos})
}

// Delete disconnects a repository from the user's catalog. The user is
// identified by the user_id query parameter so one user cannot remove
// another's entry by ID.
func (h *ReposHandler) Delete(w http.ResponseWriter, r *http.Request) {
	repositoryID := chi.URLParam(r, "repositoryID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	deleted, err := h.catalog.Delete(r.Context(), repositoryID, userID)
	if err != nil {
		h.logger.Error("failed to delete repository", "repository_id", repositoryID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete repository")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Repository not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Repository deleted"})
}

// queryInt parses an integer query parameter, falling back to def on absence
// or garbage.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

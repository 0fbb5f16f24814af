package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-github/v73/github"

	ghclient "github.com/labelpilot/labelpilot/internal/github"
	"github.com/labelpilot/labelpilot/internal/policy"
	"github.com/labelpilot/labelpilot/internal/store"
)

// HooksHandler registers the service webhook on user repositories and reports
// whether one is already installed.
type HooksHandler struct {
	creds      *store.CredentialStore
	secrets    *store.SecretStore
	clients    ghclient.ClientFactory
	pol        *policy.Policy
	backendURL string
	logger     *slog.Logger
}

// NewHooksHandler creates a HooksHandler.
func NewHooksHandler(creds *store.CredentialStore, secrets *store.SecretStore, clients ghclient.ClientFactory, pol *policy.Policy, backendURL string, logger *slog.Logger) *HooksHandler {
	return &HooksHandler{
		creds:      creds,
		secrets:    secrets,
		clients:    clients,
		pol:        pol,
		backendURL: backendURL,
		logger:     logger,
	}
}

func (h *HooksHandler) webhookURL() string {
	return h.backendURL + "/github-webhook"
}

type setupHookRequest struct {
	RepoFullName string `json:"repo_full_name"`
}

// Setup registers the service webhook on a repository with a fresh random
// secret. The secret is kept server-side so deliveries can later be verified.
func (h *HooksHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req setupHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner, name, ok := ghclient.SplitFullName(req.RepoFullName)
	if !ok {
		writeError(w, http.StatusBadRequest, "repo_full_name must be in owner/repo form")
		return
	}

	token, ok := h.creds.Get(userID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "GitHub authentication required")
		return
	}

	secret, err := newWebhookSecret()
	if err != nil {
		h.logger.Error("could not generate webhook secret", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to set up webhook")
		return
	}

	hook := &github.Hook{
		Active: github.Ptr(true),
		Events: h.pol.WebhookEvents,
		Config: &github.HookConfig{
			URL:         github.Ptr(h.webhookURL()),
			ContentType: github.Ptr("json"),
			Secret:      github.Ptr(secret),
			InsecureSSL: github.Ptr("0"),
		},
	}

	created, err := h.clients(r.Context(), token).CreateHook(r.Context(), owner, name, hook)
	if err != nil {
		switch code := ghclient.StatusCode(err); code {
		case http.StatusUnprocessableEntity:
			// GitHub rejects a second hook with the same config URL.
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Webhook already exists for this repository",
				"status":  "webhook_exists",
			})
		case http.StatusForbidden:
			writeError(w, http.StatusForbidden, "Insufficient permissions to create webhook")
		case http.StatusUnauthorized:
			h.creds.Delete(userID)
			h.logger.Info("evicted invalid github token", "user_id", userID)
			writeError(w, http.StatusUnauthorized, "GitHub token is invalid or expired")
		default:
			h.logger.Error("webhook creation failed", "repository", req.RepoFullName, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to create webhook on GitHub")
		}
		return
	}

	h.secrets.Set(req.RepoFullName, secret)
	h.logger.Info("webhook registered", "repository", req.RepoFullName, "hook_id", created.GetID())

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Webhook created successfully",
		"hook_id":    created.GetID(),
		"repository": req.RepoFullName,
		"events":     h.pol.WebhookEvents,
	})
}

// Status reports whether the service webhook is installed on a repository,
// identified by its config URL.
func (h *HooksHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	repoFullName := r.URL.Query().Get("repo_full_name")

	owner, name, ok := ghclient.SplitFullName(repoFullName)
	if !ok {
		writeError(w, http.StatusBadRequest, "repo_full_name must be in owner/repo form")
		return
	}

	token, ok := h.creds.Get(userID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "GitHub authentication required")
		return
	}

	hooks, err := h.clients(r.Context(), token).ListHooks(r.Context(), owner, name)
	if err != nil {
		h.logger.Error("failed to list hooks", "repository", repoFullName, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to list webhooks on GitHub")
		return
	}

	for _, hook := range hooks {
		if hook.GetConfig().GetURL() == h.webhookURL() {
			writeJSON(w, http.StatusOK, map[string]any{
				"installed": true,
				"hook_id":   hook.GetID(),
				"active":    hook.GetActive(),
				"events":    hook.Events,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"installed": false})
}

// newWebhookSecret generates a 32-byte hex secret.
func newWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

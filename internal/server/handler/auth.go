package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	ghclient "github.com/labelpilot/labelpilot/internal/github"
	"github.com/labelpilot/labelpilot/internal/store"
)

// AuthHandler implements the GitHub OAuth flow: handing out the authorization
// URL, receiving the provider redirect, exchanging the code, and reporting
// per-user authentication state.
type AuthHandler struct {
	oauth       *ghclient.OAuth
	creds       *store.CredentialStore
	clients     ghclient.ClientFactory
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(oauth *ghclient.OAuth, creds *store.CredentialStore, clients ghclient.ClientFactory, frontendURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		oauth:       oauth,
		creds:       creds,
		clients:     clients,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// AuthURL returns the provider authorization URL for the frontend to open.
func (h *AuthHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "github_auth"
	}

	authURL := h.oauth.AuthURL(state)
	if authURL == "" {
		writeError(w, http.StatusServiceUnavailable, "GitHub OAuth is not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"auth_url": authURL})
}

// Login redirects the browser straight to the provider authorization page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	authURL := h.oauth.AuthURL("github_auth")
	if authURL == "" {
		writeError(w, http.StatusServiceUnavailable, "GitHub OAuth is not configured")
		return
	}
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// CallbackRedirect receives the provider redirect and forwards code and state
// to the frontend, which completes the exchange via CallbackExchange.
func (h *AuthHandler) CallbackRedirect(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	target := fmt.Sprintf("%s/auth/callback?code=%s&state=%s",
		h.frontendURL, url.QueryEscape(code), url.QueryEscape(state))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

type callbackRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

// CallbackExchange trades the authorization code for an access token and
// stores it for the user. The token itself never appears in the response.
func (h *AuthHandler) CallbackExchange(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), req.Code)
	if err != nil {
		h.logger.Error("oauth exchange failed", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to exchange authorization code")
		return
	}

	user, err := h.clients(r.Context(), token).GetAuthenticatedUser(r.Context())
	if err != nil {
		h.logger.Error("could not identify token owner", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch GitHub user")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = user.GetLogin()
	}
	h.creds.Set(userID, token)
	h.logger.Info("stored github credential", "user_id", userID, "github_login", user.GetLogin())

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "GitHub authentication successful",
		"user_id": userID,
		"github_user": map[string]any{
			"login":      user.GetLogin(),
			"name":       user.GetName(),
			"avatar_url": user.GetAvatarURL(),
		},
	})
}

// Status reports whether the user has a working stored credential. A token
// the provider rejects with 401 is evicted on the spot.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	token, ok := h.creds.Get(userID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"auth_url":      h.oauth.AuthURL("github_auth"),
		})
		return
	}

	user, err := h.clients(r.Context(), token).GetAuthenticatedUser(r.Context())
	if err != nil {
		if ghclient.StatusCode(err) == http.StatusUnauthorized {
			h.creds.Delete(userID)
			h.logger.Info("evicted invalid github token", "user_id", userID)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"auth_url":      h.oauth.AuthURL("github_auth"),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"github_user": map[string]any{
			"login":      user.GetLogin(),
			"name":       user.GetName(),
			"avatar_url": user.GetAvatarURL(),
		},
	})
}

package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/labelpilot/labelpilot/internal/store"
)

// Access error codes reported by VerifyAccess.
const (
	AccessErrNoToken      = "no_github_token"
	AccessErrInvalidToken = "invalid_token"
	AccessErrRepoNotFound = "repository_not_found"
	AccessErrAPIError     = "api_error"
	AccessErrNetworkError = "network_error"
)

// AccessResult is the outcome of a repository access verification.
type AccessResult struct {
	HasAccess   bool               `json:"has_access"`
	Error       string             `json:"error,omitempty"`
	Message     string             `json:"message,omitempty"`
	AuthURL     string             `json:"auth_url,omitempty"`
	Repository  *github.Repository `json:"repository,omitempty"`
	Permissions map[string]bool    `json:"permissions,omitempty"`
}

// Verifier checks whether a local user's stored credential grants access to a
// repository. It fails closed: any doubt yields HasAccess=false with a
// structured reason, and a credential the provider rejects is evicted.
type Verifier struct {
	creds   *store.CredentialStore
	oauth   *OAuth
	clients ClientFactory
	logger  *slog.Logger
}

// NewVerifier creates a Verifier.
func NewVerifier(creds *store.CredentialStore, oauth *OAuth, clients ClientFactory, logger *slog.Logger) *Verifier {
	return &Verifier{creds: creds, oauth: oauth, clients: clients, logger: logger}
}

// VerifyAccess checks the user's access to repoFullName. It never mutates
// automation state; its only side effect is evicting an invalid credential.
func (v *Verifier) VerifyAccess(ctx context.Context, repoFullName, userID string) *AccessResult {
	token, ok := v.creds.Get(userID)
	if !ok {
		return &AccessResult{
			HasAccess: false,
			Error:     AccessErrNoToken,
			Message:   "GitHub authentication required",
			AuthURL:   v.oauth.AuthURL("github_auth"),
		}
	}

	owner, name, ok := SplitFullName(repoFullName)
	if !ok {
		return &AccessResult{
			HasAccess: false,
			Error:     AccessErrRepoNotFound,
			Message:   "Repository not found or access denied",
		}
	}

	repo, err := v.clients(ctx, token).GetRepository(ctx, owner, name)
	if err == nil {
		return &AccessResult{
			HasAccess:   true,
			Repository:  repo,
			Permissions: repo.GetPermissions(),
		}
	}

	switch code := StatusCode(err); {
	case code == http.StatusUnauthorized:
		v.creds.Delete(userID)
		v.logger.Info("evicted invalid github token", "user_id", userID)
		return &AccessResult{
			HasAccess: false,
			Error:     AccessErrInvalidToken,
			Message:   "GitHub token is invalid or expired",
			AuthURL:   v.oauth.AuthURL("github_auth"),
		}
	case code == http.StatusNotFound:
		return &AccessResult{
			HasAccess: false,
			Error:     AccessErrRepoNotFound,
			Message:   "Repository not found or access denied",
		}
	case code > 0:
		return &AccessResult{
			HasAccess: false,
			Error:     AccessErrAPIError,
			Message:   fmt.Sprintf("GitHub API error: %d", code),
		}
	default:
		return &AccessResult{
			HasAccess: false,
			Error:     AccessErrNetworkError,
			Message:   fmt.Sprintf("Failed to verify repository access: %v", err),
		}
	}
}

// SplitFullName splits "owner/repo" into its parts.
func SplitFullName(fullName string) (owner, repo string, ok bool) {
	owner, repo, found := strings.Cut(fullName, "/")
	if !found || owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

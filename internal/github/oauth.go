package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

// ErrOAuthNotConfigured is returned when the GitHub OAuth app credentials are
// missing from the configuration.
var ErrOAuthNotConfigured = errors.New("github oauth is not configured")

// OAuth wraps the GitHub OAuth code-exchange flow.
type OAuth struct {
	config *oauth2.Config
	logger *slog.Logger
}

// NewOAuth creates the OAuth helper. Empty client credentials leave it in an
// unconfigured state where AuthURL returns "" and Exchange fails.
func NewOAuth(clientID, clientSecret, redirectURL string, logger *slog.Logger) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"repo", "read:user"},
			Endpoint:     oauthgithub.Endpoint,
		},
		logger: logger,
	}
}

// Configured reports whether OAuth app credentials are present.
func (o *OAuth) Configured() bool {
	return o.config.ClientID != "" && o.config.ClientSecret != ""
}

// AuthURL returns the provider authorization URL carrying the given state, or
// "" when OAuth is not configured.
func (o *OAuth) AuthURL(state string) string {
	if !o.Configured() {
		return ""
	}
	return o.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (o *OAuth) Exchange(ctx context.Context, code string) (string, error) {
	if !o.Configured() {
		return "", ErrOAuthNotConfigured
	}

	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		o.logger.Error("oauth code exchange failed", "error", err)
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("provider returned an empty access token")
	}
	return token.AccessToken, nil
}

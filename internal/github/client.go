// Package github provides functionality for interacting with the GitHub API
// on behalf of users' stored OAuth tokens.
package github

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client defines the set of GitHub operations the application needs:
// repository lookup and listing, user identification, and webhook management.
type Client interface {
	GetAuthenticatedUser(ctx context.Context) (*github.User, error)
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	ListUserRepositories(ctx context.Context, page, perPage int) ([]*github.Repository, error)
	CreateHook(ctx context.Context, owner, repo string, hook *github.Hook) (*github.Hook, error)
	ListHooks(ctx context.Context, owner, repo string) ([]*github.Hook, error)
}

// ClientFactory builds a Client for a user token. Injected so handlers can be
// tested without the network.
type ClientFactory func(ctx context.Context, token string) Client

type gitHubClient struct {
	client  *github.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTokenClient creates a Client authenticated with an OAuth access token.
// Outbound calls share a limiter so a burst of webhook activity cannot chew
// through the user's API quota.
func NewTokenClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{
		client:  github.NewClient(tc),
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:  logger,
	}
}

// GetAuthenticatedUser returns the user the token belongs to.
func (g *gitHubClient) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	user, _, err := g.client.Users.Get(ctx, "")
	if err != nil {
		g.logger.Debug("failed to get authenticated user", "error", err)
		return nil, err
	}
	return user, nil
}

// GetRepository retrieves a single repository.
func (g *gitHubClient) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	repository, _, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		g.logger.Debug("failed to get repository", "owner", owner, "repo", repo, "error", err)
		return nil, err
	}
	return repository, nil
}

// ListUserRepositories lists repositories the authenticated user can access,
// most recently updated first. perPage is clamped to the API maximum of 100.
func (g *gitHubClient) ListUserRepositories(ctx context.Context, page, perPage int) ([]*github.Repository, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if perPage > 100 {
		perPage = 100
	}
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		Affiliation: "owner,collaborator,organization_member",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	repos, _, err := g.client.Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		g.logger.Error("failed to list user repositories", "error", err)
		return nil, err
	}
	return repos, nil
}

// CreateHook registers a webhook on a repository.
func (g *gitHubClient) CreateHook(ctx context.Context, owner, repo string, hook *github.Hook) (*github.Hook, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	created, _, err := g.client.Repositories.CreateHook(ctx, owner, repo, hook)
	if err != nil {
		g.logger.Error("failed to create hook", "owner", owner, "repo", repo, "error", err)
		return nil, err
	}
	return created, nil
}

// ListHooks lists the webhooks registered on a repository.
func (g *gitHubClient) ListHooks(ctx context.Context, owner, repo string) ([]*github.Hook, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	hooks, _, err := g.client.Repositories.ListHooks(ctx, owner, repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		g.logger.Error("failed to list hooks", "owner", owner, "repo", repo, "error", err)
		return nil, err
	}
	return hooks, nil
}

// StatusCode extracts the HTTP status from a go-github API error, or 0 when
// the error did not reach the API (transport failure, cancelled context).
func StatusCode(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

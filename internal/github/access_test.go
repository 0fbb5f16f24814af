package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelpilot/labelpilot/internal/store"
)

type fakeClient struct {
	repo *github.Repository
	err  error
}

func (f *fakeClient) GetAuthenticatedUser(context.Context) (*github.User, error) {
	return nil, f.err
}

func (f *fakeClient) GetRepository(context.Context, string, string) (*github.Repository, error) {
	return f.repo, f.err
}

func (f *fakeClient) ListUserRepositories(context.Context, int, int) ([]*github.Repository, error) {
	return nil, f.err
}

func (f *fakeClient) CreateHook(context.Context, string, string, *github.Hook) (*github.Hook, error) {
	return nil, f.err
}

func (f *fakeClient) ListHooks(context.Context, string, string) ([]*github.Hook, error) {
	return nil, f.err
}

func apiError(status int) error {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status, Request: &http.Request{}},
	}
}

func newTestVerifier(creds *store.CredentialStore, client Client) *Verifier {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	oauth := NewOAuth("", "", "", logger)
	factory := func(context.Context, string) Client { return client }
	return NewVerifier(creds, oauth, factory, logger)
}

func TestVerifyAccess_NoToken(t *testing.T) {
	v := newTestVerifier(store.NewCredentialStore(), &fakeClient{})

	result := v.VerifyAccess(context.Background(), "acme/widgets", "bob")
	assert.False(t, result.HasAccess)
	assert.Equal(t, AccessErrNoToken, result.Error)
	assert.Equal(t, "GitHub authentication required", result.Message)
}

func TestVerifyAccess_Success(t *testing.T) {
	creds := store.NewCredentialStore()
	creds.Set("alice", "gho_token")

	repo := &github.Repository{
		FullName:    github.Ptr("acme/widgets"),
		Permissions: map[string]bool{"push": true, "pull": true},
	}
	v := newTestVerifier(creds, &fakeClient{repo: repo})

	result := v.VerifyAccess(context.Background(), "acme/widgets", "alice")
	assert.True(t, result.HasAccess)
	require.NotNil(t, result.Repository)
	assert.Equal(t, "acme/widgets", result.Repository.GetFullName())
	assert.True(t, result.Permissions["push"])
	assert.Empty(t, result.Error)
}

func TestVerifyAccess_InvalidTokenEvictsCredential(t *testing.T) {
	creds := store.NewCredentialStore()
	creds.Set("alice", "gho_expired")

	v := newTestVerifier(creds, &fakeClient{err: apiError(http.StatusUnauthorized)})

	result := v.VerifyAccess(context.Background(), "acme/widgets", "alice")
	assert.False(t, result.HasAccess)
	assert.Equal(t, AccessErrInvalidToken, result.Error)

	_, ok := creds.Get("alice")
	assert.False(t, ok, "invalid token must be evicted")
}

func TestVerifyAccess_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError string
	}{
		{"not found", apiError(http.StatusNotFound), AccessErrRepoNotFound},
		{"server error", apiError(http.StatusBadGateway), AccessErrAPIError},
		{"transport failure", errors.New("dial tcp: connection refused"), AccessErrNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := store.NewCredentialStore()
			creds.Set("alice", "gho_token")
			v := newTestVerifier(creds, &fakeClient{err: tt.err})

			result := v.VerifyAccess(context.Background(), "acme/widgets", "alice")
			assert.False(t, result.HasAccess)
			assert.Equal(t, tt.wantError, result.Error)

			// Only a 401 evicts the credential.
			_, ok := creds.Get("alice")
			assert.True(t, ok)
		})
	}
}

func TestVerifyAccess_MalformedFullName(t *testing.T) {
	creds := store.NewCredentialStore()
	creds.Set("alice", "gho_token")
	v := newTestVerifier(creds, &fakeClient{})

	result := v.VerifyAccess(context.Background(), "not-a-full-name", "alice")
	assert.False(t, result.HasAccess)
	assert.Equal(t, AccessErrRepoNotFound, result.Error)
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in        string
		owner     string
		repo      string
		ok        bool
	}{
		{"acme/widgets", "acme", "widgets", true},
		{"acme/", "", "", false},
		{"/widgets", "", "", false},
		{"acme", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		owner, repo, ok := SplitFullName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.owner, owner, tt.in)
		assert.Equal(t, tt.repo, repo, tt.in)
	}
}

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelpilot/labelpilot/internal/core"
)

func TestMemoryStore_AddAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	added, err := s.Add(ctx, "alice", Repository{
		Name:        "widgets",
		FullName:    "acme/widgets",
		Description: "widget factory",
		URL:         "https://github.com/acme/widgets",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "alice", added.UserID)
	assert.False(t, added.CreatedAt.IsZero())

	_, err = s.Add(ctx, "alice", Repository{Name: "gears", FullName: "acme/gears", URL: "u"})
	require.NoError(t, err)

	repos, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "acme/widgets", repos[0].FullName)
	assert.Equal(t, "acme/gears", repos[1].FullName)

	// Other users see nothing.
	repos, err = s.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestMemoryStore_DuplicateFullName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Add(ctx, "alice", Repository{FullName: "acme/widgets", URL: "u"})
	require.NoError(t, err)

	_, err = s.Add(ctx, "alice", Repository{FullName: "acme/widgets", URL: "u"})
	assert.ErrorIs(t, err, core.ErrDuplicateRepository)

	// The same full name under a different user is fine.
	_, err = s.Add(ctx, "bob", Repository{FullName: "acme/widgets", URL: "u"})
	assert.NoError(t, err)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	added, err := s.Add(ctx, "alice", Repository{FullName: "acme/widgets", URL: "u"})
	require.NoError(t, err)

	// Wrong user cannot delete.
	deleted, err := s.Delete(ctx, added.ID, "bob")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.Delete(ctx, added.ID, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, added.ID, "alice")
	require.NoError(t, err)
	assert.False(t, deleted)

	repos, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore(t *testing.T) {
	s := NewCredentialStore()

	_, ok := s.Get("alice")
	assert.False(t, ok)

	s.Set("alice", "gho_first")
	s.Set("alice", "gho_second")

	token, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "gho_second", token)

	s.Delete("alice")
	_, ok = s.Get("alice")
	assert.False(t, ok)

	// Deleting an absent user must not panic.
	s.Delete("bob")
}

func TestCredentialStore_Users(t *testing.T) {
	s := NewCredentialStore()
	s.Set("alice", "a")
	s.Set("bob", "b")

	assert.ElementsMatch(t, []string{"alice", "bob"}, s.Users())
}

func TestSecretStore(t *testing.T) {
	s := NewSecretStore()

	_, ok := s.Get("acme/widgets")
	assert.False(t, ok)

	s.Set("acme/widgets", "s3cret")
	secret, ok := s.Get("acme/widgets")
	require.True(t, ok)
	assert.Equal(t, "s3cret", secret)

	assert.Equal(t, []string{"acme/widgets"}, s.Repositories())
}

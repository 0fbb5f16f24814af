package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/labelpilot/labelpilot/internal/core"
)

// memoryStore is the in-memory fallback catalog, used when no database is
// configured. It keeps insertion order per user and enforces the same
// uniqueness-by-full-name invariant as the Postgres store.
type memoryStore struct {
	mu    sync.RWMutex
	repos map[string][]Repository
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() Store {
	return &memoryStore{
		repos: make(map[string][]Repository),
	}
}

// Add appends the repository to the user's collection, assigning a fresh ID
// and timestamps. Duplicate full names are rejected.
func (s *memoryStore) Add(_ context.Context, userID string, repo Repository) (*Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.repos[userID] {
		if existing.FullName == repo.FullName {
			return nil, core.ErrDuplicateRepository
		}
	}

	now := time.Now().UTC()
	repo.ID = uuid.NewString()
	repo.UserID = userID
	repo.CreatedAt = now
	repo.UpdatedAt = now

	s.repos[userID] = append(s.repos[userID], repo)
	return &repo, nil
}

// List returns the user's repositories in insertion order.
func (s *memoryStore) List(_ context.Context, userID string) ([]Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repos := make([]Repository, len(s.repos[userID]))
	copy(repos, s.repos[userID])
	return repos, nil
}

// Delete removes the repository with the given ID from the user's collection.
// It reports whether anything was removed.
func (s *memoryStore) Delete(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repos := s.repos[userID]
	for i, repo := range repos {
		if repo.ID == id {
			s.repos[userID] = append(repos[:i], repos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

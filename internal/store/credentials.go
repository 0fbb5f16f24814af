package store

import "sync"

// CredentialStore maps local user IDs to opaque GitHub access tokens. Tokens
// are added on a successful OAuth exchange and evicted when the provider
// reports them invalid; there is no independent expiry tracking.
type CredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewCredentialStore creates an empty credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		tokens: make(map[string]string),
	}
}

// Set stores the token for a user, replacing any previous one.
func (s *CredentialStore) Set(userID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = token
}

// Get returns the token for a user, or false if none is stored.
func (s *CredentialStore) Get(userID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[userID]
	return token, ok
}

// Delete evicts the user's token. Deleting a missing entry is a no-op.
func (s *CredentialStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
}

// Users returns the IDs of all users with a stored token.
func (s *CredentialStore) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.tokens))
	for id := range s.tokens {
		users = append(users, id)
	}
	return users
}

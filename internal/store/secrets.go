package store

import "sync"

// SecretStore maps repository full names to the webhook secrets generated when
// a hook was registered with GitHub. Secrets are written once at registration
// and read when a deployment enables payload signature verification.
type SecretStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewSecretStore creates an empty secret store.
func NewSecretStore() *SecretStore {
	return &SecretStore{
		secrets: make(map[string]string),
	}
}

// Set stores the webhook secret for a repository.
func (s *SecretStore) Set(repoFullName, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[repoFullName] = secret
}

// Get returns the webhook secret for a repository, or false if none exists.
func (s *SecretStore) Get(repoFullName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[repoFullName]
	return secret, ok
}

// Repositories returns the full names of all repositories with a stored secret.
func (s *SecretStore) Repositories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	repos := make([]string, 0, len(s.secrets))
	for name := range s.secrets {
		repos = append(repos, name)
	}
	return repos
}

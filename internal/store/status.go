// Package store provides the process-lifetime, in-memory state shared between
// the ingress handlers and the background workers: automation status records,
// user credentials, and webhook secrets. Each store guards its map with its
// own lock; none of them persist across restarts.
package store

import (
	"sync"

	"github.com/labelpilot/labelpilot/internal/core"
)

// StatusStore holds one AutomationRecord per job key. Writes overwrite
// unconditionally and records are never deleted during the process lifetime.
type StatusStore struct {
	mu      sync.RWMutex
	records map[core.JobKey]core.AutomationRecord
}

// NewStatusStore creates an empty status store.
func NewStatusStore() *StatusStore {
	return &StatusStore{
		records: make(map[core.JobKey]core.AutomationRecord),
	}
}

// Put overwrites the record for key. The write is immediately visible to
// concurrent readers.
func (s *StatusStore) Put(key core.JobKey, record core.AutomationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
}

// Get returns the current record for key, or false if no job has ever been
// recorded for it.
func (s *StatusStore) Get(key core.JobKey) (core.AutomationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	return record, ok
}

// ListByRepository returns the records of all issues in the given repository,
// keyed by issue number.
func (s *StatusStore) ListByRepository(repoFullName string) map[int]core.AutomationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]core.AutomationRecord)
	for key, record := range s.records {
		if key.RepoFullName == repoFullName {
			out[key.IssueNumber] = record
		}
	}
	return out
}

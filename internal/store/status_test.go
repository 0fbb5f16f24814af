package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelpilot/labelpilot/internal/core"
)

func TestStatusStore_PutOverwrites(t *testing.T) {
	s := NewStatusStore()
	key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 7}

	s.Put(key, core.NewPendingRecord())

	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, got.Status)
	assert.Nil(t, got.StartedAt)

	started := time.Now().UTC()
	s.Put(key, core.AutomationRecord{Status: core.StatusRunning, StartedAt: &started})

	got, ok = s.Get(key)
	require.True(t, ok)
	assert.Equal(t, core.StatusRunning, got.Status)
	require.NotNil(t, got.StartedAt)
	assert.Equal(t, started, *got.StartedAt)
}

func TestStatusStore_GetAbsent(t *testing.T) {
	s := NewStatusStore()

	_, ok := s.Get(core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 1})
	assert.False(t, ok)
}

func TestStatusStore_ListByRepository(t *testing.T) {
	s := NewStatusStore()
	s.Put(core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 1}, core.NewPendingRecord())
	s.Put(core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 2}, core.AutomationRecord{Status: core.StatusCompleted})
	s.Put(core.JobKey{RepoFullName: "acme/gears", IssueNumber: 1}, core.NewPendingRecord())

	got := s.ListByRepository("acme/widgets")
	require.Len(t, got, 2)
	assert.Equal(t, core.StatusPending, got[1].Status)
	assert.Equal(t, core.StatusCompleted, got[2].Status)

	assert.Empty(t, s.ListByRepository("acme/unknown"))
}

func TestStatusStore_ConcurrentAccess(t *testing.T) {
	s := NewStatusStore()
	key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 7}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Put(key, core.NewPendingRecord())
		}()
		go func() {
			defer wg.Done()
			s.Get(key)
			s.ListByRepository("acme/widgets")
		}()
	}
	wg.Wait()

	_, ok := s.Get(key)
	assert.True(t, ok)
}

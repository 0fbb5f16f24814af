package jobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/engine"
	"github.com/labelpilot/labelpilot/internal/policy"
	"github.com/labelpilot/labelpilot/internal/store"
)

type fakeEngine struct {
	tasks  []string
	handle *engine.RunHandle
	err    error
	onRun  func()
}

func (f *fakeEngine) Run(_ context.Context, task string) (*engine.RunHandle, error) {
	f.tasks = append(f.tasks, task)
	if f.onRun != nil {
		f.onRun()
	}
	return f.handle, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLabelJob_Completed(t *testing.T) {
	statuses := store.NewStatusStore()
	creds := store.NewCredentialStore()
	key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 7}

	var runningStartedAt *time.Time
	eng := &fakeEngine{handle: &engine.RunHandle{ID: "run-42", Outputs: "labeled"}}
	eng.onRun = func() {
		// The record must already be running with started_at set while the
		// engine executes.
		record, ok := statuses.Get(key)
		require.True(t, ok)
		require.Equal(t, core.StatusRunning, record.Status)
		require.NotNil(t, record.StartedAt)
		runningStartedAt = record.StartedAt
	}

	job := NewLabelJob(eng, statuses, creds, policy.Default(), testLogger())
	err := job.Run(context.Background(), key, core.JobContext{
		RepositoryURL: "https://api.github.com/repos/acme/widgets",
	})
	require.NoError(t, err)

	record, ok := statuses.Get(key)
	require.True(t, ok)
	assert.Equal(t, core.StatusCompleted, record.Status)
	require.NotNil(t, record.StartedAt)
	assert.Equal(t, runningStartedAt, record.StartedAt)
	require.NotNil(t, record.CompletedAt)
	assert.Nil(t, record.ErrorMessage)
	require.NotNil(t, record.TaskID)
	assert.Equal(t, "run-42", *record.TaskID)

	require.Len(t, eng.tasks, 1)
	assert.Equal(t,
		"give labels to this issue #7 from reading it title and body of github repository url: https://api.github.com/repos/acme/widgets",
		eng.tasks[0])
}

func TestLabelJob_AppendsStoredToken(t *testing.T) {
	statuses := store.NewStatusStore()
	creds := store.NewCredentialStore()
	creds.Set("alice", "gho_secret")

	eng := &fakeEngine{handle: &engine.RunHandle{}}
	job := NewLabelJob(eng, statuses, creds, policy.Default(), testLogger())

	key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 1}
	require.NoError(t, job.Run(context.Background(), key, core.JobContext{
		RepositoryURL: "https://api.github.com/repos/acme/widgets",
		UserID:        "alice",
	}))
	require.Len(t, eng.tasks, 1)
	assert.Contains(t, eng.tasks[0], "Use this GitHub token for authentication: gho_secret")

	// No token stored means no authentication instruction.
	require.NoError(t, job.Run(context.Background(), key, core.JobContext{
		RepositoryURL: "https://api.github.com/repos/acme/widgets",
		UserID:        "bob",
	}))
	require.Len(t, eng.tasks, 2)
	assert.NotContains(t, eng.tasks[1], "authentication")

	// A record without TaskID keeps it nil.
	record, ok := statuses.Get(key)
	require.True(t, ok)
	assert.Nil(t, record.TaskID)
}

func TestLabelJob_FailureClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "untyped 403 message",
			err:     errors.New("403 Forbidden"),
			wantMsg: engine.AccessDeniedMessage,
		},
		{
			name:    "typed access failure",
			err:     &engine.RunError{Kind: engine.FailureAccessDenied, Err: errors.New("provider refused the request")},
			wantMsg: engine.AccessDeniedMessage,
		},
		{
			name:    "other failure keeps raw message",
			err:     errors.New("disk full"),
			wantMsg: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses := store.NewStatusStore()
			key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 9}

			job := NewLabelJob(&fakeEngine{err: tt.err}, statuses, store.NewCredentialStore(), policy.Default(), testLogger())
			err := job.Run(context.Background(), key, core.JobContext{RepositoryURL: "u"})
			require.Error(t, err)

			record, ok := statuses.Get(key)
			require.True(t, ok)
			assert.Equal(t, core.StatusFailed, record.Status)
			require.NotNil(t, record.ErrorMessage)
			assert.Equal(t, tt.wantMsg, *record.ErrorMessage)
			assert.NotNil(t, record.StartedAt)
			assert.NotNil(t, record.CompletedAt)
			assert.Nil(t, record.TaskID)
		})
	}
}

func TestLabelJob_NilEngineLeavesRecordPending(t *testing.T) {
	statuses := store.NewStatusStore()
	key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 3}
	statuses.Put(key, core.NewPendingRecord())

	job := NewLabelJob(nil, statuses, store.NewCredentialStore(), policy.Default(), testLogger())
	require.NoError(t, job.Run(context.Background(), key, core.JobContext{RepositoryURL: "u"}))

	record, ok := statuses.Get(key)
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, record.Status)
	assert.Nil(t, record.StartedAt)
}

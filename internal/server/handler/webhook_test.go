package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/store"
)

type fakeDispatcher struct {
	err     error
	calls   []core.JobKey
	lastCtx core.JobContext
}

func (f *fakeDispatcher) Dispatch(_ context.Context, key core.JobKey, jobCtx core.JobContext) error {
	f.calls = append(f.calls, key)
	f.lastCtx = jobCtx
	return f.err
}

func (f *fakeDispatcher) Stop() {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func issuePayload(action string, number int) string {
	payload := map[string]any{
		"action": action,
		"issue": map[string]any{
			"number":         number,
			"title":          "crash on startup",
			"repository_url": "https://api.github.com/repos/acme/widgets",
		},
		"repository": map[string]any{
			"name":      "widgets",
			"full_name": "acme/widgets",
			"owner":     map[string]any{"login": "acme"},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestWebhook_OpenedIssueDispatchesJob(t *testing.T) {
	statuses := store.NewStatusStore()
	dispatcher := &fakeDispatcher{}
	h := NewWebhookHandler(statuses, dispatcher, core.OwnerLoginResolver{}, true, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/github-webhook", strings.NewReader(issuePayload("opened", 42)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	key := core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 42}
	record, ok := statuses.Get(key)
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, record.Status)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, key, dispatcher.calls[0])
	assert.Equal(t, "https://api.github.com/repos/acme/widgets", dispatcher.lastCtx.RepositoryURL)
	assert.Equal(t, "acme", dispatcher.lastCtx.UserID)
}

func TestWebhook_IgnoredActionIsAcknowledged(t *testing.T) {
	statuses := store.NewStatusStore()
	dispatcher := &fakeDispatcher{}
	h := NewWebhookHandler(statuses, dispatcher, core.OwnerLoginResolver{}, true, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/github-webhook", strings.NewReader(issuePayload("closed", 7)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, dispatcher.calls)

	_, ok := statuses.Get(core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 7})
	assert.False(t, ok)
}

func TestWebhook_InvalidJSON(t *testing.T) {
	h := NewWebhookHandler(store.NewStatusStore(), &fakeDispatcher{}, core.OwnerLoginResolver{}, true, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/github-webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestWebhook_EngineUnavailableLeavesJobPending(t *testing.T) {
	statuses := store.NewStatusStore()
	dispatcher := &fakeDispatcher{}
	h := NewWebhookHandler(statuses, dispatcher, core.OwnerLoginResolver{}, false, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/github-webhook", strings.NewReader(issuePayload("opened", 3)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "automation disabled")
	assert.Empty(t, dispatcher.calls)

	record, ok := statuses.Get(core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 3})
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, record.Status)
}

func TestWebhook_DispatchFailureStillAcknowledged(t *testing.T) {
	statuses := store.NewStatusStore()
	dispatcher := &fakeDispatcher{err: core.ErrQueueFull}
	h := NewWebhookHandler(statuses, dispatcher, core.OwnerLoginResolver{}, true, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/github-webhook", strings.NewReader(issuePayload("opened", 9)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	record, ok := statuses.Get(core.JobKey{RepoFullName: "acme/widgets", IssueNumber: 9})
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, record.Status)
}

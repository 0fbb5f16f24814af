package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelpilot/labelpilot/internal/engine"
	"github.com/labelpilot/labelpilot/internal/policy"
)

type stubEngine struct {
	lastTask string
	handle   *engine.RunHandle
	err      error
}

func (s *stubEngine) Run(_ context.Context, task string) (*engine.RunHandle, error) {
	s.lastTask = task
	return s.handle, s.err
}

func TestTasks_RunDefaultUsesPolicyTask(t *testing.T) {
	eng := &stubEngine{handle: &engine.RunHandle{ID: "run-1", Outputs: "labeled 3 issues"}}
	h := NewTasksHandler(eng, policy.Default(), testLogger())

	rec := httptest.NewRecorder()
	h.RunDefault(rec, httptest.NewRequest(http.MethodGet, "/run-task", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, policy.Default().DefaultTask, eng.lastTask)
	assert.Contains(t, rec.Body.String(), "run-1")
}

func TestTasks_RunCustomTask(t *testing.T) {
	eng := &stubEngine{handle: &engine.RunHandle{ID: "run-2"}}
	h := NewTasksHandler(eng, policy.Default(), testLogger())

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/run-task", strings.NewReader(`{"task":"close stale issues"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "close stale issues", eng.lastTask)
}

func TestTasks_EmptyTaskRejected(t *testing.T) {
	h := NewTasksHandler(&stubEngine{}, policy.Default(), testLogger())

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/run-task", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasks_EngineUnavailable(t *testing.T) {
	h := NewTasksHandler(nil, policy.Default(), testLogger())

	rec := httptest.NewRecorder()
	h.RunDefault(rec, httptest.NewRequest(http.MethodGet, "/run-task", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

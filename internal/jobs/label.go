package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/engine"
	"github.com/labelpilot/labelpilot/internal/policy"
	"github.com/labelpilot/labelpilot/internal/store"
)

// LabelJob runs the labeling automation for one issue: it marks the record
// running, hands the engine a natural-language task, and writes the terminal
// record. Engine failures are recorded, never propagated to any request.
type LabelJob struct {
	engine   engine.Engine
	statuses *store.StatusStore
	creds    *store.CredentialStore
	pol      *policy.Policy
	logger   *slog.Logger
}

// NewLabelJob creates a LabelJob. A nil engine is allowed and puts the job in
// degraded mode: runs are skipped and records stay pending.
func NewLabelJob(eng engine.Engine, statuses *store.StatusStore, creds *store.CredentialStore, pol *policy.Policy, logger *slog.Logger) core.Job {
	if statuses == nil {
		panic("status store cannot be nil")
	}
	if creds == nil {
		panic("credential store cannot be nil")
	}
	if pol == nil {
		pol = policy.Default()
	}
	return &LabelJob{engine: eng, statuses: statuses, creds: creds, pol: pol, logger: logger}
}

// Run executes the labeling job for one key.
func (j *LabelJob) Run(ctx context.Context, key core.JobKey, jobCtx core.JobContext) error {
	if j.engine == nil {
		j.logger.Warn("automation engine not configured, skipping job; record stays pending",
			"job", key.String())
		return nil
	}

	started := time.Now().UTC()
	j.statuses.Put(key, core.AutomationRecord{
		Status:    core.StatusRunning,
		StartedAt: &started,
	})

	task := j.buildTask(key, jobCtx)

	handle, err := j.engine.Run(ctx, task)
	completed := time.Now().UTC()
	if err != nil {
		msg := classifyFailure(err)
		j.statuses.Put(key, core.AutomationRecord{
			Status:       core.StatusFailed,
			StartedAt:    &started,
			CompletedAt:  &completed,
			ErrorMessage: &msg,
		})
		j.logger.Error("automation failed", "job", key.String(), "error", err)
		return fmt.Errorf("automation run for %s failed: %w", key.String(), err)
	}

	record := core.AutomationRecord{
		Status:      core.StatusCompleted,
		StartedAt:   &started,
		CompletedAt: &completed,
	}
	if handle != nil && handle.ID != "" {
		record.TaskID = &handle.ID
	}
	j.statuses.Put(key, record)

	j.logger.Info("automation completed", "job", key.String())
	if handle != nil && handle.Outputs != "" {
		j.logger.Debug("engine outputs", "job", key.String(), "outputs", handle.Outputs)
	}
	return nil
}

// buildTask renders the engine task for the issue and, when a credential is
// stored for the triggering user, appends the authentication instruction.
func (j *LabelJob) buildTask(key core.JobKey, jobCtx core.JobContext) string {
	task := j.pol.TaskFor(key.IssueNumber, jobCtx.RepositoryURL)

	if jobCtx.UserID != "" {
		if token, ok := j.creds.Get(jobCtx.UserID); ok {
			task += fmt.Sprintf(". Use this GitHub token for authentication: %s", token)
		}
	}
	return task
}

// classifyFailure derives the user-facing error message from an engine
// failure. Typed access failures map directly; untyped errors fall back to
// the message heuristic.
func classifyFailure(err error) string {
	var runErr *engine.RunError
	if errors.As(err, &runErr) && runErr.Kind == engine.FailureAccessDenied {
		return engine.AccessDeniedMessage
	}
	return engine.ClassifyMessage(err.Error())
}

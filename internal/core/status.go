// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an automation job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// JobKey identifies one automation unit of work: a single issue in a single
// repository. A webhook delivery and a manual retry for the same issue derive
// the same key and therefore converge on the same record.
type JobKey struct {
	RepoFullName string
	IssueNumber  int
}

// String renders the key in the "owner/repo#number" form used in logs.
func (k JobKey) String() string {
	return fmt.Sprintf("%s#%d", k.RepoFullName, k.IssueNumber)
}

// AutomationRecord tracks the progress of the automation job for one key.
// StartedAt is set once on the transition to running and carried unchanged
// into the terminal states. CompletedAt and ErrorMessage are only non-nil in
// completed/failed.
type AutomationRecord struct {
	Status       Status     `json:"status"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	ErrorMessage *string    `json:"error_message"`
	TaskID       *string    `json:"task_id"`
}

// NewPendingRecord returns the initial record written when a job is accepted,
// before any worker has picked it up.
func NewPendingRecord() AutomationRecord {
	return AutomationRecord{Status: StatusPending}
}

// JobContext carries the per-dispatch data a job needs beyond its key.
type JobContext struct {
	// RepositoryURL is the API URL of the repository the issue belongs to.
	RepositoryURL string
	// UserID is the local user whose stored credential, if any, the job may
	// use for authenticated access. May be empty.
	UserID string
}

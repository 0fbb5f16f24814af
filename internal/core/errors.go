package core

import "errors"

var (
	// ErrJobAlreadyRunning is returned by Dispatch while a job for the same
	// key is queued or running and has not reached a terminal state.
	ErrJobAlreadyRunning = errors.New("automation job already in progress for this issue")

	// ErrQueueFull is returned by Dispatch when the worker pool's queue is
	// saturated.
	ErrQueueFull = errors.New("job queue is full, cannot accept new automation job")

	// ErrEngineUnavailable indicates the automation engine is not configured.
	ErrEngineUnavailable = errors.New("automation engine is not configured")

	// ErrDuplicateRepository indicates a catalog insert conflicted with an
	// existing repository of the same full name for the same user.
	ErrDuplicateRepository = errors.New("repository already exists")

	// ErrRepositoryNotFound indicates a catalog lookup or delete matched nothing.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrNoCredential indicates no GitHub token is stored for the user.
	ErrNoCredential = errors.New("no github token stored for user")
)

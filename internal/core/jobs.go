package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that can accept and queue
// background automation jobs for asynchronous processing. This interface
// decouples the event sources (webhook handler, retry endpoint) from the job
// execution mechanism.
type JobDispatcher interface {
	// Dispatch accepts a job for background processing and returns without
	// waiting for it to run. It returns ErrJobAlreadyRunning if a job for the
	// same key is queued or running, and ErrQueueFull if the queue cannot
	// accept more work, providing a mechanism for backpressure. On success the
	// record for the key has been reset to pending.
	Dispatch(ctx context.Context, key JobKey, jobCtx JobContext) error

	// Stop shuts the dispatcher down, waiting for in-flight jobs to finish.
	Stop()
}

// Job represents a single, executable unit of work processed by the
// application's job dispatcher. A job owns the full lifecycle of its status
// record from running to a terminal state.
type Job interface {
	// Run executes the job's logic. It returns an error if the job fails;
	// the failure is also recorded in the job's status record, so callers
	// only use the error for logging.
	Run(ctx context.Context, key JobKey, jobCtx JobContext) error
}

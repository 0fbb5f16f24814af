// Package jobs defines background tasks such as automated issue labeling.
package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/labelpilot/labelpilot/internal/core"
	"github.com/labelpilot/labelpilot/internal/store"
)

type queuedJob struct {
	key    core.JobKey
	jobCtx core.JobContext
}

// dispatcher implements core.JobDispatcher with a pool of worker goroutines
// fed by a bounded queue. It refuses a dispatch while a job for the same key
// is queued or running, so two engine runs never race on one record.
type dispatcher struct {
	job        core.Job
	statuses   *store.StatusStore
	jobQueue   chan queuedJob
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger

	mu       sync.Mutex
	inflight map[core.JobKey]struct{}
}

// NewDispatcher initializes a dispatcher with a worker pool. If maxWorkers or
// queueSize is 0 or negative, it defaults to 1 worker and a queue of 100.
func NewDispatcher(job core.Job, statuses *store.StatusStore, maxWorkers, queueSize int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	d := &dispatcher{
		job:        job,
		statuses:   statuses,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan queuedJob, queueSize),
		inflight:   make(map[core.JobKey]struct{}),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes jobs from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting automation worker", "id", workerID)

	for item := range d.jobQueue {
		d.processJob(workerID, item)
	}

	d.logger.Info("shutting down automation worker", "id", workerID)
}

// processJob runs one automation job and releases its key afterwards.
func (d *dispatcher) processJob(workerID int, item queuedJob) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"job", item.key.String(),
	)

	err := d.job.Run(context.Background(), item.key, item.jobCtx)

	d.mu.Lock()
	delete(d.inflight, item.key)
	d.mu.Unlock()

	if err != nil {
		d.logger.Error("automation job failed",
			"job", item.key.String(),
			"error", err,
		)
	}
}

// Dispatch queues an automation job for processing by a worker. On success the
// status record for the key has been reset to pending before Dispatch returns,
// so a caller's immediate read observes the accepted job. The enqueue happens
// under the lock: capacity was checked there, so the send cannot block.
func (d *dispatcher) Dispatch(_ context.Context, key core.JobKey, jobCtx core.JobContext) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, busy := d.inflight[key]; busy {
		return core.ErrJobAlreadyRunning
	}
	if len(d.jobQueue) == cap(d.jobQueue) {
		return core.ErrQueueFull
	}

	d.inflight[key] = struct{}{}
	d.statuses.Put(key, core.NewPendingRecord())
	d.jobQueue <- queuedJob{key: key, jobCtx: jobCtx}

	d.logger.Info("queued automation job", "job", key.String())
	return nil
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all automation jobs have finished")
}

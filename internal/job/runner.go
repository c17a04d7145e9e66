package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// JobRunnerConfig holds configuration for the job runner
type JobRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// MaxAttempts is the retry ceiling for transient failures.
	// Permanent failures dead-letter on the first attempt regardless.
	MaxAttempts int

	// RetryBaseDelay is the initial backoff delay between attempts,
	// doubled after each failed attempt.
	RetryBaseDelay time.Duration

	// MaxJobAge is the maximum time a job may spend enqueued before it is
	// considered stale and dead-lettered without execution.
	// If zero, jobs never go stale.
	MaxJobAge time.Duration

	// StuckJobAge defines how long a job can be in processing state
	// before it's considered stuck and reset
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs
	// If zero, defaults to 5 minutes
	StuckJobCheckInterval time.Duration
}

// DefaultJobRunnerConfig returns a JobRunnerConfig with reasonable defaults
func DefaultJobRunnerConfig() JobRunnerConfig {
	return JobRunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		MaxAttempts:           3,
		RetryBaseDelay:        500 * time.Millisecond,
		MaxJobAge:             time.Hour,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// JobRunner manages background job processing: it persists submitted jobs,
// feeds them to a worker pool, applies the retry/dead-letter policy, and
// recovers unfinished jobs after a restart.
type JobRunner struct {
	store          JobStore
	queue          *JobQueue
	resolver       Resolver
	ctx            context.Context
	cancelFunc     context.CancelFunc
	wg             sync.WaitGroup
	config         JobRunnerConfig
	logger         *slog.Logger
	failureHandler func(job Job, err error)
}

// NewJobRunner creates a new JobRunner
func NewJobRunner(store JobStore, config JobRunnerConfig, logger *slog.Logger) *JobRunner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &JobRunner{
		store:      store,
		queue:      NewJobQueue(config.QueueSize, logger),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		failureHandler: func(job Job, err error) {
			// Default failure handler just logs the error
			logger.Error("job dead-lettered",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
		},
	}
}

// SetFailureHandler allows setting a custom handler invoked whenever a job
// is dead-lettered. The application uses it to emit failure signals.
func (r *JobRunner) SetFailureHandler(handler func(job Job, err error)) {
	r.failureHandler = handler
}

// SetResolver sets the resolver used to rebuild executable jobs from
// persisted records during recovery.
func (r *JobRunner) SetResolver(resolver Resolver) {
	r.resolver = resolver
}

// Submit persists a job and adds it to the processing queue.
// Returns an error wrapping ErrQueueUnavailable if the job cannot be
// accepted; in that case nothing was enqueued and the caller should
// surface the failure synchronously.
func (r *JobRunner) Submit(ctx context.Context, job Job) error {
	// Persist first so the job survives a crash between accept and execute
	if err := r.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("%w: failed to persist job: %v", ErrQueueUnavailable, err)
	}

	if err := r.queue.Enqueue(job); err != nil {
		// The job stays pending in the store; recovery or the stuck-job
		// monitor will requeue it, but the caller still sees the refusal.
		return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	return nil
}

// Start initializes the worker pool and begins processing jobs
func (r *JobRunner) Start() error {
	// Recover unfinished jobs from previous runs
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	// Start worker goroutines
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	// Start goroutine to check for stuck jobs periodically
	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the job runner
func (r *JobRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	r.queue.Close()
}

// Recover loads any unfinished jobs from the database and requeues them.
// Jobs found in processing state were interrupted by a crash; they are
// reset to pending first. Records are rebuilt into executable jobs via the
// resolver; unresolvable records are dead-lettered.
func (r *JobRunner) Recover() error {
	ctx := context.Background()

	pendingJobs, err := r.store.GetPendingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processingJobs, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pendingJobs),
		"processing_count", len(processingJobs))

	for _, record := range pendingJobs {
		r.requeueRecovered(ctx, record)
	}

	for _, record := range processingJobs {
		if err := r.store.UpdateJobStatus(ctx, record.ID(), JobStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing job status",
				"job_id", record.ID(),
				"job_type", record.Type(),
				"error", err)
			continue
		}
		r.requeueRecovered(ctx, record)
	}

	return nil
}

// requeueRecovered resolves a persisted record into an executable job and
// puts it back on the queue.
func (r *JobRunner) requeueRecovered(ctx context.Context, record Job) {
	job := record
	if r.resolver != nil {
		resolved, err := r.resolver.ResolveJob(record)
		if err != nil {
			r.logger.Error("failed to resolve recovered job, dead-lettering",
				"job_id", record.ID(),
				"job_type", record.Type(),
				"error", err)
			if updateErr := r.store.UpdateJobStatus(ctx, record.ID(), JobStatusDeadLettered, err.Error()); updateErr != nil {
				r.logger.Error("failed to dead-letter unresolvable job",
					"job_id", record.ID(),
					"error", updateErr)
			}
			return
		}
		job = resolved
	}

	if err := r.queue.Enqueue(job); err != nil {
		r.logger.Error("failed to requeue recovered job",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"error", err)
	}
}

// worker processes jobs from the queue
func (r *JobRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-r.queue.GetChannel():
			if !ok {
				r.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}

			r.processJob(job, id)
		}
	}
}

// processJob handles execution of a single job, applying the staleness
// check and the retry/dead-letter policy.
func (r *JobRunner) processJob(job Job, workerID int) {
	ctx := context.Background()
	logger := r.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	// Stale jobs are dead-lettered without execution to keep the backlog bounded
	if r.config.MaxJobAge > 0 && time.Since(job.EnqueuedAt()) > r.config.MaxJobAge {
		logger.Warn("job exceeded maximum queue age, dead-lettering",
			"enqueued_at", job.EnqueuedAt())
		r.deadLetter(ctx, job, ErrJobStale, logger)
		return
	}

	if err := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusProcessing, ""); err != nil {
		// The row stays pending; the monitor's pending sweep requeues it
		logger.Error("failed to update job status to processing", "error", err)
		return
	}

	logger.Info("processing job")

	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = job.Execute(ctx)
		if lastErr == nil {
			logger.Info("job completed successfully", "attempt", attempt)
			if updateErr := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusCompleted, ""); updateErr != nil {
				logger.Error("failed to update job status to completed", "error", updateErr)
			}
			return
		}

		// Permanent failures are never retried: the condition that caused
		// them will not change between attempts.
		if IsPermanent(lastErr) {
			logger.Error("job failed permanently", "error", lastErr, "attempt", attempt)
			r.deadLetter(ctx, job, lastErr, logger)
			return
		}

		logger.Warn("job execution failed",
			"error", lastErr,
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts)

		if attempt < r.config.MaxAttempts {
			if !r.backoff(attempt) {
				// Shutting down; leave the job in processing state so the
				// stuck-job monitor or restart recovery picks it up.
				logger.Info("retry interrupted by shutdown")
				return
			}
		}
	}

	logger.Error("job exhausted retry budget, dead-lettering",
		"error", lastErr,
		"max_attempts", r.config.MaxAttempts)
	r.deadLetter(ctx, job, lastErr, logger)
}

// backoff sleeps for the bounded exponential backoff delay for the given
// attempt. Returns false if the runner was stopped while waiting.
func (r *JobRunner) backoff(attempt int) bool {
	delay := r.config.RetryBaseDelay << (attempt - 1)

	select {
	case <-r.ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

// deadLetter marks a job as dead-lettered and notifies the failure handler.
func (r *JobRunner) deadLetter(ctx context.Context, job Job, cause error, logger *slog.Logger) {
	if err := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusDeadLettered, cause.Error()); err != nil {
		logger.Error("failed to update job status to dead_lettered", "error", err)
	}

	if r.failureHandler != nil {
		r.failureHandler(job, cause)
	}
}

// stuckJobMonitor periodically re-examines unfinished jobs so the runner can
// make progress without a restart.
func (r *JobRunner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.requeueUnfinished(context.Background())
		}
	}
}

// requeueUnfinished performs one monitor sweep. Processing rows older than
// StuckJobAge were interrupted mid-execution; they are reset to pending and
// requeued. Pending rows of the same age never made it onto the channel,
// either because a full queue refused the enqueue or because the status
// update to processing failed; they are requeued directly. Delivery is
// at-least-once and execution is idempotent, so requeueing a row that turns
// out to be merely slow-moving is safe.
func (r *JobRunner) requeueUnfinished(ctx context.Context) {
	stuckJobs, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to check for stuck jobs", "error", err)
	} else if len(stuckJobs) > 0 {
		r.logger.Info("found stuck jobs", "count", len(stuckJobs))

		for _, record := range stuckJobs {
			if err := r.store.UpdateJobStatus(ctx, record.ID(), JobStatusPending,
				"Reset after being stuck in processing state"); err != nil {
				r.logger.Error("failed to reset stuck job status",
					"job_id", record.ID(),
					"job_type", record.Type(),
					"error", err)
				continue
			}

			r.requeueRecovered(ctx, record)
		}
	}

	strandedJobs, err := r.store.GetPendingJobs(ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to check for stranded pending jobs", "error", err)
		return
	}

	if len(strandedJobs) == 0 {
		return
	}

	r.logger.Info("found stranded pending jobs", "count", len(strandedJobs))

	for _, record := range strandedJobs {
		r.requeueRecovered(ctx, record)
	}
}

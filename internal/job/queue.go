package job

import (
	"fmt"
	"log/slog"
	"sync"
)

// JobQueue is the in-memory half of the job pipeline: a bounded channel
// feeding the runner's workers. Enqueue never blocks; a full queue is an
// error the caller surfaces instead of a stalled request.
type JobQueue struct {
	jobs   chan Job
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// NewJobQueue creates a new job queue with the specified buffer size
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	return &JobQueue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job to the queue for processing
// Returns an error if the queue is full or closed
func (q *JobQueue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	// Try to add the job to the channel without blocking
	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the job queue, preventing further job submission
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
}

// GetChannel returns a read-only channel for consuming jobs
func (q *JobQueue) GetChannel() <-chan Job {
	return q.jobs
}

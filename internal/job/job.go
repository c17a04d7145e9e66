package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a job
type JobStatus string

// Possible job status values. Completed and dead-lettered are terminal;
// a dead-lettered job is kept for diagnosis, never silently discarded.
const (
	JobStatusPending      JobStatus = "pending"
	JobStatusProcessing   JobStatus = "processing"
	JobStatusCompleted    JobStatus = "completed"
	JobStatusDeadLettered JobStatus = "dead_lettered"
)

// Job type constants
const (
	// JobTypeCreateContact represents the job type for asynchronous contact creation
	JobTypeCreateContact = "create_contact"
)

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Payload returns the job data as a byte slice
	Payload() []byte

	// Status returns the current job status
	Status() JobStatus

	// EnqueuedAt returns the time the job was first enqueued.
	// The runner uses it to dead-letter jobs that exceeded the maximum
	// time in queue without executing them.
	EnqueuedAt() time.Time

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// JobStore defines the interface for persisting jobs. Persistence is what
// makes the queue durable: an enqueued-but-undelivered job survives a crash
// of either the producer or the consumer process.
type JobStore interface {
	// SaveJob persists a job to the database
	SaveJob(ctx context.Context, job Job) error

	// UpdateJobStatus updates the status of a job
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error

	// GetPendingJobs retrieves jobs with "pending" status.
	// If olderThan is non-zero, only returns jobs that have been in this
	// state longer than the specified duration.
	GetPendingJobs(ctx context.Context, olderThan time.Duration) ([]Job, error)

	// GetProcessingJobs retrieves jobs with "processing" status.
	// If olderThan is non-zero, only returns jobs that have been in this
	// state longer than the specified duration.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Job, error)

	// WithTx returns a new JobStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) JobStore
}

// Resolver rebuilds an executable job from a persisted record. Jobs loaded
// from the store carry only their identity and payload; the resolver binds
// them back to their dependencies so recovery can re-run them.
type Resolver interface {
	// ResolveJob returns an executable job preserving the record's ID,
	// payload, and enqueue time. Returns an error for unknown job types
	// or malformed payloads.
	ResolveJob(record Job) (Job, error)
}

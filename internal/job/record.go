package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a job loaded back from the durable store. It carries the
// persisted identity and payload but no dependencies, so it cannot be
// executed directly; a Resolver rebuilds it into an executable job.
type Record struct {
	id         uuid.UUID
	jobType    string
	payload    []byte
	status     JobStatus
	enqueuedAt time.Time
}

// NewRecord creates a job record from persisted fields.
func NewRecord(id uuid.UUID, jobType string, payload []byte, status JobStatus, enqueuedAt time.Time) *Record {
	return &Record{
		id:         id,
		jobType:    jobType,
		payload:    payload,
		status:     status,
		enqueuedAt: enqueuedAt,
	}
}

// ID returns the job's unique identifier
func (r *Record) ID() uuid.UUID {
	return r.id
}

// Type returns the job type identifier
func (r *Record) Type() string {
	return r.jobType
}

// Payload returns the serialized job data
func (r *Record) Payload() []byte {
	return r.payload
}

// Status returns the persisted job status
func (r *Record) Status() JobStatus {
	return r.status
}

// EnqueuedAt returns the time the job was first enqueued
func (r *Record) EnqueuedAt() time.Time {
	return r.enqueuedAt
}

// Execute always fails: a bare record has no execution dependencies.
// The runner should never receive one that was not resolved first.
func (r *Record) Execute(ctx context.Context) error {
	return Permanent(fmt.Errorf("job record %s is not executable, resolve it first", r.id))
}

package job

import (
	"errors"
	"fmt"
)

// Common errors returned by the job pipeline.
var (
	// ErrQueueClosed is returned when enqueueing to a closed queue.
	ErrQueueClosed = errors.New("job queue is closed")

	// ErrQueueFull is returned when the in-memory queue buffer is exhausted.
	ErrQueueFull = errors.New("job queue is full")

	// ErrQueueUnavailable is returned by Submit when the job cannot be
	// accepted at all: the durable store rejected the write or the queue is
	// full/closed. The API layer surfaces this synchronously as a 5xx.
	ErrQueueUnavailable = errors.New("job queue unavailable")

	// ErrUnknownContactBook is a permanent execution failure: the job
	// references a contact book that does not exist. The book will not
	// spontaneously appear, so the job is never retried.
	ErrUnknownContactBook = errors.New("unknown contact book")

	// ErrInvalidPayload is a permanent execution failure: the job payload
	// fails validation (e.g., empty name). Never retried.
	ErrInvalidPayload = errors.New("invalid job payload")

	// ErrJobStale marks a job that exceeded the maximum time in queue and
	// was dead-lettered without execution.
	ErrJobStale = errors.New("job exceeded maximum time in queue")

	// ErrUnknownJobType is returned by resolvers for job types they
	// cannot rebuild.
	ErrUnknownJobType = errors.New("unknown job type")
)

// PermanentError wraps an execution failure that must not be retried.
// The runner dead-letters the job immediately when Execute returns one.
type PermanentError struct {
	Err error
}

// Error implements the error interface for PermanentError.
func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent: %v", e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks an error as permanent. Returns nil for a nil error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether the error is, or wraps, a PermanentError.
func IsPermanent(err error) bool {
	var perr *PermanentError
	return errors.As(err, &perr)
}

package job

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/teagan-pado/contacts-application/internal/events"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// CreateContactJobFactory builds contact-creation jobs bound to their
// runtime dependencies. It also acts as the Resolver that rebuilds
// executable jobs from persisted records during recovery.
type CreateContactJobFactory struct {
	contacts store.ContactStore
	books    store.ContactBookStore
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// NewCreateContactJobFactory creates a new factory for contact-creation jobs.
func NewCreateContactJobFactory(
	contacts store.ContactStore,
	books store.ContactBookStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *CreateContactJobFactory {
	return &CreateContactJobFactory{
		contacts: contacts,
		books:    books,
		emitter:  emitter,
		logger:   logger,
	}
}

// NewJob creates a new executable contact-creation job for the payload.
func (f *CreateContactJobFactory) NewJob(payload CreateContactPayload) (*CreateContactJob, error) {
	return NewCreateContactJob(payload, f.contacts, f.books, f.emitter, f.logger)
}

// ResolveJob rebuilds an executable job from a persisted record, preserving
// the record's identity, payload, and enqueue time so retry accounting and
// staleness checks carry across restarts.
func (f *CreateContactJobFactory) ResolveJob(record Job) (Job, error) {
	if record.Type() != JobTypeCreateContact {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, record.Type())
	}

	var payload CreateContactPayload
	if err := json.Unmarshal(record.Payload(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	job, err := NewCreateContactJob(payload, f.contacts, f.books, f.emitter, f.logger)
	if err != nil {
		return nil, err
	}

	job.id = record.ID()
	job.payload = record.Payload()
	job.status = record.Status()
	job.enqueuedAt = record.EnqueuedAt()

	return job, nil
}

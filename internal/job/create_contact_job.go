package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/domain"
	"github.com/teagan-pado/contacts-application/internal/events"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// CreateContactPayload carries the data needed to create a contact.
// It is serialized into the job record so the work survives a restart.
type CreateContactPayload struct {
	ContactBookID uuid.UUID `json:"contact_book_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	DedupKey      string    `json:"dedup_key"`
}

// ContactCreatedPayload is the payload of a contact.created event.
type ContactCreatedPayload struct {
	ContactID     uuid.UUID `json:"contact_id"`
	ContactBookID uuid.UUID `json:"contact_book_id"`
}

// CreateContactJob persists a single contact asynchronously. Validation
// happens here, at execution time, not at submission: the HTTP handler
// accepts the request with only structural checks, so a payload that fails
// validation surfaces as a permanent job failure rather than a 4xx.
type CreateContactJob struct {
	id         uuid.UUID
	payload    []byte
	data       CreateContactPayload
	status     JobStatus
	enqueuedAt time.Time
	contacts   store.ContactStore
	books      store.ContactBookStore
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewCreateContactJob creates a new contact-creation job for the given payload.
func NewCreateContactJob(
	payload CreateContactPayload,
	contacts store.ContactStore,
	books store.ContactBookStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*CreateContactJob, error) {
	if payload.ContactBookID == uuid.Nil {
		return nil, fmt.Errorf("%w: contact book ID is required", ErrInvalidPayload)
	}
	if payload.DedupKey == "" {
		return nil, fmt.Errorf("%w: dedup key is required", ErrInvalidPayload)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	return &CreateContactJob{
		id:         uuid.New(),
		payload:    payloadBytes,
		data:       payload,
		status:     JobStatusPending,
		enqueuedAt: time.Now().UTC(),
		contacts:   contacts,
		books:      books,
		emitter:    emitter,
		logger:     logger,
	}, nil
}

// ID returns the job's unique identifier
func (j *CreateContactJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *CreateContactJob) Type() string {
	return JobTypeCreateContact
}

// Payload returns the serialized job data
func (j *CreateContactJob) Payload() []byte {
	return j.payload
}

// Status returns the current job status
func (j *CreateContactJob) Status() JobStatus {
	return j.status
}

// EnqueuedAt returns the time the job was first enqueued
func (j *CreateContactJob) EnqueuedAt() time.Time {
	return j.enqueuedAt
}

// Execute validates the payload and persists the contact. Failures that
// cannot be cured by retrying (unknown book, invalid payload) are returned
// as permanent errors; everything else is treated as transient.
//
// Execution is idempotent under at-least-once delivery: a duplicate insert
// on the dedup key is treated as success, since the contact already exists.
func (j *CreateContactJob) Execute(ctx context.Context) error {
	logger := j.logger.With(
		"job_id", j.id,
		"contact_book_id", j.data.ContactBookID,
	)

	exists, err := j.books.Exists(ctx, j.data.ContactBookID)
	if err != nil {
		return fmt.Errorf("failed to check contact book: %w", err)
	}
	if !exists {
		return Permanent(fmt.Errorf("%w: %s", ErrUnknownContactBook, j.data.ContactBookID))
	}

	if strings.TrimSpace(j.data.Name) == "" {
		return Permanent(fmt.Errorf("%w: contact name cannot be empty", ErrInvalidPayload))
	}

	contact, err := domain.NewContact(
		j.data.ContactBookID,
		j.data.Name,
		j.data.Email,
		j.data.Phone,
		j.data.DedupKey,
	)
	if err != nil {
		return Permanent(fmt.Errorf("%w: %v", ErrInvalidPayload, err))
	}

	if err := j.contacts.Create(ctx, contact); err != nil {
		switch {
		case errors.Is(err, store.ErrContactExists):
			// Duplicate delivery of the same creation request. The contact
			// was already persisted by an earlier delivery; report success
			// for the row that exists.
			logger.Info("contact already exists for dedup key, skipping insert")
			existing, getErr := j.contacts.GetByDedupKey(ctx, j.data.ContactBookID, j.data.DedupKey)
			if getErr != nil {
				logger.Warn("failed to load existing contact after duplicate insert",
					"error", getErr)
				return nil
			}
			j.emitCreated(ctx, existing, logger)
			return nil

		case errors.Is(err, store.ErrInvalidEntity):
			// The contact book disappeared between the existence check and
			// the insert.
			return Permanent(fmt.Errorf("%w: %v", ErrUnknownContactBook, err))

		default:
			return fmt.Errorf("failed to create contact: %w", err)
		}
	}

	logger.Info("contact created", "contact_id", contact.ID)
	j.emitCreated(ctx, contact, logger)

	return nil
}

// emitCreated publishes a contact.created event. Emission failures are
// logged but do not fail the job: the contact is already persisted.
func (j *CreateContactJob) emitCreated(ctx context.Context, contact *domain.Contact, logger *slog.Logger) {
	event, err := events.NewEvent(events.TypeContactCreated, ContactCreatedPayload{
		ContactID:     contact.ID,
		ContactBookID: contact.ContactBookID,
	})
	if err != nil {
		logger.Warn("failed to build contact.created event", "error", err)
		return
	}

	if err := j.emitter.EmitEvent(ctx, event); err != nil {
		logger.Warn("failed to emit contact.created event", "error", err)
	}
}

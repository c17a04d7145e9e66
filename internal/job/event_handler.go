package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teagan-pado/contacts-application/internal/events"
)

// JobSubmitter accepts jobs for background processing.
type JobSubmitter interface {
	// Submit persists a job and adds it to the processing queue.
	Submit(ctx context.Context, job Job) error
}

// ContactCreateEventHandler turns contact.create_requested events into
// queued contact-creation jobs. Registering it on the emitter is what
// connects the HTTP surface to the job pipeline.
type ContactCreateEventHandler struct {
	factory   *CreateContactJobFactory
	submitter JobSubmitter
	logger    *slog.Logger
}

// NewContactCreateEventHandler creates a handler that submits a
// contact-creation job for each creation request event.
func NewContactCreateEventHandler(
	factory *CreateContactJobFactory,
	submitter JobSubmitter,
	logger *slog.Logger,
) *ContactCreateEventHandler {
	return &ContactCreateEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger,
	}
}

// HandleEvent processes contact.create_requested events. Events of other
// types are ignored so the handler can share an emitter with others.
func (h *ContactCreateEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeContactCreateRequested {
		return nil
	}

	var payload CreateContactPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	job, err := h.factory.NewJob(payload)
	if err != nil {
		return fmt.Errorf("failed to build contact-creation job: %w", err)
	}

	if err := h.submitter.Submit(ctx, job); err != nil {
		return fmt.Errorf("failed to submit contact-creation job: %w", err)
	}

	h.logger.Debug("contact-creation job submitted",
		"job_id", job.ID(),
		"event_id", event.ID,
		"contact_book_id", payload.ContactBookID)

	return nil
}

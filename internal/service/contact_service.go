package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/domain"
	"github.com/teagan-pado/contacts-application/internal/events"
	"github.com/teagan-pado/contacts-application/internal/job"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// ContactRepository defines the repository interface for the service layer.
// This is aligned with store.ContactStore to ensure proper separation of concerns.
type ContactRepository interface {
	// GetByID retrieves a contact by its contact book and unique ID
	GetByID(ctx context.Context, contactBookID, id uuid.UUID) (*domain.Contact, error)

	// Update saves changes to an existing contact
	Update(ctx context.Context, contact *domain.Contact) error

	// Delete removes a contact from the store
	Delete(ctx context.Context, contactBookID, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ContactRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ContactService provides contact-related operations scoped to a contact
// book and guarded by book membership.
type ContactService interface {
	// RequestContactCreation accepts a contact for asynchronous creation.
	// It performs no field validation beyond membership: validation happens
	// when the creation job executes. A non-empty idempotencyKey lets the
	// caller safely retry the request; otherwise a key is derived from the
	// submitted fields.
	RequestContactCreation(
		ctx context.Context,
		userID, contactBookID uuid.UUID,
		name, email, phone, idempotencyKey string,
	) error

	// GetContact retrieves a contact from a book the user belongs to
	GetContact(ctx context.Context, userID, contactBookID, contactID uuid.UUID) (*domain.Contact, error)

	// UpdateContact updates a contact's name, email, and phone
	UpdateContact(
		ctx context.Context,
		userID, contactBookID, contactID uuid.UUID,
		name, email, phone string,
	) (*domain.Contact, error)

	// DeleteContact removes a contact from a book the user belongs to
	DeleteContact(ctx context.Context, userID, contactBookID, contactID uuid.UUID) error
}

// ContactServiceError wraps errors from the contact service with context.
type ContactServiceError struct {
	// Operation is the operation that failed (e.g., "request_creation", "update_contact")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ContactServiceError.
func (e *ContactServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contact service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("contact service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ContactServiceError) Unwrap() error {
	return e.Err
}

// NewContactServiceError creates a new ContactServiceError.
// It returns known sentinel errors directly without wrapping so the API layer
// can match on them.
func NewContactServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrContactNotFound),
		errors.Is(err, ErrContactBookNotFound),
		errors.Is(err, ErrNotBookMember),
		errors.Is(err, ErrInvalidContactData):
		return err
	case errors.Is(err, store.ErrContactNotFound):
		return ErrContactNotFound
	case errors.Is(err, store.ErrContactBookNotFound):
		return ErrContactBookNotFound
	case errors.Is(err, job.ErrQueueUnavailable):
		// Preserve the sentinel so the API layer can answer 503
		return fmt.Errorf("%w: %s", job.ErrQueueUnavailable, message)
	}

	return &ContactServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// contactServiceImpl implements the ContactService interface
type contactServiceImpl struct {
	contactRepo  ContactRepository
	books        store.ContactBookStore
	memberships  store.MembershipStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewContactService creates a new ContactService.
// It returns an error if any of the required dependencies are nil.
func NewContactService(
	contactRepo ContactRepository,
	books store.ContactBookStore,
	memberships store.MembershipStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (ContactService, error) {
	if contactRepo == nil {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "contactRepo cannot be nil",
		}
	}
	if books == nil {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "books cannot be nil",
		}
	}
	if memberships == nil {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "memberships cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &ContactServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &contactServiceImpl{
		contactRepo:  contactRepo,
		books:        books,
		memberships:  memberships,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "contact_service"),
	}, nil
}

// authorize verifies that the contact book exists and the user belongs to it.
// Every contact operation goes through this gate before touching any contact.
func (s *contactServiceImpl) authorize(ctx context.Context, operation string, userID, contactBookID uuid.UUID) error {
	exists, err := s.books.Exists(ctx, contactBookID)
	if err != nil {
		s.logger.Error("failed to check contact book existence",
			"error", err,
			"contact_book_id", contactBookID)
		return NewContactServiceError(operation, "failed to check contact book", err)
	}
	if !exists {
		return ErrContactBookNotFound
	}

	isMember, err := s.memberships.IsMember(ctx, userID, contactBookID)
	if err != nil {
		s.logger.Error("failed to check contact book membership",
			"error", err,
			"user_id", userID,
			"contact_book_id", contactBookID)
		return NewContactServiceError(operation, "failed to check membership", err)
	}
	if !isMember {
		s.logger.Warn("rejected contact operation by non-member",
			"operation", operation,
			"user_id", userID,
			"contact_book_id", contactBookID)
		return ErrNotBookMember
	}

	return nil
}

// RequestContactCreation accepts a contact creation request and hands it to
// the job pipeline via a contact.create_requested event. Nothing is written
// to the contacts table here; the background job does the validation and the
// insert. The caller only learns whether the request was accepted.
func (s *contactServiceImpl) RequestContactCreation(
	ctx context.Context,
	userID, contactBookID uuid.UUID,
	name, email, phone, idempotencyKey string,
) error {
	if err := s.authorize(ctx, "request_creation", userID, contactBookID); err != nil {
		return err
	}

	dedupKey := idempotencyKey
	if dedupKey == "" {
		dedupKey = domain.ContentDedupKey(contactBookID, name, email, phone)
	}

	payload := job.CreateContactPayload{
		ContactBookID: contactBookID,
		Name:          name,
		Email:         email,
		Phone:         phone,
		DedupKey:      dedupKey,
	}

	event, err := events.NewEvent(events.TypeContactCreateRequested, payload)
	if err != nil {
		s.logger.Error("failed to create contact creation event",
			"error", err,
			"contact_book_id", contactBookID)
		return NewContactServiceError("request_creation", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit contact creation event",
			"error", err,
			"contact_book_id", contactBookID,
			"event_id", event.ID)
		return NewContactServiceError("request_creation", "failed to enqueue creation job", err)
	}

	s.logger.Info("contact creation requested",
		"contact_book_id", contactBookID,
		"user_id", userID,
		"event_id", event.ID)

	return nil
}

// GetContact retrieves a contact by ID within a book the user belongs to
func (s *contactServiceImpl) GetContact(
	ctx context.Context,
	userID, contactBookID, contactID uuid.UUID,
) (*domain.Contact, error) {
	if err := s.authorize(ctx, "get_contact", userID, contactBookID); err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.GetByID(ctx, contactBookID, contactID)
	if err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		s.logger.Error("failed to retrieve contact",
			"error", err,
			"contact_id", contactID,
			"contact_book_id", contactBookID)
		return nil, NewContactServiceError("get_contact", "failed to retrieve contact", err)
	}

	return contact, nil
}

// UpdateContact updates a contact's fields within a transaction
func (s *contactServiceImpl) UpdateContact(
	ctx context.Context,
	userID, contactBookID, contactID uuid.UUID,
	name, email, phone string,
) (*domain.Contact, error) {
	if err := s.authorize(ctx, "update_contact", userID, contactBookID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidContactData)
	}

	var updated *domain.Contact

	err := store.RunInTransaction(ctx, s.contactRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.contactRepo.WithTx(tx)

		contact, err := txRepo.GetByID(ctx, contactBookID, contactID)
		if err != nil {
			if errors.Is(err, store.ErrContactNotFound) {
				return ErrContactNotFound
			}
			return NewContactServiceError("update_contact", "failed to retrieve contact", err)
		}

		contact.Name = name
		contact.Email = email
		contact.Phone = phone

		if err := txRepo.Update(ctx, contact); err != nil {
			if errors.Is(err, store.ErrContactNotFound) {
				return ErrContactNotFound
			}
			return NewContactServiceError("update_contact", "failed to save contact", err)
		}

		updated = contact
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("contact updated",
		"contact_id", contactID,
		"contact_book_id", contactBookID,
		"user_id", userID)

	return updated, nil
}

// DeleteContact removes a contact within a book the user belongs to
func (s *contactServiceImpl) DeleteContact(
	ctx context.Context,
	userID, contactBookID, contactID uuid.UUID,
) error {
	if err := s.authorize(ctx, "delete_contact", userID, contactBookID); err != nil {
		return err
	}

	if err := s.contactRepo.Delete(ctx, contactBookID, contactID); err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return ErrContactNotFound
		}
		s.logger.Error("failed to delete contact",
			"error", err,
			"contact_id", contactID,
			"contact_book_id", contactBookID)
		return NewContactServiceError("delete_contact", "failed to delete contact", err)
	}

	s.logger.Info("contact deleted",
		"contact_id", contactID,
		"contact_book_id", contactBookID,
		"user_id", userID)

	return nil
}

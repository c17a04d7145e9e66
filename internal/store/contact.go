package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/domain"
)

// ContactStore defines the interface for contact data persistence.
//
// Create is the only write path used by the asynchronous creation pipeline
// and must be idempotent under at-least-once job delivery: inserting a
// contact whose (contact_book_id, dedup_key) pair already exists returns
// ErrContactExists instead of creating a second row. Update and Delete serve
// the synchronous CRUD surface only.
type ContactStore interface {
	// Create saves a new contact to the store.
	// Returns ErrContactExists if a contact with the same dedup key already
	// exists in the same contact book (duplicate job delivery).
	// Returns ErrInvalidEntity if the referenced contact book does not exist.
	Create(ctx context.Context, contact *domain.Contact) error

	// GetByID retrieves a contact by its contact book and unique ID.
	// Returns ErrContactNotFound if the contact does not exist in that book.
	GetByID(ctx context.Context, contactBookID, id uuid.UUID) (*domain.Contact, error)

	// GetByDedupKey retrieves a contact by its idempotency token within a book.
	// Returns ErrContactNotFound if no contact carries the key.
	GetByDedupKey(ctx context.Context, contactBookID uuid.UUID, dedupKey string) (*domain.Contact, error)

	// Update saves changes to an existing contact's name, email, and phone.
	// Returns ErrContactNotFound if the contact does not exist.
	Update(ctx context.Context, contact *domain.Contact) error

	// Delete removes a contact from the store.
	// Returns ErrContactNotFound if the contact does not exist.
	Delete(ctx context.Context, contactBookID, id uuid.UUID) error

	// WithTx returns a new ContactStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) ContactStore
}

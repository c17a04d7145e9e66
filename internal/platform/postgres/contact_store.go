package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/domain"
	"github.com/teagan-pado/contacts-application/internal/platform/logger"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// PostgresContactStore implements the store.ContactStore interface using PostgreSQL
type PostgresContactStore struct {
	db store.DBTX
}

// Compile-time check that PostgresContactStore satisfies store.ContactStore.
var _ store.ContactStore = (*PostgresContactStore)(nil)

// NewPostgresContactStore creates a new PostgresContactStore
func NewPostgresContactStore(db store.DBTX) *PostgresContactStore {
	return &PostgresContactStore{
		db: db,
	}
}

// Create saves a new contact to the database.
//
// The UNIQUE (contact_book_id, dedup_key) constraint is what makes the
// asynchronous creation pipeline idempotent: a duplicate delivery of the same
// creation job hits the constraint and surfaces as store.ErrContactExists
// instead of inserting a second row.
func (s *PostgresContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	log := logger.FromContext(ctx)

	if err := contact.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO contacts (id, contact_book_id, name, email, phone, dedup_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		contact.ID,
		contact.ContactBookID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.DedupKey,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate contact insert suppressed by dedup key",
				"contact_book_id", contact.ContactBookID)
			return fmt.Errorf("%w: %v", store.ErrContactExists, err)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: contact book does not exist: %v", store.ErrInvalidEntity, err)
		}

		log.Error("failed to create contact",
			"contact_id", contact.ID,
			"contact_book_id", contact.ContactBookID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a contact by its contact book and unique ID
func (s *PostgresContactStore) GetByID(ctx context.Context, contactBookID, id uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT id, contact_book_id, name, email, phone, dedup_key, created_at, updated_at
		FROM contacts
		WHERE contact_book_id = $1 AND id = $2
	`

	return s.scanContact(ctx, s.db.QueryRowContext(ctx, query, contactBookID, id))
}

// GetByDedupKey retrieves a contact by its idempotency token within a book
func (s *PostgresContactStore) GetByDedupKey(ctx context.Context, contactBookID uuid.UUID, dedupKey string) (*domain.Contact, error) {
	query := `
		SELECT id, contact_book_id, name, email, phone, dedup_key, created_at, updated_at
		FROM contacts
		WHERE contact_book_id = $1 AND dedup_key = $2
	`

	return s.scanContact(ctx, s.db.QueryRowContext(ctx, query, contactBookID, dedupKey))
}

// Update saves changes to an existing contact's name, email, and phone
func (s *PostgresContactStore) Update(ctx context.Context, contact *domain.Contact) error {
	log := logger.FromContext(ctx)

	if err := contact.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, updated_at = $4
		WHERE contact_book_id = $5 AND id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		contact.Name,
		contact.Email,
		contact.Phone,
		time.Now().UTC(),
		contact.ContactBookID,
		contact.ID,
	)

	if err != nil {
		log.Error("failed to update contact",
			"contact_id", contact.ID,
			"contact_book_id", contact.ContactBookID,
			"error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "contact"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrContactNotFound, err)
	}

	return nil
}

// Delete removes a contact from the database
func (s *PostgresContactStore) Delete(ctx context.Context, contactBookID, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	query := `
		DELETE FROM contacts
		WHERE contact_book_id = $1 AND id = $2
	`

	result, err := s.db.ExecContext(ctx, query, contactBookID, id)
	if err != nil {
		log.Error("failed to delete contact",
			"contact_id", id,
			"contact_book_id", contactBookID,
			"error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "contact"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrContactNotFound, err)
	}

	return nil
}

// WithTx returns a new ContactStore instance that uses the provided transaction
func (s *PostgresContactStore) WithTx(tx *sql.Tx) store.ContactStore {
	return &PostgresContactStore{
		db: tx,
	}
}

// scanContact reads a single contact row, translating sql.ErrNoRows into
// store.ErrContactNotFound.
func (s *PostgresContactStore) scanContact(ctx context.Context, row *sql.Row) (*domain.Contact, error) {
	log := logger.FromContext(ctx)

	var contact domain.Contact
	err := row.Scan(
		&contact.ID,
		&contact.ContactBookID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.DedupKey,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContactNotFound
		}

		log.Error("failed to scan contact row", "error", err)
		return nil, MapError(err)
	}

	return &contact, nil
}

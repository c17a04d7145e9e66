package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/platform/logger"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// PostgresContactBookStore implements the store.ContactBookStore interface
// using PostgreSQL. It is read-only: books are provisioned externally.
type PostgresContactBookStore struct {
	db store.DBTX
}

var _ store.ContactBookStore = (*PostgresContactBookStore)(nil)

// NewPostgresContactBookStore creates a new PostgresContactBookStore
func NewPostgresContactBookStore(db store.DBTX) *PostgresContactBookStore {
	return &PostgresContactBookStore{
		db: db,
	}
}

// Exists reports whether a contact book with the given ID exists
func (s *PostgresContactBookStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContext(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM contact_books WHERE id = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		log.Error("failed to check contact book existence",
			"contact_book_id", id,
			"error", err)
		return false, fmt.Errorf("failed to check contact book existence: %w", err)
	}

	return exists, nil
}

// PostgresMembershipStore implements the store.MembershipStore interface
// using PostgreSQL. Memberships are managed externally and never mutated here.
type PostgresMembershipStore struct {
	db store.DBTX
}

var _ store.MembershipStore = (*PostgresMembershipStore)(nil)

// NewPostgresMembershipStore creates a new PostgresMembershipStore
func NewPostgresMembershipStore(db store.DBTX) *PostgresMembershipStore {
	return &PostgresMembershipStore{
		db: db,
	}
}

// IsMember reports whether the user belongs to the contact book
func (s *PostgresMembershipStore) IsMember(ctx context.Context, userID, contactBookID uuid.UUID) (bool, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM contact_book_members
			WHERE user_id = $1 AND contact_book_id = $2
		)
	`

	var isMember bool
	if err := s.db.QueryRowContext(ctx, query, userID, contactBookID).Scan(&isMember); err != nil {
		log.Error("failed to check contact book membership",
			"user_id", userID,
			"contact_book_id", contactBookID,
			"error", err)
		return false, fmt.Errorf("failed to check contact book membership: %w", err)
	}

	return isMember, nil
}

package store

import (
	"context"

	"github.com/google/uuid"
)

// ContactBookStore provides read access to contact books. Books are created
// and destroyed by an external collaborator; this service only needs to know
// whether a book exists when a creation job executes.
type ContactBookStore interface {
	// Exists reports whether a contact book with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MembershipStore provides read access to the contact book membership list.
// Memberships are managed externally; the API layer consults them to decide
// whether a caller may act on a book, and never mutates them.
type MembershipStore interface {
	// IsMember reports whether the user belongs to the contact book.
	IsMember(ctx context.Context, userID, contactBookID uuid.UUID) (bool, error)
}

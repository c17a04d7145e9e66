package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ContactBook and Membership
var (
	ErrEmptyBookID       = errors.New("contact book ID cannot be empty")
	ErrEmptyBookName     = errors.New("contact book name cannot be empty")
	ErrEmptyMemberUserID = errors.New("membership user ID cannot be empty")
)

// ContactBook is a tenant-scoped collection of contacts with an
// access-control membership list. Books and their memberships are created
// and destroyed by external collaborators; this service only reads them.
type ContactBook struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the ContactBook has valid data.
func (b *ContactBook) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if b.Name == "" {
		return ErrEmptyBookName
	}

	return nil
}

// Membership grants a user the right to act on a contact book.
type Membership struct {
	UserID        uuid.UUID `json:"user_id"`
	ContactBookID uuid.UUID `json:"contact_book_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks if the Membership has valid data.
func (m *Membership) Validate() error {
	if m.UserID == uuid.Nil {
		return ErrEmptyMemberUserID
	}

	if m.ContactBookID == uuid.Nil {
		return ErrEmptyBookID
	}

	return nil
}

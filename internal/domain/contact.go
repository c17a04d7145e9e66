package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Contact
var (
	ErrEmptyContactID     = errors.New("contact ID cannot be empty")
	ErrEmptyContactBookID = errors.New("contact book ID cannot be empty")
	ErrEmptyContactName   = errors.New("contact name cannot be empty")
	ErrEmptyDedupKey      = errors.New("contact dedup key cannot be empty")
)

// Contact represents a single entry in a contact book. The DedupKey is the
// idempotency token used to suppress duplicate rows when the creation job
// that produced the contact is delivered more than once.
type Contact struct {
	ID            uuid.UUID `json:"id"`
	ContactBookID uuid.UUID `json:"contact_book_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	DedupKey      string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewContact creates a new Contact owned by the given contact book.
// It generates a new UUID for the contact ID and sets the timestamps.
// Returns an error if validation fails.
func NewContact(contactBookID uuid.UUID, name, email, phone, dedupKey string) (*Contact, error) {
	contact := &Contact{
		ID:            uuid.New(),
		ContactBookID: contactBookID,
		Name:          name,
		Email:         email,
		Phone:         phone,
		DedupKey:      dedupKey,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}

	return contact, nil
}

// Validate checks if the Contact has valid data.
// Email and phone are stored as given; only presence of identity fields and
// a non-blank name is enforced here.
func (c *Contact) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContactID
	}

	if c.ContactBookID == uuid.Nil {
		return ErrEmptyContactBookID
	}

	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyContactName
	}

	if c.DedupKey == "" {
		return ErrEmptyDedupKey
	}

	return nil
}

// ContentDedupKey derives a deterministic dedup key from the contact fields.
// It is used when the client did not supply an idempotency token, so two
// identical creation requests collapse to the same key.
func ContentDedupKey(contactBookID uuid.UUID, name, email, phone string) string {
	h := sha256.New()
	h.Write([]byte(contactBookID.String()))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(email))
	h.Write([]byte{0})
	h.Write([]byte(phone))
	return hex.EncodeToString(h.Sum(nil))
}

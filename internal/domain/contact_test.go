package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	bookID := uuid.New()

	t.Run("valid contact", func(t *testing.T) {
		contact, err := NewContact(bookID, "John Doe", "johndoe@example.com", "1234567890", "key-1")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, contact.ID)
		assert.Equal(t, bookID, contact.ContactBookID)
		assert.Equal(t, "John Doe", contact.Name)
		assert.Equal(t, "johndoe@example.com", contact.Email)
		assert.Equal(t, "1234567890", contact.Phone)
		assert.Equal(t, "key-1", contact.DedupKey)
		assert.False(t, contact.CreatedAt.IsZero())
	})

	t.Run("empty book ID", func(t *testing.T) {
		_, err := NewContact(uuid.Nil, "John Doe", "johndoe@example.com", "1234567890", "key-1")
		assert.ErrorIs(t, err, ErrEmptyContactBookID)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewContact(bookID, "", "johndoe@example.com", "1234567890", "key-1")
		assert.ErrorIs(t, err, ErrEmptyContactName)
	})

	t.Run("whitespace-only name", func(t *testing.T) {
		_, err := NewContact(bookID, "   \t", "johndoe@example.com", "1234567890", "key-1")
		assert.ErrorIs(t, err, ErrEmptyContactName)
	})

	t.Run("empty dedup key", func(t *testing.T) {
		_, err := NewContact(bookID, "John Doe", "johndoe@example.com", "1234567890", "")
		assert.ErrorIs(t, err, ErrEmptyDedupKey)
	})

	t.Run("email and phone stored as given", func(t *testing.T) {
		// Format validation is deferred; odd values are accepted here.
		contact, err := NewContact(bookID, "Jane", "not-an-email", "ext. 42", "key-2")
		require.NoError(t, err)
		assert.Equal(t, "not-an-email", contact.Email)
		assert.Equal(t, "ext. 42", contact.Phone)
	})
}

func TestContentDedupKey(t *testing.T) {
	bookID := uuid.New()

	t.Run("deterministic for identical input", func(t *testing.T) {
		a := ContentDedupKey(bookID, "John Doe", "johndoe@example.com", "1234567890")
		b := ContentDedupKey(bookID, "John Doe", "johndoe@example.com", "1234567890")
		assert.Equal(t, a, b)
	})

	t.Run("differs across books", func(t *testing.T) {
		a := ContentDedupKey(bookID, "John Doe", "johndoe@example.com", "1234567890")
		b := ContentDedupKey(uuid.New(), "John Doe", "johndoe@example.com", "1234567890")
		assert.NotEqual(t, a, b)
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		// "ab"+"c" must not collide with "a"+"bc"
		a := ContentDedupKey(bookID, "ab", "c", "")
		b := ContentDedupKey(bookID, "a", "bc", "")
		assert.NotEqual(t, a, b)
	})
}

func TestContactBookValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		book := &ContactBook{ID: uuid.New(), Name: "Personal"}
		assert.NoError(t, book.Validate())
	})

	t.Run("empty ID", func(t *testing.T) {
		book := &ContactBook{Name: "Personal"}
		assert.ErrorIs(t, book.Validate(), ErrEmptyBookID)
	})

	t.Run("empty name", func(t *testing.T) {
		book := &ContactBook{ID: uuid.New()}
		assert.ErrorIs(t, book.Validate(), ErrEmptyBookName)
	})
}

func TestMembershipValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m := &Membership{UserID: uuid.New(), ContactBookID: uuid.New()}
		assert.NoError(t, m.Validate())
	})

	t.Run("empty user", func(t *testing.T) {
		m := &Membership{ContactBookID: uuid.New()}
		assert.ErrorIs(t, m.Validate(), ErrEmptyMemberUserID)
	})

	t.Run("empty book", func(t *testing.T) {
		m := &Membership{UserID: uuid.New()}
		assert.ErrorIs(t, m.Validate(), ErrEmptyBookID)
	})
}

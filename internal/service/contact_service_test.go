package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teagan-pado/contacts-application/internal/domain"
	"github.com/teagan-pado/contacts-application/internal/events"
	"github.com/teagan-pado/contacts-application/internal/job"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// fakeContactRepo is an in-memory ContactRepository for service tests.
type fakeContactRepo struct {
	db       *sql.DB
	contacts map[uuid.UUID]*domain.Contact

	getErr    error
	updateErr error
	deleteErr error
}

func newFakeContactRepo(db *sql.DB) *fakeContactRepo {
	return &fakeContactRepo{
		db:       db,
		contacts: make(map[uuid.UUID]*domain.Contact),
	}
}

func (r *fakeContactRepo) GetByID(ctx context.Context, contactBookID, id uuid.UUID) (*domain.Contact, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	c, ok := r.contacts[id]
	if !ok || c.ContactBookID != contactBookID {
		return nil, store.ErrContactNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeContactRepo) Update(ctx context.Context, contact *domain.Contact) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.contacts[contact.ID]; !ok {
		return store.ErrContactNotFound
	}
	copied := *contact
	r.contacts[contact.ID] = &copied
	return nil
}

func (r *fakeContactRepo) Delete(ctx context.Context, contactBookID, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	c, ok := r.contacts[id]
	if !ok || c.ContactBookID != contactBookID {
		return store.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *fakeContactRepo) WithTx(tx *sql.Tx) ContactRepository {
	return r
}

func (r *fakeContactRepo) DB() *sql.DB {
	return r.db
}

// fakeBooks reports a fixed set of existing contact books.
type fakeBooks struct {
	books map[uuid.UUID]bool
}

func (s *fakeBooks) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.books[id], nil
}

// fakeMemberships reports membership for fixed (user, book) pairs.
type fakeMemberships struct {
	members map[uuid.UUID]uuid.UUID
}

func (s *fakeMemberships) IsMember(ctx context.Context, userID, contactBookID uuid.UUID) (bool, error) {
	return s.members[userID] == contactBookID, nil
}

// capturedEmitter records emitted events and optionally fails.
type capturedEmitter struct {
	events  []*events.Event
	emitErr error
}

func (e *capturedEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	if e.emitErr != nil {
		return e.emitErr
	}
	e.events = append(e.events, event)
	return nil
}

type serviceFixture struct {
	svc     ContactService
	repo    *fakeContactRepo
	emitter *capturedEmitter
	mock    sqlmock.Sqlmock
	userID  uuid.UUID
	bookID  uuid.UUID
	otherID uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userID := uuid.New()
	bookID := uuid.New()
	otherBookID := uuid.New()

	repo := newFakeContactRepo(db)
	books := &fakeBooks{books: map[uuid.UUID]bool{bookID: true, otherBookID: true}}
	memberships := &fakeMemberships{members: map[uuid.UUID]uuid.UUID{userID: bookID}}
	emitter := &capturedEmitter{}

	svc, err := NewContactService(repo, books, memberships, emitter, slog.Default())
	require.NoError(t, err)

	return &serviceFixture{
		svc:     svc,
		repo:    repo,
		emitter: emitter,
		mock:    mock,
		userID:  userID,
		bookID:  bookID,
		otherID: otherBookID,
	}
}

func (f *serviceFixture) seedContact(t *testing.T) *domain.Contact {
	t.Helper()

	contact, err := domain.NewContact(f.bookID, "Grace Hopper", "grace@example.com", "+1-555-0101",
		domain.ContentDedupKey(f.bookID, "Grace Hopper", "grace@example.com", "+1-555-0101"))
	require.NoError(t, err)

	f.repo.contacts[contact.ID] = contact
	return contact
}

func TestNewContactServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewContactService(nil, &fakeBooks{}, &fakeMemberships{}, &capturedEmitter{}, slog.Default())
	assert.Error(t, err)

	_, err = NewContactService(newFakeContactRepo(nil), nil, &fakeMemberships{}, &capturedEmitter{}, slog.Default())
	assert.Error(t, err)

	_, err = NewContactService(newFakeContactRepo(nil), &fakeBooks{}, nil, &capturedEmitter{}, slog.Default())
	assert.Error(t, err)

	_, err = NewContactService(newFakeContactRepo(nil), &fakeBooks{}, &fakeMemberships{}, nil, slog.Default())
	assert.Error(t, err)
}

func TestRequestContactCreationEmitsEvent(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.svc.RequestContactCreation(context.Background(), f.userID, f.bookID,
		"Ada Lovelace", "ada@example.com", "+1-555-0100", "")
	require.NoError(t, err)

	require.Len(t, f.emitter.events, 1)
	event := f.emitter.events[0]
	assert.Equal(t, events.TypeContactCreateRequested, event.Type)

	var payload job.CreateContactPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, f.bookID, payload.ContactBookID)
	assert.Equal(t, "Ada Lovelace", payload.Name)
	assert.Equal(t,
		domain.ContentDedupKey(f.bookID, "Ada Lovelace", "ada@example.com", "+1-555-0100"),
		payload.DedupKey)

	// The synchronous path must not write any contact
	assert.Empty(t, f.repo.contacts)
}

func TestRequestContactCreationUsesIdempotencyKey(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.svc.RequestContactCreation(context.Background(), f.userID, f.bookID,
		"Ada Lovelace", "ada@example.com", "+1-555-0100", "client-key-42")
	require.NoError(t, err)

	require.Len(t, f.emitter.events, 1)

	var payload job.CreateContactPayload
	require.NoError(t, f.emitter.events[0].UnmarshalPayload(&payload))
	assert.Equal(t, "client-key-42", payload.DedupKey)
}

func TestRequestContactCreationRejectsNonMember(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.svc.RequestContactCreation(context.Background(), f.userID, f.otherID,
		"Ada Lovelace", "", "", "")
	assert.True(t, errors.Is(err, ErrNotBookMember))
	assert.Empty(t, f.emitter.events)
}

func TestRequestContactCreationUnknownBook(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.svc.RequestContactCreation(context.Background(), f.userID, uuid.New(),
		"Ada Lovelace", "", "", "")
	assert.True(t, errors.Is(err, ErrContactBookNotFound))
	assert.Empty(t, f.emitter.events)
}

func TestRequestContactCreationQueueUnavailable(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	f.emitter.emitErr = job.ErrQueueUnavailable

	err := f.svc.RequestContactCreation(context.Background(), f.userID, f.bookID,
		"Ada Lovelace", "", "", "")
	assert.True(t, errors.Is(err, job.ErrQueueUnavailable))
}

func TestGetContact(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	contact := f.seedContact(t)

	got, err := f.svc.GetContact(context.Background(), f.userID, f.bookID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, got.ID)
	assert.Equal(t, "Grace Hopper", got.Name)
}

func TestGetContactNotFound(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	_, err := f.svc.GetContact(context.Background(), f.userID, f.bookID, uuid.New())
	assert.True(t, errors.Is(err, ErrContactNotFound))
}

func TestGetContactRejectsNonMember(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	contact := f.seedContact(t)

	_, err := f.svc.GetContact(context.Background(), f.userID, f.otherID, contact.ID)
	assert.True(t, errors.Is(err, ErrNotBookMember))
}

func TestUpdateContact(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	contact := f.seedContact(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	updated, err := f.svc.UpdateContact(context.Background(), f.userID, f.bookID, contact.ID,
		"Grace Murray Hopper", "hopper@example.com", "+1-555-0199")
	require.NoError(t, err)

	assert.Equal(t, "Grace Murray Hopper", updated.Name)
	assert.Equal(t, "hopper@example.com", updated.Email)
	assert.Equal(t, "Grace Murray Hopper", f.repo.contacts[contact.ID].Name)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdateContactRejectsEmptyName(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	contact := f.seedContact(t)

	_, err := f.svc.UpdateContact(context.Background(), f.userID, f.bookID, contact.ID,
		"   ", "", "")
	assert.True(t, errors.Is(err, ErrInvalidContactData))
}

func TestUpdateContactNotFound(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.UpdateContact(context.Background(), f.userID, f.bookID, uuid.New(),
		"Grace Hopper", "", "")
	assert.True(t, errors.Is(err, ErrContactNotFound))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDeleteContact(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	contact := f.seedContact(t)

	require.NoError(t, f.svc.DeleteContact(context.Background(), f.userID, f.bookID, contact.ID))
	assert.Empty(t, f.repo.contacts)
}

func TestDeleteContactNotFound(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	err := f.svc.DeleteContact(context.Background(), f.userID, f.bookID, uuid.New())
	assert.True(t, errors.Is(err, ErrContactNotFound))
}

func TestDeleteContactRejectsNonMember(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	contact := f.seedContact(t)

	err := f.svc.DeleteContact(context.Background(), f.userID, f.otherID, contact.ID)
	assert.True(t, errors.Is(err, ErrNotBookMember))
	assert.Len(t, f.repo.contacts, 1)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teagan-pado/contacts-application/internal/api/shared"
	"github.com/teagan-pado/contacts-application/internal/domain"
	"github.com/teagan-pado/contacts-application/internal/job"
	"github.com/teagan-pado/contacts-application/internal/service"
)

// creationRequest captures the arguments of a RequestContactCreation call.
type creationRequest struct {
	userID         uuid.UUID
	contactBookID  uuid.UUID
	name           string
	email          string
	phone          string
	idempotencyKey string
}

// stubContactService is a configurable ContactService for handler tests.
type stubContactService struct {
	creations []creationRequest
	createErr error

	contact   *domain.Contact
	getErr    error
	updateErr error
	deleteErr error
}

func (s *stubContactService) RequestContactCreation(
	ctx context.Context,
	userID, contactBookID uuid.UUID,
	name, email, phone, idempotencyKey string,
) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.creations = append(s.creations, creationRequest{
		userID:         userID,
		contactBookID:  contactBookID,
		name:           name,
		email:          email,
		phone:          phone,
		idempotencyKey: idempotencyKey,
	})
	return nil
}

func (s *stubContactService) GetContact(
	ctx context.Context,
	userID, contactBookID, contactID uuid.UUID,
) (*domain.Contact, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.contact, nil
}

func (s *stubContactService) UpdateContact(
	ctx context.Context,
	userID, contactBookID, contactID uuid.UUID,
	name, email, phone string,
) (*domain.Contact, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	updated := *s.contact
	updated.Name = name
	updated.Email = email
	updated.Phone = phone
	return &updated, nil
}

func (s *stubContactService) DeleteContact(
	ctx context.Context,
	userID, contactBookID, contactID uuid.UUID,
) error {
	return s.deleteErr
}

// newContactRequest builds a request with chi URL params and an
// authenticated user in the context, mirroring what the router and auth
// middleware set up in production.
func newContactRequest(
	method, body string,
	userID, bookID, contactID uuid.UUID,
) *http.Request {
	var buf bytes.Buffer
	buf.WriteString(body)

	req := httptest.NewRequest(method, "/api/contact-books/"+bookID.String()+"/contacts", &buf)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("bookID", bookID.String())
	if contactID != uuid.Nil {
		rctx.URLParams.Add("contactID", contactID.String())
	}

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}

	return req.WithContext(ctx)
}

func seedTestContact(t *testing.T, bookID uuid.UUID) *domain.Contact {
	t.Helper()

	contact, err := domain.NewContact(bookID, "Ada Lovelace", "ada@example.com", "+1-555-0100",
		domain.ContentDedupKey(bookID, "Ada Lovelace", "ada@example.com", "+1-555-0100"))
	require.NoError(t, err)
	return contact
}

func TestCreateContactAccepted(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	userID := uuid.New()
	bookID := uuid.New()
	req := newContactRequest(http.MethodPost,
		`{"name":"Ada Lovelace","email":"ada@example.com","phone":"+1-555-0100"}`,
		userID, bookID, uuid.Nil)
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp shared.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Contact creation task has been created", resp.Message)

	require.Len(t, svc.creations, 1)
	assert.Equal(t, userID, svc.creations[0].userID)
	assert.Equal(t, bookID, svc.creations[0].contactBookID)
	assert.Equal(t, "Ada Lovelace", svc.creations[0].name)
}

func TestCreateContactForwardsIdempotencyKey(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPost, `{"name":"Ada"}`, uuid.New(), uuid.New(), uuid.Nil)
	req.Header.Set("Idempotency-Key", "retry-key-7")
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.creations, 1)
	assert.Equal(t, "retry-key-7", svc.creations[0].idempotencyKey)
}

func TestCreateContactAcceptsBlankName(t *testing.T) {
	t.Parallel()

	// Field validation happens in the background job, so a structurally
	// valid request with a blank name is still accepted.
	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPost, `{"name":""}`, uuid.New(), uuid.New(), uuid.Nil)
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestCreateContactInvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPost, `{not json`, uuid.New(), uuid.New(), uuid.Nil)
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.creations)
}

func TestCreateContactRequiresAuthenticatedUser(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPost, `{"name":"Ada"}`, uuid.Nil, uuid.New(), uuid.Nil)
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateContactInvalidBookID(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/contact-books/nope/contacts",
		bytes.NewBufferString(`{"name":"Ada"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("bookID", "nope")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, shared.UserIDContextKey, uuid.New())
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateContactNonMember(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{createErr: service.ErrNotBookMember}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPost, `{"name":"Ada"}`, uuid.New(), uuid.New(), uuid.Nil)
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateContactQueueUnavailable(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{createErr: job.ErrQueueUnavailable}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPost, `{"name":"Ada"}`, uuid.New(), uuid.New(), uuid.Nil)
	rec := httptest.NewRecorder()

	handler.CreateContact(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetContact(t *testing.T) {
	t.Parallel()

	bookID := uuid.New()
	contact := seedTestContact(t, bookID)
	svc := &stubContactService{contact: contact}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodGet, "", uuid.New(), bookID, contact.ID)
	rec := httptest.NewRecorder()

	handler.GetContact(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, contact.ID.String(), resp.ID)
	assert.Equal(t, bookID.String(), resp.ContactBookID)
	assert.Equal(t, "Ada Lovelace", resp.Name)
}

func TestGetContactNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{getErr: service.ErrContactNotFound}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodGet, "", uuid.New(), uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	handler.GetContact(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateContact(t *testing.T) {
	t.Parallel()

	bookID := uuid.New()
	contact := seedTestContact(t, bookID)
	svc := &stubContactService{contact: contact}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPut,
		`{"name":"Ada King","email":"ada@lovelace.org","phone":"+1-555-0101"}`,
		uuid.New(), bookID, contact.ID)
	rec := httptest.NewRecorder()

	handler.UpdateContact(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ada King", resp.Name)
	assert.Equal(t, "ada@lovelace.org", resp.Email)
}

func TestUpdateContactRejectsMissingName(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodPut, `{"email":"a@b.c"}`, uuid.New(), uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	handler.UpdateContact(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteContact(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodDelete, "", uuid.New(), uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	handler.DeleteContact(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteContactNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubContactService{deleteErr: service.ErrContactNotFound}
	handler := NewContactHandler(svc)

	req := newContactRequest(http.MethodDelete, "", uuid.New(), uuid.New(), uuid.New())
	rec := httptest.NewRecorder()

	handler.DeleteContact(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

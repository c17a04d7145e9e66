package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/api/shared"
	"github.com/teagan-pado/contacts-application/internal/domain"
	"github.com/teagan-pado/contacts-application/internal/platform/logger"
	"github.com/teagan-pado/contacts-application/internal/service"
)

// contactCreationAcceptedMessage is the body returned when a contact
// creation request is accepted for background processing.
const contactCreationAcceptedMessage = "Contact creation task has been created"

// CreateContactRequest represents the request body for creating a new contact.
// No field is validated here: the creation job validates at execution time,
// so a request with a blank name is still accepted with 202.
type CreateContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateContactRequest represents the request body for updating a contact.
// Unlike creation, updates are synchronous and validated up front.
type UpdateContactRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactResponse represents the response data for a contact
type ContactResponse struct {
	ID            string    `json:"id"`
	ContactBookID string    `json:"contact_book_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// CreateContact handles POST /api/contact-books/{bookID}/contacts requests.
// The contact is not created here: the request is handed to the background
// pipeline and the handler answers 202 as soon as the work is accepted.
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}

	var req CreateContactRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// A client-supplied Idempotency-Key makes retries of the same request
	// collapse to a single contact even across connection failures.
	idempotencyKey := r.Header.Get("Idempotency-Key")

	err := h.contactService.RequestContactCreation(
		r.Context(), userID, bookID,
		req.Name, req.Email, req.Phone, idempotencyKey,
	)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to accept contact creation request",
			"error", err,
			"user_id", userID,
			"contact_book_id", bookID)
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, shared.MessageResponse{
		Message: contactCreationAcceptedMessage,
	})
}

// GetContact handles GET /api/contact-books/{bookID}/contacts/{contactID} requests
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}

	contactID, ok := parseContactID(w, r)
	if !ok {
		return
	}

	contact, err := h.contactService.GetContact(r.Context(), userID, bookID, contactID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contactToResponse(contact))
}

// UpdateContact handles PUT /api/contact-books/{bookID}/contacts/{contactID} requests
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}

	contactID, ok := parseContactID(w, r)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	contact, err := h.contactService.UpdateContact(
		r.Context(), userID, bookID, contactID,
		req.Name, req.Email, req.Phone,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contactToResponse(contact))
}

// DeleteContact handles DELETE /api/contact-books/{bookID}/contacts/{contactID} requests
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	bookID, ok := parseBookID(w, r)
	if !ok {
		return
	}

	contactID, ok := parseContactID(w, r)
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(r.Context(), userID, bookID, contactID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireUserID extracts the authenticated user ID set by the auth middleware.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// parseBookID parses the {bookID} URL parameter.
func parseBookID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	bookID, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contact book ID")
		return uuid.Nil, false
	}
	return bookID, true
}

// parseContactID parses the {contactID} URL parameter.
func parseContactID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contact ID")
		return uuid.Nil, false
	}
	return contactID, true
}

// contactToResponse converts a domain.Contact to a ContactResponse
func contactToResponse(contact *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:            contact.ID.String(),
		ContactBookID: contact.ContactBookID.String(),
		Name:          contact.Name,
		Email:         contact.Email,
		Phone:         contact.Phone,
		CreatedAt:     contact.CreatedAt,
		UpdatedAt:     contact.UpdatedAt,
	}
}

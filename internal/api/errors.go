package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/teagan-pado/contacts-application/internal/job"
	"github.com/teagan-pado/contacts-application/internal/service"
	"github.com/teagan-pado/contacts-application/internal/service/auth"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotBookMember):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrContactNotFound),
		errors.Is(err, service.ErrContactBookNotFound),
		errors.Is(err, store.ErrContactNotFound),
		errors.Is(err, store.ErrContactBookNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrInvalidContactData),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// The job pipeline could not accept the work; the client may retry
	case errors.Is(err, job.ErrQueueUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	// Authorization errors
	case errors.Is(err, service.ErrNotBookMember):
		return "You are not a member of this contact book"

	// Not found errors
	case errors.Is(err, service.ErrContactNotFound),
		errors.Is(err, store.ErrContactNotFound):
		return "Contact not found"

	case errors.Is(err, service.ErrContactBookNotFound),
		errors.Is(err, store.ErrContactBookNotFound):
		return "Contact book not found"

	// Bad request errors
	case errors.Is(err, service.ErrInvalidContactData),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid contact data"

	// Queue refusal
	case errors.Is(err, job.ErrQueueUnavailable):
		return "Service is temporarily unable to accept the request"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'UpdateContactRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

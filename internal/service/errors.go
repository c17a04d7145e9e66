// Package service provides application-level services for managing contacts.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotBookMember indicates the requesting user does not belong to the
	// contact book they are trying to act on.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotBookMember = errors.New("user is not a member of the contact book")

	// ErrContactNotFound indicates that the requested contact does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrContactNotFound = errors.New("contact not found")

	// ErrContactBookNotFound indicates that the requested contact book does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrContactBookNotFound = errors.New("contact book not found")

	// ErrInvalidContactData indicates the submitted contact fields fail
	// validation on the synchronous surface.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidContactData = errors.New("invalid contact data")
)

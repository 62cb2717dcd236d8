package models

import (
	"errors"
	"fmt"
)

// Common error codes used in JSON error responses
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

// Validation errors caught before any network call
var (
	ErrEmptyComment     = errors.New("comment needs text or at least one attachment")
	ErrEmptyPost        = errors.New("post needs text or at least one attachment")
	ErrCommentTooLong   = errors.New("comment exceeds maximum length")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Session errors
var (
	ErrNoSession          = errors.New("not logged in")
	ErrSessionExpired     = errors.New("session expired, please log in again")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// APIError carries the status and body of a non-2xx REST response
type APIError struct {
	Status int
	Code   string
	Body   string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error (status %d, %s): %s", e.Status, e.Code, e.Body)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Body)
}

// IsUnauthorized reports whether err is a 401 APIError
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}

// IsNotFound reports whether err is a 404 APIError
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// IsSessionExpired reports whether err means the session cannot be
// recovered without logging in again
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

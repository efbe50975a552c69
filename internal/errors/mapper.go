package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is an API-facing error carrying the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Map converts repo/infra errors into API errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Status: http.StatusNotFound, Message: "record not found"}

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Status: http.StatusConflict, Message: "already exists"}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Message: "request timed out"}

	case errors.Is(err, context.Canceled):
		return &Error{Status: http.StatusServiceUnavailable, Message: "request was canceled"}

	default:
		// do not leak internals; handlers log the real error
		return &Error{Status: http.StatusInternalServerError, Message: "internal error"}
	}
}

// InvalidRequest creates a 400 error for bad input validation.
func InvalidRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized creates a 401 error for missing or bad caller identity.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Forbidden creates a 403 error for acting on another user's resource.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// NotFound creates a 404 error for a missing referenced resource.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

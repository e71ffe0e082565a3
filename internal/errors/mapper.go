package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a transport-ready application error: an HTTP status plus a
// message safe to return to the client.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

// New creates an Error with an explicit status code.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Map converts repo/infra errors into transport-ready errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return appErr

	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(http.StatusNotFound, "record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return New(http.StatusBadRequest, "duplicate record")

	case errors.Is(err, context.DeadlineExceeded):
		return New(http.StatusGatewayTimeout, "request timed out")

	case errors.Is(err, context.Canceled):
		return New(http.StatusBadRequest, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return New(http.StatusInternalServerError, err.Error())
	}
}

// InvalidArgument creates a 400 error.
// Use this in service layer for bad input validation and
// business-rule rejections.
func InvalidArgument(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}

// Unauthorized creates a 401 error.
func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, msg)
}

// PermissionDenied creates a 403 error.
func PermissionDenied(msg string) *Error {
	return New(http.StatusForbidden, msg)
}

// NotFound creates a 404 error.
func NotFound(msg string) *Error {
	return New(http.StatusNotFound, msg)
}

// AlreadyExists creates a 400 error for duplicate resources.
func AlreadyExists(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInternal     = "internal"
	CodeNotFound     = "not_found"
	CodeValidation   = "validation"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
)

// Error is a structured application error carrying the HTTP status
// it should surface as.
type Error struct {
	Code    string
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap returns the root cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts an *Error if present anywhere in the chain.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Unauthorized covers every authentication failure. Callers must not
// distinguish a bad token from an unknown subject, so the message is
// deliberately uniform.
func Unauthorized(cause error) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: "authentication required", Cause: cause}
}

// Forbidden means the caller is known but lacks a required permission.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

// NotFound also covers rows that exist under a different tenant.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

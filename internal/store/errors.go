package store

import (
	"fmt"
	"net/http"
)

// Error is a domain error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// Is reports whether target is the same sentinel, so wrapped variants made
// with WithMessage/WithCause still match errors.Is(err, store.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors. Every public store operation fails with one of these (or a
// WithMessage/WithCause variant of one) so callers can branch on the kind.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	// ErrProtected guards the built-in categories against deletion.
	ErrProtected = &Error{
		Code:    http.StatusForbidden,
		Message: "built-in entity cannot be deleted",
	}

	// ErrStorageInit means the storage medium was unwritable or corrupt at
	// startup. Nothing else works until a new Open succeeds.
	ErrStorageInit = &Error{
		Code:    http.StatusServiceUnavailable,
		Message: "storage initialization failed",
	}

	// ErrStorageIO is a read/write failure after initialization. The store
	// never retries internally; retry policy belongs to the caller.
	ErrStorageIO = &Error{
		Code:    http.StatusInternalServerError,
		Message: "storage read/write failed",
	}
)

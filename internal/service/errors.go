package service

import (
	"errors"
	"fmt"

	"spend/internal/core"
	"spend/internal/storage"
)

// ErrorKind classifies a failed operation so callers can branch without
// parsing message text.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindIO         ErrorKind = "io"
	KindInternal   ErrorKind = "internal"
)

// Error is the terminal failure of a single operation. Every error leaving
// the service is one of these; the transport layer turns it into a
// status/message payload.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFoundError(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Expense with ID %d not found", id)}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error()}
}

// classify maps core and storage sentinels to the user-facing taxonomy.
func classify(err error, id int64) *Error {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return validationError("Invalid date format. Use YYYY-MM-DD")
	case errors.Is(err, core.ErrInvalidAmount):
		return validationError("Amount must be positive")
	case errors.Is(err, core.ErrEmptyCategory):
		return validationError("Category is required")
	case errors.Is(err, core.ErrNoFields):
		return validationError("No fields to update")
	case errors.Is(err, storage.ErrNotFound):
		return notFoundError(id)
	default:
		return internalError(err)
	}
}

// Package apperr defines the error taxonomy shared by services and
// controllers. Services return *Error values; controllers map the Kind to an
// HTTP status and put the message into the response envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	// Internal is an unexpected failure (persistence, programming error).
	Internal Kind = iota
	// Validation covers malformed or missing request fields.
	Validation
	// NotFound means a referenced user, product, order or review is absent.
	NotFound
	// BusinessRule covers domain rejections such as insufficient stock or
	// cancelling a non-pending order.
	BusinessRule
	// Permission covers role or ownership mismatches.
	Permission
)

// Error carries a Kind, a client-facing message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new *Error. The cause is kept out of the
// client-facing message.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client-facing message for err. Internal errors are
// masked behind a generic message so persistence details never leak.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Internal {
		return ae.Message
	}
	return "Error interno del servidor"
}

// HTTPStatus maps a Kind to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, BusinessRule:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Permission:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Package apperr classifies service errors so the HTTP layer can map them to status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the class of an application error.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a classified error with a client-facing message.
// Err, when set, holds the backend cause and is only exposed as diagnostic details.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad or missing client input.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound reports a missing resource.
func NotFound(message string, err error) error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// Unavailable reports a backend transport or auth failure.
func Unavailable(message string, err error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// Internal reports any other failure, including unparsable stored data.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of err, or fallback when err is unclassified.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Details returns the raw cause text used for diagnostics.
func Details(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Err == nil {
			return ""
		}
		return e.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

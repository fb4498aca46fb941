// Package apperrors defines the error taxonomy shared by the thought
// organization engine: every component classifies only the errors it can
// recognize and lets the rest propagate with the original message intact.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for retry and presentation decisions.
type Kind string

const (
	// KindAuth means the caller's identity is missing or expired. Never retried.
	KindAuth Kind = "AUTH"

	// KindValidation means the input was rejected (e.g. an empty cluster name
	// after sanitization). Threshold and empty-pool cases are NOT errors; they
	// are structured nothing-to-do results.
	KindValidation Kind = "VALIDATION"

	// KindNotFound means a referenced row does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindExternal means the AI service failed (non-success status, timeout).
	// Retryable up to the configured retry budget.
	KindExternal Kind = "EXTERNAL"

	// KindMalformedResponse means the AI service answered but the payload did
	// not decode against the expected shape. Surfaced distinctly from a valid
	// empty result; retryable, since a fresh completion may parse.
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"

	// KindStore means a read or write against the relational store failed.
	// Never retried automatically by this engine.
	KindStore Kind = "STORE"

	// KindInternal is the fallback for unclassified errors.
	KindInternal Kind = "INTERNAL"
)

// Error is an application error carrying a Kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and context to an existing error. The cause's message
// is preserved for diagnostics. Wrapping nil returns nil.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsRetryable reports whether the error is worth retrying against the
// external service. Store and validation failures never are.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindExternal, KindMalformedResponse:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error kind to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExternal, KindMalformedResponse:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage renders an error as the message shown to the user, hiding
// internals while keeping actionable classifications visible.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindAuth:
		return "Session expired, please re-authenticate."
	case KindExternal, KindMalformedResponse:
		return "The AI service is temporarily unavailable. Please try again."
	case KindValidation, KindNotFound:
		var appErr *Error
		if errors.As(err, &appErr) {
			return appErr.Message
		}
		return "Invalid input."
	default:
		return "Something went wrong. Please try again."
	}
}

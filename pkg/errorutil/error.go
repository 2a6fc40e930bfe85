package errorutil

import "errors"

// Error carries a retryable marker so the worker can decide between
// acknowledging a message and sending it back to the queue.
type Error struct {
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
	cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retriable creates a retryable error (network failures, collaborator
// timeouts, temporarily unavailable infrastructure).
func Retriable(message string) *Error {
	return &Error{Message: message, Retryable: true}
}

// RetriableWrap creates a retryable error keeping the original cause.
func RetriableWrap(message string, cause error) *Error {
	e := Retriable(message)
	e.cause = cause
	if cause != nil {
		e.DevDetails = cause.Error()
	}
	return e
}

// NonRetriable creates a non-retryable error (malformed payloads,
// business-rule violations, callback delivery failures).
func NonRetriable(message string) *Error {
	return &Error{Message: message, Retryable: false}
}

// NonRetriableWrap creates a non-retryable error keeping the original cause.
func NonRetriableWrap(message string, cause error) *Error {
	e := NonRetriable(message)
	e.cause = cause
	if cause != nil {
		e.DevDetails = cause.Error()
	}
	return e
}

// IsRetriable reports whether err (or anything it wraps) is marked
// retryable. Unmarked errors default to non-retryable.
func IsRetriable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

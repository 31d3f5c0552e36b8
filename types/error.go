package types

import "fmt"

// Error is the single error surface for every transport, protocol, and remote
// failure. Message is always set; StatusCode and Details are populated when
// the failing response carried them.
type Error struct {
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sora: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("sora: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given message.
func NewError(message string) *Error {
	return &Error{Message: message}
}

// WithStatusCode sets the HTTP status code.
func (e *Error) WithStatusCode(status int) *Error {
	e.StatusCode = status
	return e
}

// WithDetails attaches the structured error payload from the response body.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause adds an underlying cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// ValidationError reports a request that violates a static constraint. It is
// raised before any network traffic occurs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PollTimeoutError reports that polling was exhausted before the job reached
// a terminal state. It is deliberately distinct from Error so callers can
// tell "the API said no" apart from "we gave up waiting".
type PollTimeoutError struct {
	JobID    string
	MaxPolls int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("sora: polling job %s exceeded maximum attempts (%d)", e.JobID, e.MaxPolls)
}

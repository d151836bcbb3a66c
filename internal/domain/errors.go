package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion signals a request without question text.
	ErrEmptyQuestion = errors.New("message is required")
	// ErrUpstream signals a failure reported by (or while reaching) the answer backend.
	ErrUpstream = errors.New("upstream error")
)

// DefaultUpstreamMessage is surfaced when the backend gives no usable error text.
const DefaultUpstreamMessage = "Upstream error"

// UpstreamError wraps ErrUpstream with the status and message to pass through to the caller.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: status %d: %s: %v", ErrUpstream.Error(), e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrUpstream.Error(), e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}

// NewUpstreamError creates an upstream error. An empty message falls back to DefaultUpstreamMessage.
func NewUpstreamError(status int, message string, cause error) error {
	if message == "" {
		message = DefaultUpstreamMessage
	}
	return &UpstreamError{Status: status, Message: message, Err: cause}
}

package domain

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Repositories and stores return these; handlers map
// them to HTTP status codes.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError is detected client-side, before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NetworkError wraps a transport-level failure against the remote store.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// UpstreamAIError marks a malformed or failed AI provider response.
type UpstreamAIError struct {
	Reason string
	Cause  error
}

func (e *UpstreamAIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream AI error: %s: %v", e.Reason, e.Cause)
	}
	return "upstream AI error: " + e.Reason
}

func (e *UpstreamAIError) Unwrap() error { return e.Cause }

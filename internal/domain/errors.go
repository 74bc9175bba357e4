package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("resource conflict")
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrInvalidCredentials is an ErrUnauthorized for a failed password login.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UpstreamError reports a failed call to the media-hosting provider.
// Details carries the provider's raw payload for diagnosis.
type UpstreamError struct {
	Message string
	Details json.RawMessage
}

func (e *UpstreamError) Error() string {
	return "upstream: " + e.Message
}

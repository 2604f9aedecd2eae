package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline. Wrap with fmt.Errorf("%w", ...)
// to add context; callers match with errors.Is.
var (
	// ErrAuth means the generation credential is missing or was rejected.
	ErrAuth = errors.New("generation credential missing or rejected")

	// ErrIncompleteResponse means the model produced fewer variants than
	// requested (including an empty response). Partial sets are never
	// returned.
	ErrIncompleteResponse = errors.New("model returned fewer variants than requested")
)

// ValidationError reports bad user input, caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a network-level failure reaching the generation
// endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError reports a non-success or unusable response from the
// generation endpoint. Body holds a short preview, not the full payload.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedVariantError reports a single unusable entry in the model output.
// It still fails the whole normalization; partial sets are not a valid
// terminal state.
type MalformedVariantError struct {
	Index  int
	Reason string
}

func (e *MalformedVariantError) Error() string {
	return fmt.Sprintf("malformed variant at index %d: %s", e.Index, e.Reason)
}

// ScoringError wraps a sentiment backend failure. Per-variant and non-fatal:
// the variant is returned unscored.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("sentiment scoring failed: %v", e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

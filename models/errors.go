package models

import "fmt"

// ValidationError marks a record that failed construction-time checks.
// Record-level: batch loaders skip the record and keep going.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when no entity matches an identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("facility %q not found", e.ID)
}

// UsageError means the caller violated a precondition (term too short,
// missing coordinates for a nearby query, malformed month, ...).
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// UpstreamError wraps a data-source failure. Fatal for the call; never
// recovered locally.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the service layer. Handlers map these to HTTP
// statuses with errors.Is; anything unrecognized is a collaborator failure.
var (
	// ErrUnauthenticated is returned when no identity is present where one is required
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnauthorized is returned when the identity lacks rights for the operation
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound is returned when a car or booking reference does not resolve
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique resource is created twice
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned for malformed filters, parameters or status values
	ErrInvalidInput = errors.New("invalid input")

	// ErrBookingConflict is returned when a slot is already held or a booking
	// is in a state that rejects the requested transition
	ErrBookingConflict = errors.New("booking conflict")

	// ErrMalformedPayload is returned when AI output cannot be parsed as a
	// single structured object
	ErrMalformedPayload = errors.New("malformed AI payload")

	// ErrCollaborator is returned when a store or classifier call failed.
	// Retrying is the caller's decision, not the service's.
	ErrCollaborator = errors.New("collaborator failure")
)

// MissingFieldsError is returned when AI output parses but lacks required
// fields. It names exactly the missing ones.
type MissingFieldsError struct {
	Fields []string
}

// Error implements the error interface
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("AI response missing fields: %s", strings.Join(e.Fields, ", "))
}

// collaboratorErr wraps a store or classifier error so callers can
// distinguish "no results" from "collaborator unreachable"
func collaboratorErr(err error) error {
	return fmt.Errorf("%w: %v", ErrCollaborator, err)
}

/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place. The taxonomy mirrors what callers need to
  distinguish: bad input, missing records, booking conflicts, violated
  business rules, and storage failures. The HTTP layer maps each category
  to a status code; nothing is retried automatically.

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, engine.ErrOverlap) {
        // reject the booking, keep the dialog open
    }

SEE ALSO:
  - api/handlers.go: status code mapping
  - store/sqlite:    wraps driver failures as StorageError
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for missing or malformed input
	// (inverted date range, non-numeric day value, unknown mode string).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced employee, department or
	// record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOverlap is returned when a booking intersects an existing record
	// of the same kind. Bookings are never auto-merged or truncated.
	ErrOverlap = errors.New("booking overlaps an existing record")

	// ErrBusinessRule is returned when a booking is well-formed but not
	// permitted (exceeds remaining leave, extends past termination).
	ErrBusinessRule = errors.New("business rule violated")

	// ErrStorage is returned when the underlying record store fails.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a malformed input field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifies the missing entity.
type NotFoundError struct {
	Entity string // "employee", "department", "leave record", ...
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// OverlapError describes a rejected booking and the record it collides with.
type OverlapError struct {
	Kind       AbsenceKind
	From, To   Date
	ExistingID int64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s booking %s..%s overlaps existing record %d",
		e.Kind, e.From, e.To, e.ExistingID)
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }

// BusinessRuleError names the violated rule.
type BusinessRuleError struct {
	Rule   string
	Detail string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
}

func (e *BusinessRuleError) Unwrap() error { return ErrBusinessRule }

// StorageError wraps a record store failure. The driver error is kept for
// logging; callers match on ErrStorage.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// rather than a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrOverlap) ||
		errors.Is(err, ErrBusinessRule)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

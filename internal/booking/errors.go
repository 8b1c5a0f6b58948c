// Package booking implements the availability and recurrence engine:
// slot validation, conflict checking against existing reservations, booking
// creation and recurring-series expansion.
package booking

import (
	"errors"
	"fmt"

	"meetmate/internal/models"
)

// ValidationError rejects malformed input before any storage access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError means the slot was taken between selection and confirmation.
// Callers surface it distinctly so the user can re-pick a slot.
type ConflictError struct {
	RoomID int64
	Date   string
	Start  models.TimeOfDay
	End    models.TimeOfDay
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d already booked on %s between %s and %s",
		e.RoomID, e.Date, e.Start, e.End)
}

// PersistenceError wraps a storage write failure. In a recurring series it
// aborts only the occurrence it happened on.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

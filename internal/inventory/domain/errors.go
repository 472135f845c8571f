package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound is returned when no inventory item matches an id.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrInvalidID is returned for ids that are not valid UUIDs.
	ErrInvalidID = errors.New("invalid inventory item id")
)

// ValidationError reports a missing or malformed field on create.
type ValidationError struct {
	Field   string
	Missing bool
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("Missing required field: %s", e.Field)
	}
	if e.Reason != "" {
		return fmt.Sprintf("Invalid value for field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("Invalid value for field: %s", e.Field)
}

// MissingField builds a ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Missing: true}
}

// InvalidField builds a ValidationError for a present but unusable field.
func InvalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package database

import (
	"errors"
	"fmt"
)

// Domain error kinds. Handlers map these onto HTTP statuses; raw store errors
// never leave this package unwrapped.

// ValidationError rejects bad input: missing required fields, non-positive
// amounts, empty allocation sets, missing references.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means a referenced invoice/payment/student/fee item does not
// exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError is a number collision that survived all retries; the caller
// should treat it as transient and retry the whole request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ConsistencyError means the operation would break the ledger invariant, e.g.
// allocating more to an invoice item than it has outstanding, or editing an
// invoice below what has already been paid.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func consistencyErrorf(format string, args ...interface{}) error {
	return &ConsistencyError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsConsistency reports whether err is a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

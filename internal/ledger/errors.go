package ledger

import (
	"errors"
	"fmt"
)

var (
	// Authorization errors
	ErrNotMember = errors.New("user is not a member of the group")
	ErrForbidden = errors.New("operation not permitted for this user")

	// Integrity errors
	ErrReferenced = errors.New("user is referenced by groups or ledger history")

	// Write validation errors
	ErrDescriptionRequired   = errors.New("description is required")
	ErrSelfSettlement        = errors.New("cannot settle with yourself")
	ErrNoDebt                = errors.New("no outstanding debt in this direction")
	ErrSettlementExceedsDebt = errors.New("settlement exceeds outstanding debt")
)

// ValidationError reports which input failed which rule. It unwraps to the rule's
// sentinel error, so callers can match with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

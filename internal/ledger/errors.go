package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

var (
	// ErrNotFound is returned when no record matches an id. Callers treat
	// it as a no-op.
	ErrNotFound = errors.New("record not found")
	// ErrAmbiguousID is returned when an id prefix matches several records.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientSavings matches every *InsufficientSavingsError.
	ErrInsufficientSavings = errors.New("insufficient available savings")
	// ErrUnknownCategory is returned for an expense category not in the list.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDuplicateCategory is returned when adding a category twice.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrPersist wraps store failures. The in-memory state was still updated.
	ErrPersist = errors.New("saving data failed")
	// ErrUnsupportedVersion is returned for documents newer than this build.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func invalidAmount(field string, amount decimal.Decimal) error {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("%s must be greater than zero", amount.StringFixed(2)),
		Err:    ErrInvalidAmount,
	}
}

// InsufficientSavingsError reports a contribution larger than the savings
// currently available.
type InsufficientSavingsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
	// Period is the window the savings were computed for.
	Period model.Period
}

func (e *InsufficientSavingsError) Error() string {
	return fmt.Sprintf("insufficient available savings: requested %s, available %s",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientSavingsError) Is(target error) bool {
	return target == ErrInsufficientSavings
}

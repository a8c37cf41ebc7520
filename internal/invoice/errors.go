package invoice

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrNotModifiable     = errors.New("invoice is not modifiable")
	ErrNotAdjustable     = errors.New("invoice is not adjustable")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ComputationError reports a lookup or persistence failure while deriving or
// cascading amounts. The cascade stops at the invoice named here.
type ComputationError struct {
	InvoiceID uuid.UUID
	Op        string
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("recalculating invoice %s: %s: %v", e.InvoiceID, e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// TagError names the first required accounting tag found missing.
type TagError struct {
	ItemID uuid.UUID
	Index  int
	Name   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("item %s: missing accounting tag %d (%s)", e.ItemID, e.Index, e.Name)
}

func (e *TagError) Is(target error) bool {
	return target == ErrValidation
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

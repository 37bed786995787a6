package particle

import (
	"errors"
	"fmt"
)

// Domain errors for particle operations.
var (
	// ErrInvalidArgument indicates a negative count or an out-of-domain parameter.
	ErrInvalidArgument = errors.New("partisim: invalid argument")

	// ErrDimensionMismatch indicates particle arrays of unequal length.
	ErrDimensionMismatch = errors.New("partisim: dimension mismatch between particle arrays")

	// ErrComparisonMismatch marks a failed check. It is informational only.
	ErrComparisonMismatch = errors.New("partisim: comparison mismatch")
)

// DimensionError wraps ErrDimensionMismatch with the lengths involved.
type DimensionError struct {
	Op   string
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %v (want %d, got %d)", e.Op, ErrDimensionMismatch, e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// CheckCount returns ErrInvalidArgument for negative particle counts.
func CheckCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: particle count must be non-negative, got %d", ErrInvalidArgument, n)
	}
	return nil
}

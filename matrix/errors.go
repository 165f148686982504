// Package matrix: sentinel error set. All operations MUST return these
// sentinels (optionally wrapped with fmt.Errorf("ctx: %w", ErrX)) and
// tests check them via errors.Is. No operation panics on user input.
package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates that a row, column or depth index is
	// outside the valid range.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrDimensionMismatch indicates incompatible shapes between operands,
	// e.g. stacking matrices with different column counts.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil receiver or argument was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")
)

package quantization

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTrainingSet is returned when training is called without vectors.
	ErrEmptyTrainingSet = errors.New("quantization: empty training set")

	// ErrCorruptCodebook is returned when a codebook's binary form cannot be decoded.
	ErrCorruptCodebook = errors.New("quantization: corrupt codebook encoding")

	// ErrInvalidEpsilon is returned for a negative or NaN convergence threshold.
	ErrInvalidEpsilon = errors.New("quantization: epsilon must be a non-negative number")
)

// ErrInvalidCodebookSize indicates a codebook size that is not a power of two
// in [1, MaxCodebookSize].
type ErrInvalidCodebookSize struct {
	Size int
}

func (e *ErrInvalidCodebookSize) Error() string {
	return fmt.Sprintf("quantization: invalid codebook size %d: must be a power of two in [1, %d]", e.Size, MaxCodebookSize)
}

// ErrDimensionMismatch indicates a vector whose length differs from the
// session's dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	Index    int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("quantization: dimension mismatch at vector %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// ErrInvalidDimension indicates zero-length vectors.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("quantization: invalid dimension: %d", e.Dimension)
}

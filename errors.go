package vqc

import (
	"errors"

	"github.com/hupe1980/vqc/cache"
	"github.com/hupe1980/vqc/quantization"
)

var (
	// ErrEmptyTrainingSet is returned when training is called without vectors.
	ErrEmptyTrainingSet = quantization.ErrEmptyTrainingSet

	// ErrCorruptCodebook is returned when a codebook encoding fails validation.
	ErrCorruptCodebook = quantization.ErrCorruptCodebook

	// ErrNotFound is returned when a codebook is not in the cache.
	ErrNotFound = cache.ErrNotFound

	// ErrCorruptStream is returned when an encoded stream cannot be decoded.
	ErrCorruptStream = errors.New("vqc: corrupt stream")

	// ErrInvalidVectorSize is returned by Partition for a non-positive vector size.
	ErrInvalidVectorSize = errors.New("vqc: vector size must be positive")
)

// ErrDimensionMismatch indicates a vector whose length differs from the rest
// of its set or from the codebook.
type ErrDimensionMismatch = quantization.ErrDimensionMismatch

// ErrInvalidCodebookSize indicates a codebook size that is not a power of two.
type ErrInvalidCodebookSize = quantization.ErrInvalidCodebookSize

// ErrInvalidDimension indicates a zero-length vector.
type ErrInvalidDimension = quantization.ErrInvalidDimension

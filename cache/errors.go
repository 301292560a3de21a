package cache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vqc/quantization"
)

var (
	// ErrNotFound is returned by Load when no codebook is stored under a key.
	ErrNotFound = errors.New("cache: codebook not found")

	// ErrCorruptCodebook is returned when a stored blob fails validation.
	// It is the same value as quantization.ErrCorruptCodebook.
	ErrCorruptCodebook = quantization.ErrCorruptCodebook

	// ErrInvalidKey is returned for keys that cannot name a blob.
	ErrInvalidKey = errors.New("cache: invalid key")
)

// ErrUnsupportedVersion indicates a blob written by a newer format version.
type ErrUnsupportedVersion struct {
	Version uint16
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("cache: unsupported format version %d (max %d)", e.Version, formatVersion)
}

// ErrKeyMismatch indicates a stored or saved codebook whose shape differs from its key.
type ErrKeyMismatch struct {
	Key          Key
	VectorDims   int
	CodebookSize int
}

func (e *ErrKeyMismatch) Error() string {
	return fmt.Sprintf("cache: codebook %dx%d does not match key %s", e.CodebookSize, e.VectorDims, e.Key)
}

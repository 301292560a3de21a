package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/vqc/blobstore"
)

const blobSuffix = ".qcb"

// Key identifies a cached codebook.
type Key struct {
	Name         string
	VectorDims   int
	CodebookSize int
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%dd,%d)", k.Name, k.VectorDims, k.CodebookSize)
}

// Validate checks that the key can be turned into a blob name.
func (k Key) Validate() error {
	if k.Name == "" || k.VectorDims <= 0 || k.CodebookSize <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidKey, k)
	}
	if err := blobstore.ValidateName(k.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return nil
}

// BlobName returns "<name>_<dims>d_<size>.qcb".
func (k Key) BlobName() string {
	return fmt.Sprintf("%s_%dd_%d%s", k.Name, k.VectorDims, k.CodebookSize, blobSuffix)
}

// ParseBlobName is the inverse of Key.BlobName. Names may themselves contain
// underscores; the last two fields are the shape.
func ParseBlobName(blob string) (Key, error) {
	base, ok := strings.CutSuffix(blob, blobSuffix)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q has no %s suffix", ErrInvalidKey, blob, blobSuffix)
	}

	sizeAt := strings.LastIndexByte(base, '_')
	if sizeAt <= 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, blob)
	}
	dimsAt := strings.LastIndexByte(base[:sizeAt], '_')
	if dimsAt <= 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, blob)
	}

	dimsField, ok := strings.CutSuffix(base[dimsAt+1:sizeAt], "d")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, blob)
	}
	dims, err := strconv.Atoi(dimsField)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, blob, err)
	}
	size, err := strconv.Atoi(base[sizeAt+1:])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, blob, err)
	}

	k := Key{Name: base[:dimsAt], VectorDims: dims, CodebookSize: size}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

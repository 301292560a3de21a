package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// The value is os.ErrNotExist so file system errors match it directly.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for blob names that are empty or contain a path separator.
var ErrInvalidName = errors.New("blobstore: invalid blob name")

// Store reads and writes whole blobs by name.
type Store interface {
	// Get returns the contents of a blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put writes a blob atomically, replacing any previous version.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ValidateName checks that name is usable as a flat blob name.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

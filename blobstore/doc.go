// Package blobstore stores named, immutable blobs such as persisted codebooks.
//
// Store is the interface every backend implements. Implementations must be
// safe for concurrent use and must report missing blobs with an error
// satisfying errors.Is(err, ErrNotFound).
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system, atomic writes via rename
//   - MemoryStore: in-process map, for tests
//   - TieredStore: a local read-through tier in front of a remote store
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible servers via minio-go
//
// Blob names are flat: they must not contain path separators.
package blobstore

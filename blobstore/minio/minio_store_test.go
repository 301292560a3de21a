package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/vqc/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	ctx := context.Background()

	store, err := Dial(ctx, Config{
		Endpoint:     "localhost:9000",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "test-vqc",
		Prefix:       "test-prefix/",
		CreateBucket: true,
	})
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test_2d_4.qcb", data))

	got, err := store.Get(ctx, "test_2d_4.qcb")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "test_")
	require.NoError(t, err)
	assert.Contains(t, names, "test_2d_4.qcb")

	require.NoError(t, store.Delete(ctx, "test_2d_4.qcb"))

	_, err = store.Get(ctx, "test_2d_4.qcb")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

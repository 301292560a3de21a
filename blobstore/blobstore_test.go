package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing.qcb")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "a_2d_4.qcb", []byte("first")))
	require.NoError(t, store.Put(ctx, "a_2d_8.qcb", []byte("second")))
	require.NoError(t, store.Put(ctx, "b_3d_4.qcb", []byte("third")))

	got, err := store.Get(ctx, "a_2d_4.qcb")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	// overwrite
	require.NoError(t, store.Put(ctx, "a_2d_4.qcb", []byte("replaced")))
	got, err = store.Get(ctx, "a_2d_4.qcb")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got)

	names, err := store.List(ctx, "a_")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_2d_4.qcb", "a_2d_8.qcb"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, names, 3)

	require.NoError(t, store.Delete(ctx, "a_2d_8.qcb"))
	require.NoError(t, store.Delete(ctx, "a_2d_8.qcb"))
	_, err = store.Get(ctx, "a_2d_8.qcb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "codebooks")
	store := NewLocalStore(dir)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)

	testStore(t, store)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), tempPrefix)
	}
}

func TestLocalStore_InvalidName(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "..", "../escape", `a\b`, "dir/file"} {
		assert.ErrorIs(t, store.Put(ctx, name, nil), ErrInvalidName, name)
		_, err := store.Get(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocalStore_Cancelled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "x", []byte("y")), context.Canceled)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_Copies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'z'
	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestTieredStore(t *testing.T) {
	testStore(t, NewTieredStore(NewMemoryStore(), NewMemoryStore()))
}

func TestTieredStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()
	remote := NewMemoryStore()
	require.NoError(t, remote.Put(ctx, "cb.qcb", []byte("remote")))

	store := NewTieredStore(local, remote)

	got, err := store.Get(ctx, "cb.qcb")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), got)

	cached, err := local.Get(ctx, "cb.qcb")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), cached)

	// served locally once filled
	require.NoError(t, remote.Delete(ctx, "cb.qcb"))
	got, err = store.Get(ctx, "cb.qcb")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), got)
}

package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hupe1980/vqc/blobstore"
	"github.com/hupe1980/vqc/quantization"
	"github.com/hupe1980/vqc/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compressibleCodebook has repetitive content so every compressor shrinks it.
func compressibleCodebook(t *testing.T, size, dims int) *quantization.Codebook {
	t.Helper()
	cw := make([][]uint16, size)
	freq := make([]uint64, size)
	for i := range cw {
		cw[i] = make([]uint16, dims)
		for j := range cw[i] {
			cw[i][j] = uint16(i % 4)
		}
		freq[i] = uint64(i % 2)
	}
	cb, err := quantization.NewCodebook(cw, freq)
	require.NoError(t, err)
	return cb
}

func randomCodebook(t *testing.T, size, dims int) *quantization.Codebook {
	t.Helper()
	cb, err := quantization.NewCodebook(util.NewRNG(int64(size)).GenerateRandomVectors(size, dims), nil)
	require.NoError(t, err)
	return cb
}

func TestKey(t *testing.T) {
	k := Key{Name: "plane_r", VectorDims: 4, CodebookSize: 256}
	assert.Equal(t, "plane_r_4d_256.qcb", k.BlobName())

	parsed, err := ParseBlobName(k.BlobName())
	require.NoError(t, err)
	assert.Equal(t, k, parsed)

	for _, bad := range []string{"x.bin", "x_4d.qcb", "x_4_16.qcb", "_4d_16.qcb", "x_d_16.qcb", "x_4d_.qcb", "x_0d_16.qcb"} {
		_, err := ParseBlobName(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}

	assert.ErrorIs(t, Key{Name: "", VectorDims: 1, CodebookSize: 1}.Validate(), ErrInvalidKey)
	assert.ErrorIs(t, Key{Name: "a/b", VectorDims: 1, CodebookSize: 1}.Validate(), ErrInvalidKey)
	assert.ErrorIs(t, Key{Name: "a", VectorDims: 0, CodebookSize: 1}.Validate(), ErrInvalidKey)
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(comp.String(), func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			c, err := New(store, WithCompression(comp))
			require.NoError(t, err)

			cb := compressibleCodebook(t, 256, 8)
			key := Key{Name: "img", VectorDims: 8, CodebookSize: 256}
			require.NoError(t, c.Save(ctx, key, cb))

			blob, err := store.Get(ctx, key.BlobName())
			require.NoError(t, err)
			_, used, err := decodeBlob(blob)
			require.NoError(t, err)
			assert.Equal(t, comp, used)

			got, err := c.Load(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, cb.Codewords(), got.Codewords())
			assert.Equal(t, cb.Frequencies(), got.Frequencies())
		})
	}
}

func TestCache_IncompressibleStoredRaw(t *testing.T) {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i * 97)
	}
	payload, used, err := compress(raw, CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, used)
	assert.Equal(t, raw, payload)
}

func TestCache_NotFound(t *testing.T) {
	c, err := New(blobstore.NewMemoryStore())
	require.NoError(t, err)

	_, err = c.Load(context.Background(), Key{Name: "none", VectorDims: 2, CodebookSize: 4})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_Corrupt(t *testing.T) {
	ctx := context.Background()
	key := Key{Name: "img", VectorDims: 3, CodebookSize: 8}

	tests := []struct {
		name   string
		comp   Compression
		mutate func(b []byte) []byte
		check  func(t *testing.T, err error)
	}{
		{"BadMagic", CompressionNone, func(b []byte) []byte { b[0] = 'X'; return b },
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrCorruptCodebook) }},
		{"Truncated", CompressionNone, func(b []byte) []byte { return b[:10] },
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrCorruptCodebook) }},
		{"Checksum", CompressionNone, func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b },
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrCorruptCodebook) }},
		{"ZstdPayload", CompressionZSTD, func(b []byte) []byte { b[headerSize+4] ^= 0xFF; return b },
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrCorruptCodebook) }},
		{"Version", CompressionNone, func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:6], 9); return b },
			func(t *testing.T, err error) {
				var uv *ErrUnsupportedVersion
				require.True(t, errors.As(err, &uv))
				assert.Equal(t, uint16(9), uv.Version)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			c, err := New(store, WithCompression(tt.comp))
			require.NoError(t, err)

			var cb *quantization.Codebook
			if tt.comp == CompressionNone {
				cb = randomCodebook(t, 8, 3)
			} else {
				cb = compressibleCodebook(t, 8, 3)
			}
			require.NoError(t, c.Save(ctx, key, cb))

			blob, err := store.Get(ctx, key.BlobName())
			require.NoError(t, err)
			require.NoError(t, store.Put(ctx, key.BlobName(), tt.mutate(blob)))

			_, err = c.Load(ctx, key)
			tt.check(t, err)
		})
	}
}

func TestCache_KeyMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	c, err := New(store)
	require.NoError(t, err)

	cb := randomCodebook(t, 4, 2)
	var km *ErrKeyMismatch
	err = c.Save(ctx, Key{Name: "x", VectorDims: 3, CodebookSize: 4}, cb)
	require.True(t, errors.As(err, &km))

	// a blob renamed to a different shape is rejected on load
	require.NoError(t, c.Save(ctx, Key{Name: "x", VectorDims: 2, CodebookSize: 4}, cb))
	blob, err := store.Get(ctx, "x_2d_4.qcb")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "x_2d_8.qcb", blob))

	_, err = c.Load(ctx, Key{Name: "x", VectorDims: 2, CodebookSize: 8})
	assert.True(t, errors.As(err, &km))
}

func TestCache_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	c, err := New(store, WithCompression(CompressionLZ4))
	require.NoError(t, err)

	keys := []Key{
		{Name: "a", VectorDims: 2, CodebookSize: 4},
		{Name: "a", VectorDims: 2, CodebookSize: 8},
		{Name: "b", VectorDims: 2, CodebookSize: 4},
	}
	for _, k := range keys {
		require.NoError(t, c.Save(ctx, k, randomCodebook(t, k.CodebookSize, k.VectorDims)))
	}
	require.NoError(t, store.Put(ctx, "README", []byte("not a codebook")))

	got, err := c.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, keys, got)

	got, err = c.List(ctx, "a_")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, c.Delete(ctx, keys[0]))
	_, err = c.Load(ctx, keys[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_MemoryTier(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	small := randomCodebook(t, 4, 2) // cost 4*(2*2+8) = 48
	c, err := New(store, WithMemoryCapacity(100))
	require.NoError(t, err)

	k1 := Key{Name: "one", VectorDims: 2, CodebookSize: 4}
	k2 := Key{Name: "two", VectorDims: 2, CodebookSize: 4}
	k3 := Key{Name: "three", VectorDims: 2, CodebookSize: 4}

	require.NoError(t, c.Save(ctx, k1, small))
	require.NoError(t, c.Save(ctx, k2, small))
	assert.Equal(t, 2, c.Stats().Entries)
	assert.Equal(t, int64(96), c.Stats().Bytes)

	// k1 becomes most recent, k2 is evicted by k3
	got, err := c.Load(ctx, k1)
	require.NoError(t, err)
	assert.Same(t, small, got)
	require.NoError(t, c.Save(ctx, k3, small))

	_, ok := c.memory.get(k2)
	assert.False(t, ok)
	_, ok = c.memory.get(k1)
	assert.True(t, ok)

	// evicted entries still load from the store
	got, err = c.Load(ctx, k2)
	require.NoError(t, err)
	assert.Equal(t, small.Codewords(), got.Codewords())

	stats := c.Stats()
	assert.Positive(t, stats.Hits)
	assert.Positive(t, stats.Misses)

	require.NoError(t, c.Delete(ctx, k2))
	_, ok = c.memory.get(k2)
	assert.False(t, ok)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(blobstore.NewMemoryStore(), WithCompression(Compression(7)))
	assert.Error(t, err)

	_, err = ParseCompression("brotli")
	assert.Error(t, err)
	c, err := ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZSTD, c)
}

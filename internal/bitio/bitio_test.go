package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	w := NewWriter(4)
	w.WriteBits(0b101, 3)
	w.WriteBit(true)
	w.WriteBits(0b0000_1111, 8)
	assert.Equal(t, 12, w.Len())

	assert.Equal(t, []byte{0b1011_0000, 0b1111_0000}, w.Bytes())
}

func TestWriterMasksHighBits(t *testing.T) {
	w := NewWriter(1)
	w.WriteBits(0xFF, 2)
	w.WriteBits(0, 6)
	assert.Equal(t, []byte{0b1100_0000}, w.Bytes())
}

func TestRoundTrip(t *testing.T) {
	type field struct {
		v uint32
		n uint
	}
	fields := []field{{1, 1}, {0, 1}, {0x1FFFF, 17}, {0xDEADBEEF, 32}, {5, 3}, {0, 0}, {1, 32}}

	w := NewWriter(0)
	for _, f := range fields {
		w.WriteBits(f.v, f.n)
	}
	data := w.Bytes()

	r := NewReader(data)
	for _, f := range fields {
		got, err := r.ReadBits(f.n)
		require.NoError(t, err)
		assert.Equal(t, f.v, got)
	}
	assert.Less(t, r.Remaining(), 8)
}

func TestReaderEOF(t *testing.T) {
	r := NewReader([]byte{0x80})
	bit, err := r.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), bit)

	_, err = r.ReadBits(8)
	assert.ErrorIs(t, err, ErrUnexpectedEOF)

	_, err = r.ReadBits(7)
	require.NoError(t, err)

	_, err = r.ReadBit()
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

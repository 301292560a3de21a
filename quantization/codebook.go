package quantization

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/vqc/internal/conv"
)

// MaxCodebookSize is the largest supported number of codewords.
const MaxCodebookSize = 1 << 16

// Codebook is an immutable, power-of-two sized set of codewords paired with
// the number of training vectors that mapped to each codeword.
//
// Accessors return copies; a Codebook can be shared freely between goroutines.
type Codebook struct {
	dims        int
	codewords   [][]uint16
	frequencies []uint64
}

// NewCodebook creates a codebook from codewords and their frequencies.
// A nil frequency table is treated as all zeros. The inputs are copied.
func NewCodebook(codewords [][]uint16, frequencies []uint64) (*Codebook, error) {
	if !isValidCodebookSize(len(codewords)) {
		return nil, &ErrInvalidCodebookSize{Size: len(codewords)}
	}

	dims := len(codewords[0])
	if dims == 0 {
		return nil, &ErrInvalidDimension{Dimension: 0}
	}

	cw := make([][]uint16, len(codewords))
	for i, c := range codewords {
		if len(c) != dims {
			return nil, &ErrDimensionMismatch{Expected: dims, Actual: len(c), Index: i}
		}
		cw[i] = append([]uint16(nil), c...)
	}

	freq := make([]uint64, len(codewords))
	if frequencies != nil {
		if len(frequencies) != len(codewords) {
			return nil, fmt.Errorf("quantization: frequency table length %d does not match codebook size %d", len(frequencies), len(codewords))
		}
		copy(freq, frequencies)
	}

	return newCodebook(dims, cw, freq), nil
}

// newCodebook takes ownership of its arguments.
func newCodebook(dims int, codewords [][]uint16, frequencies []uint64) *Codebook {
	if frequencies == nil {
		frequencies = make([]uint64, len(codewords))
	}
	return &Codebook{
		dims:        dims,
		codewords:   codewords,
		frequencies: frequencies,
	}
}

// VectorDimensions returns the length of every codeword.
func (c *Codebook) VectorDimensions() int {
	return c.dims
}

// Size returns the number of codewords.
func (c *Codebook) Size() int {
	return len(c.codewords)
}

// Codeword returns a copy of the codeword at index i.
func (c *Codebook) Codeword(i int) []uint16 {
	return append([]uint16(nil), c.codewords[i]...)
}

// Codewords returns a copy of all codewords.
func (c *Codebook) Codewords() [][]uint16 {
	out := make([][]uint16, len(c.codewords))
	for i := range c.codewords {
		out[i] = c.Codeword(i)
	}
	return out
}

// Frequencies returns a copy of the per-codeword occurrence counts.
func (c *Codebook) Frequencies() []uint64 {
	return append([]uint64(nil), c.frequencies...)
}

// Frequency returns the occurrence count of codeword i.
func (c *Codebook) Frequency(i int) uint64 {
	return c.frequencies[i]
}

// TotalFrequency returns the sum of all occurrence counts.
func (c *Codebook) TotalFrequency() uint64 {
	var total uint64
	for _, f := range c.frequencies {
		total += f
	}
	return total
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian): [dims:u32][size:u32][codewords:size*dims u16][frequencies:size u64]
func (c *Codebook) MarshalBinary() ([]byte, error) {
	dims, err := conv.IntToUint32(c.dims)
	if err != nil {
		return nil, err
	}
	size, err := conv.IntToUint32(len(c.codewords))
	if err != nil {
		return nil, err
	}

	b := make([]byte, 8, 8+len(c.codewords)*(2*c.dims+8))
	binary.LittleEndian.PutUint32(b[0:4], dims)
	binary.LittleEndian.PutUint32(b[4:8], size)
	for _, cw := range c.codewords {
		for _, s := range cw {
			b = binary.LittleEndian.AppendUint16(b, s)
		}
	}
	for _, f := range c.frequencies {
		b = binary.LittleEndian.AppendUint64(b, f)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *Codebook) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("%w: header truncated", ErrCorruptCodebook)
	}

	dims, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(data[0:4]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptCodebook, err)
	}
	size, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(data[4:8]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptCodebook, err)
	}
	if dims == 0 {
		return fmt.Errorf("%w: zero dimensions", ErrCorruptCodebook)
	}
	if !isValidCodebookSize(size) {
		return fmt.Errorf("%w: %w", ErrCorruptCodebook, &ErrInvalidCodebookSize{Size: size})
	}

	want := 8 + size*dims*2 + size*8
	if len(data) != want {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptCodebook, want, len(data))
	}

	off := 8
	codewords := make([][]uint16, size)
	for i := range codewords {
		cw := make([]uint16, dims)
		for j := range cw {
			cw[j] = binary.LittleEndian.Uint16(data[off:])
			off += 2
		}
		codewords[i] = cw
	}

	frequencies := make([]uint64, size)
	for i := range frequencies {
		frequencies[i] = binary.LittleEndian.Uint64(data[off:])
		off += 8
	}

	*c = Codebook{dims: dims, codewords: codewords, frequencies: frequencies}
	return nil
}

func isValidCodebookSize(n int) bool {
	return n >= 1 && n <= MaxCodebookSize && n&(n-1) == 0
}

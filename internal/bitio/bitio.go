package bitio

import (
	"errors"
)

// ErrUnexpectedEOF is returned when a read runs past the end of the stream.
var ErrUnexpectedEOF = errors.New("bitio: unexpected end of stream")

// Writer accumulates bits in memory.
type Writer struct {
	buf  []byte
	acc  uint64
	nacc uint
}

// NewWriter creates a writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// WriteBits appends the low n bits of v, most significant first. n must be <= 32.
func (w *Writer) WriteBits(v uint32, n uint) {
	if n == 0 {
		return
	}
	w.acc = w.acc<<n | uint64(v)&(1<<n-1)
	w.nacc += n
	for w.nacc >= 8 {
		w.nacc -= 8
		w.buf = append(w.buf, byte(w.acc>>w.nacc))
	}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(bit bool) {
	if bit {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

// Len returns the number of bits written.
func (w *Writer) Len() int {
	return len(w.buf)*8 + int(w.nacc)
}

// Bytes flushes pending bits, zero padded, and returns the stream.
// The writer must not be used afterwards.
func (w *Writer) Bytes() []byte {
	if w.nacc > 0 {
		w.buf = append(w.buf, byte(w.acc<<(8-w.nacc)))
		w.nacc = 0
		w.acc = 0
	}
	return w.buf
}

// Reader consumes bits from a byte slice.
type Reader struct {
	data []byte
	pos  int // bit offset
}

// NewReader creates a reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (uint32, error) {
	byteIdx := r.pos >> 3
	if byteIdx >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	bit := uint32(r.data[byteIdx]>>(7-uint(r.pos&7))) & 1
	r.pos++
	return bit, nil
}

// ReadBits returns the next n bits, most significant first. n must be <= 32.
func (r *Reader) ReadBits(n uint) (uint32, error) {
	if r.Remaining() < int(n) {
		return 0, ErrUnexpectedEOF
	}
	var v uint32
	for range n {
		bit, _ := r.ReadBit()
		v = v<<1 | bit
	}
	return v, nil
}

// Remaining returns the number of unread bits, padding included.
func (r *Reader) Remaining() int {
	return len(r.data)*8 - r.pos
}

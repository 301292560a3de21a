package vqc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

var streamMagic = [4]byte{'V', 'Q', 'S', 0}

const streamHeaderSize = 8

// Stream is a Huffman-coded sequence of codebook indices.
type Stream struct {
	// Count is the number of coded vectors.
	Count int
	// Data holds the MSB-first coded bits, zero padded to a byte boundary.
	Data []byte
}

// MarshalBinary encodes the stream as [magic "VQS\x00"][count:u32][data].
func (s *Stream) MarshalBinary() ([]byte, error) {
	if s.Count < 0 || uint64(s.Count) > math.MaxUint32 {
		return nil, fmt.Errorf("vqc: stream count %d out of range", s.Count)
	}

	buf := make([]byte, streamHeaderSize+len(s.Data))
	copy(buf, streamMagic[:])
	binary.LittleEndian.PutUint32(buf[4:], uint32(s.Count))
	copy(buf[streamHeaderSize:], s.Data)
	return buf, nil
}

// UnmarshalBinary decodes a stream produced by MarshalBinary.
func (s *Stream) UnmarshalBinary(data []byte) error {
	if len(data) < streamHeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptStream, len(data))
	}
	if !bytes.Equal(data[:4], streamMagic[:]) {
		return fmt.Errorf("%w: bad magic %q", ErrCorruptStream, data[:4])
	}

	s.Count = int(binary.LittleEndian.Uint32(data[4:]))
	s.Data = append([]byte(nil), data[streamHeaderSize:]...)
	return nil
}

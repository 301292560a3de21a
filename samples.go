package vqc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Partition splits a plane into consecutive vectors of dims samples.
// The last vector is zero padded when len(samples) is not a multiple of dims.
func Partition(samples []uint16, dims int) ([][]uint16, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVectorSize, dims)
	}

	n := (len(samples) + dims - 1) / dims
	flat := make([]uint16, n*dims)
	copy(flat, samples)

	vectors := make([][]uint16, n)
	for i := range vectors {
		vectors[i] = flat[i*dims : (i+1)*dims : (i+1)*dims]
	}
	return vectors, nil
}

// Flatten concatenates vectors and truncates the result to n samples,
// undoing the padding added by Partition. A negative n keeps every sample.
func Flatten(vectors [][]uint16, n int) []uint16 {
	total := 0
	for _, v := range vectors {
		total += len(v)
	}

	out := make([]uint16, 0, total)
	for _, v := range vectors {
		out = append(out, v...)
	}
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// ReadSamples reads raw little-endian uint16 samples until EOF.
func ReadSamples(r io.Reader) ([]uint16, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("vqc: odd sample stream length %d", len(raw))
	}

	samples := make([]uint16, len(raw)/2)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return samples, nil
}

// WriteSamples writes samples as raw little-endian uint16 values.
func WriteSamples(w io.Writer, samples []uint16) error {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], s)
	}
	_, err := w.Write(buf)
	return err
}

package quantization

import (
	"encoding/binary"
	"math"
)

// trainingVector is one training sample plus its assignment state for the
// current refinement pass. data is never modified.
type trainingVector struct {
	data  []uint16
	entry int
	dist  float64
}

func newTrainingSet(vectors [][]uint16) []trainingVector {
	set := make([]trainingVector, len(vectors))
	for i, v := range vectors {
		set[i] = trainingVector{data: v}
	}
	return set
}

// validateVectors checks that vectors is non-empty and that all vectors share
// one non-zero length, which it returns.
func validateVectors(vectors [][]uint16) (int, error) {
	if len(vectors) == 0 {
		return 0, ErrEmptyTrainingSet
	}

	dims := len(vectors[0])
	if dims == 0 {
		return 0, &ErrInvalidDimension{Dimension: 0}
	}
	for i, v := range vectors {
		if len(v) != dims {
			return 0, &ErrDimensionMismatch{Expected: dims, Actual: len(v), Index: i}
		}
	}
	return dims, nil
}

func isZeroVector(v []uint16) bool {
	for _, s := range v {
		if s != 0 {
			return false
		}
	}
	return true
}

// distinctVectors returns the distinct vectors in discovery order, stopping as
// soon as limit of them have been found.
func distinctVectors(vectors [][]uint16, limit int) [][]uint16 {
	seen := make(map[string]struct{}, limit)
	var distinct [][]uint16
	buf := make([]byte, 0, 2*len(vectors[0]))

	for _, v := range vectors {
		buf = buf[:0]
		for _, s := range v {
			buf = binary.LittleEndian.AppendUint16(buf, s)
		}
		if _, ok := seen[string(buf)]; ok {
			continue
		}
		seen[string(buf)] = struct{}{}
		distinct = append(distinct, v)
		if len(distinct) >= limit {
			break
		}
	}
	return distinct
}

// PSNR returns the peak signal-to-noise ratio in dB of a 16-bit signal with
// the given mean squared error. It is +Inf for an exact reconstruction.
func PSNR(mse float64) float64 {
	if mse <= 0 {
		return math.Inf(1)
	}
	const peak = float64(math.MaxUint16)
	return 10 * math.Log10(peak*peak/mse)
}

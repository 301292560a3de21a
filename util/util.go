package util

import (
	"math"
	"math/rand"
)

// RNG struct encapsulates the random number generator and seed.
// It satisfies quantization.Rand, so the same seeded source can drive both
// test-data generation and training.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0, n).
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}

// GenerateRandomVectors generates vectors with samples uniform over the full 16-bit range.
func (r *RNG) GenerateRandomVectors(num int, dimensions int) [][]uint16 {
	vectors := make([][]uint16, num)
	for i := range vectors {
		vectors[i] = make([]uint16, dimensions)
		for j := range vectors[i] {
			vectors[i][j] = uint16(r.rand.Intn(math.MaxUint16 + 1))
		}
	}

	return vectors
}

// GenerateClusters generates perCluster vectors around each center, every sample
// offset from its center by at most jitter and clamped to the 16-bit range.
// Vectors are emitted cluster by cluster.
func (r *RNG) GenerateClusters(centers [][]uint16, perCluster int, jitter int) [][]uint16 {
	vectors := make([][]uint16, 0, len(centers)*perCluster)
	for _, c := range centers {
		for range perCluster {
			v := make([]uint16, len(c))
			for j, s := range c {
				off := 0
				if jitter > 0 {
					off = r.rand.Intn(2*jitter+1) - jitter
				}
				v[j] = clamp16(int(s) + off)
			}
			vectors = append(vectors, v)
		}
	}

	return vectors
}

// Repeat returns n independent copies of v.
func Repeat(v []uint16, n int) [][]uint16 {
	vectors := make([][]uint16, n)
	for i := range vectors {
		vectors[i] = append([]uint16(nil), v...)
	}
	return vectors
}

func clamp16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

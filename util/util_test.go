package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.GenerateRandomVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.Equal(t, int64(4711), rng.Seed())

	again := NewRNG(4711).GenerateRandomVectors(8, 32)
	assert.Equal(t, v, again)
}

func TestGenerateClusters(t *testing.T) {
	rng := NewRNG(1)
	centers := [][]uint16{{0, 0, 0}, {60000, 60000, 60000}}

	v := rng.GenerateClusters(centers, 50, 10)
	require.Len(t, v, 100)

	for i, vec := range v {
		c := centers[i/50]
		for j, s := range vec {
			assert.InDelta(t, float64(c[j]), float64(s), 10)
		}
	}
}

func TestGenerateClusters_Clamp(t *testing.T) {
	rng := NewRNG(2)
	v := rng.GenerateClusters([][]uint16{{65535, 0}}, 200, 100)
	for _, vec := range v {
		assert.GreaterOrEqual(t, vec[0], uint16(65435))
		assert.LessOrEqual(t, vec[1], uint16(100))
	}
}

func TestRepeat(t *testing.T) {
	v := Repeat([]uint16{5, 5}, 3)
	require.Len(t, v, 3)
	v[0][0] = 9
	assert.Equal(t, []uint16{5, 5}, v[1])
}

package quantization

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/hupe1980/vqc/distance"
	"github.com/hupe1980/vqc/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCodebook(t *testing.T, codewords [][]uint16) *Codebook {
	t.Helper()
	cb, err := NewCodebook(codewords, nil)
	require.NoError(t, err)
	return cb
}

func TestQuantizer_LowestIndexWinsTies(t *testing.T) {
	q, err := NewQuantizer(mustCodebook(t, scalars(4, 6, 6, 20)))
	require.NoError(t, err)

	tests := []struct {
		in   uint16
		want int
	}{
		{5, 0},
		{6, 1},
		{7, 1},
		{13, 1},
		{14, 3},
		{65535, 3},
	}
	for _, tt := range tests {
		got, err := q.QuantizeToIndex([]uint16{tt.in})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %d", tt.in)
	}
}

func TestQuantizer_Metrics(t *testing.T) {
	cb := mustCodebook(t, [][]uint16{{0, 0}, {3, 3}})
	in := []uint16{4, 0}

	tests := []struct {
		metric distance.Metric
		want   int
	}{
		{distance.MetricEuclidean, 1},
		{distance.MetricManhattan, 0},
		{distance.MetricMaxDiff, 1},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			q, err := NewQuantizer(cb, WithMetric(tt.metric))
			require.NoError(t, err)

			got, err := q.QuantizeToIndex(in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			cw, err := q.Quantize(in)
			require.NoError(t, err)
			assert.Equal(t, cb.Codeword(tt.want), cw)
		})
	}
}

func TestQuantizer_DimensionMismatch(t *testing.T) {
	q, err := NewQuantizer(mustCodebook(t, [][]uint16{{1, 2}, {3, 4}}))
	require.NoError(t, err)

	_, err = q.QuantizeToIndex([]uint16{1})
	var dm *ErrDimensionMismatch
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 1, dm.Actual)

	_, err = q.QuantizeIndices(context.Background(), [][]uint16{{1, 2}, {1, 2}, {1, 2, 3}})
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Index)
}

func TestQuantizer_BatchMatchesSequential(t *testing.T) {
	ctx := context.Background()
	rng := util.NewRNG(21)
	cb := mustCodebook(t, rng.GenerateRandomVectors(64, 4))
	vectors := rng.GenerateRandomVectors(5000, 4)

	seq, err := NewQuantizer(cb, WithWorkers(1))
	require.NoError(t, err)

	want := make([]int, len(vectors))
	for i, v := range vectors {
		want[i], err = seq.QuantizeToIndex(v)
		require.NoError(t, err)
	}

	for _, workers := range []int{1, 3, 8, 64} {
		q, err := NewQuantizer(cb, WithWorkers(workers))
		require.NoError(t, err)

		got, err := q.QuantizeIndices(ctx, vectors)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers %d", workers)

		batch, err := q.QuantizeBatch(ctx, vectors)
		require.NoError(t, err)
		for i := range batch {
			require.Equal(t, cb.Codeword(want[i]), batch[i])
		}
	}
}

func TestQuantizer_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	rng := util.NewRNG(8)
	q, err := NewQuantizer(mustCodebook(t, rng.GenerateRandomVectors(16, 3)), WithWorkers(2))
	require.NoError(t, err)
	vectors := rng.GenerateRandomVectors(2000, 3)

	want, err := q.QuantizeIndices(ctx, vectors)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := q.QuantizeIndices(ctx, vectors)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestQuantizer_Empty(t *testing.T) {
	q, err := NewQuantizer(mustCodebook(t, scalars(1, 2)))
	require.NoError(t, err)

	got, err := q.QuantizeIndices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = q.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)
}

func TestEvaluate(t *testing.T) {
	cb := mustCodebook(t, scalars(0, 10))

	ev, err := Evaluate(context.Background(), cb, scalars(1, 9, 10, 10))
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 3}, ev.Frequencies)
	assert.InDelta(t, 0.5, ev.MSE, 1e-12)
	assert.InDelta(t, 10*math.Log10(65535.0*65535.0/0.5), ev.PSNR, 1e-9)
}

func TestEvaluate_MultiDimensional(t *testing.T) {
	cb := mustCodebook(t, [][]uint16{{0, 0}, {100, 100}})

	// squared error 4 + 0 over 2 vectors of 2 samples
	ev, err := Evaluate(context.Background(), cb, [][]uint16{{2, 0}, {100, 100}}, WithWorkers(2))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ev.MSE, 1e-12)
}

func TestPSNR(t *testing.T) {
	assert.True(t, math.IsInf(PSNR(0), 1))
	assert.InDelta(t, 0.0, PSNR(65535.0*65535.0), 1e-9)
	assert.Greater(t, PSNR(1), PSNR(2))
}

package quantization

import (
	"context"
	"math"

	"github.com/hupe1980/vqc/distance"
	"github.com/hupe1980/vqc/internal/parallel"
)

// cancelCheckInterval is how many vectors a worker processes between context checks.
const cancelCheckInterval = 1024

// Quantizer maps vectors to their nearest codeword of a trained codebook.
// It is safe for concurrent use.
type Quantizer struct {
	codebook  *Codebook
	codewords [][]uint16
	dims      int
	dist      distance.Func
	workers   int
}

// NewQuantizer creates a quantizer for cb. WithMetric must match the metric
// the codebook was trained with; WithWorkers sets batch parallelism.
func NewQuantizer(cb *Codebook, opts ...Option) (*Quantizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	fn, err := distance.Provider(o.metric)
	if err != nil {
		return nil, err
	}

	q := newQuantizer(cb.codewords, fn, o.workers)
	q.codebook = cb
	return q, nil
}

func newQuantizer(codewords [][]uint16, fn distance.Func, workers int) *Quantizer {
	return &Quantizer{
		codewords: codewords,
		dims:      len(codewords[0]),
		dist:      fn,
		workers:   workers,
	}
}

// Codebook returns the codebook the quantizer applies.
func (q *Quantizer) Codebook() *Codebook {
	return q.codebook
}

// nearest scans all codewords and returns the index and distance of the
// closest one. Ties keep the lowest index.
func (q *Quantizer) nearest(v []uint16) (int, float64) {
	best := 0
	minDist := math.Inf(1)
	for i, cw := range q.codewords {
		d := q.dist(v, cw)
		if d < minDist {
			minDist = d
			best = i
		}
	}
	return best, minDist
}

func (q *Quantizer) checkDims(v []uint16, index int) error {
	if len(v) != q.dims {
		return &ErrDimensionMismatch{Expected: q.dims, Actual: len(v), Index: index}
	}
	return nil
}

// QuantizeToIndex returns the index of the codeword nearest to v.
func (q *Quantizer) QuantizeToIndex(v []uint16) (int, error) {
	if err := q.checkDims(v, 0); err != nil {
		return 0, err
	}
	idx, _ := q.nearest(v)
	return idx, nil
}

// Quantize returns a copy of the codeword nearest to v.
func (q *Quantizer) Quantize(v []uint16) ([]uint16, error) {
	idx, err := q.QuantizeToIndex(v)
	if err != nil {
		return nil, err
	}
	return append([]uint16(nil), q.codewords[idx]...), nil
}

// QuantizeIndices returns the nearest codeword index for every vector.
func (q *Quantizer) QuantizeIndices(ctx context.Context, vectors [][]uint16) ([]int, error) {
	indices := make([]int, len(vectors))
	err := parallel.ForEach(ctx, len(vectors), q.workers, func(ctx context.Context, r parallel.Range) error {
		for i := r.Start; i < r.End; i++ {
			if (i-r.Start)%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := q.checkDims(vectors[i], i); err != nil {
				return err
			}
			indices[i], _ = q.nearest(vectors[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return indices, nil
}

// QuantizeBatch returns the nearest codeword for every vector. The returned
// vectors alias the quantizer's codewords and must not be modified.
func (q *Quantizer) QuantizeBatch(ctx context.Context, vectors [][]uint16) ([][]uint16, error) {
	indices, err := q.QuantizeIndices(ctx, vectors)
	if err != nil {
		return nil, err
	}
	out := make([][]uint16, len(indices))
	for i, idx := range indices {
		out[i] = q.codewords[idx]
	}
	return out, nil
}

// Evaluation summarizes how well a codebook represents a vector set.
type Evaluation struct {
	// MSE is the mean squared error per sample.
	MSE float64
	// PSNR is 10·log10(65535²/MSE) in dB.
	PSNR float64
	// Frequencies counts the vectors mapped to each codeword.
	Frequencies []uint64
}

type evalPart struct {
	freq  []uint64
	sqErr float64
}

// Evaluate quantizes vectors against the codebook and reports the
// reconstruction error and codeword usage.
func (q *Quantizer) Evaluate(ctx context.Context, vectors [][]uint16) (*Evaluation, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	total, err := parallel.MapReduce(ctx, len(vectors), q.workers,
		func(ctx context.Context, r parallel.Range) (evalPart, error) {
			part := evalPart{freq: make([]uint64, len(q.codewords))}
			for i := r.Start; i < r.End; i++ {
				if (i-r.Start)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return part, err
					}
				}
				v := vectors[i]
				if err := q.checkDims(v, i); err != nil {
					return part, err
				}
				idx, _ := q.nearest(v)
				part.freq[idx]++
				part.sqErr += distance.SquaredEuclidean(v, q.codewords[idx])
			}
			return part, nil
		},
		evalPart{freq: make([]uint64, len(q.codewords))},
		func(acc, part evalPart) evalPart {
			for i, f := range part.freq {
				acc.freq[i] += f
			}
			acc.sqErr += part.sqErr
			return acc
		})
	if err != nil {
		return nil, err
	}

	mse := total.sqErr / float64(len(vectors)*q.dims)
	return &Evaluation{
		MSE:         mse,
		PSNR:        PSNR(mse),
		Frequencies: total.freq,
	}, nil
}

// Evaluate quantizes vectors against cb. It is shorthand for NewQuantizer
// followed by Quantizer.Evaluate.
func Evaluate(ctx context.Context, cb *Codebook, vectors [][]uint16, opts ...Option) (*Evaluation, error) {
	q, err := NewQuantizer(cb, opts...)
	if err != nil {
		return nil, err
	}
	return q.Evaluate(ctx, vectors)
}

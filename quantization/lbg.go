package quantization

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/vqc/distance"
)

// Result is the outcome of a training call.
type Result struct {
	Codebook *Codebook
	// MSE is the mean squared error per sample of the training set against Codebook.
	MSE float64
	// PSNR is 10·log10(65535²/MSE) in dB.
	PSNR float64
	// Iterations counts the accepted refinement iterations over all passes.
	Iterations int
}

// Learner trains codebooks with the LBG algorithm.
// A Learner is safe for concurrent use. Concurrent Train calls draw from one
// shared random source, so a seeded Learner only reproduces its results when
// calls do not overlap.
type Learner struct {
	opts options
	dist distance.Func
}

// NewLearner creates a learner.
func NewLearner(opts ...Option) (*Learner, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	if _, ok := o.rand.(globalRand); !ok {
		o.rand = &lockedRand{r: o.rand}
	}

	fn, _ := distance.Provider(o.metric)
	return &Learner{opts: o, dist: fn}, nil
}

// Train trains a codebook of codebookSize entries from vectors. It is
// shorthand for NewLearner followed by Learner.Train.
func Train(ctx context.Context, vectors [][]uint16, codebookSize int, opts ...Option) (*Result, error) {
	l, err := NewLearner(opts...)
	if err != nil {
		return nil, err
	}
	return l.Train(ctx, vectors, codebookSize)
}

// Train trains a codebook of codebookSize entries from vectors.
//
// vectors must be non-empty and of equal, non-zero length; codebookSize must
// be a power of two. The vectors are read but never modified.
func (l *Learner) Train(ctx context.Context, vectors [][]uint16, codebookSize int) (*Result, error) {
	dims, err := validateVectors(vectors)
	if err != nil {
		return nil, err
	}
	if !isValidCodebookSize(codebookSize) {
		return nil, &ErrInvalidCodebookSize{Size: codebookSize}
	}

	t := &training{
		Learner: l,
		vectors: newTrainingSet(vectors),
		dims:    dims,
		size:    codebookSize,
	}

	if distinct := distinctVectors(vectors, codebookSize); len(distinct) < codebookSize {
		return t.fromDistinct(ctx, vectors, distinct)
	}

	entries, err := t.initialize(ctx)
	if err != nil {
		return nil, err
	}

	for len(entries) < codebookSize {
		entries = t.split(entries)
		t.emit(Event{
			Kind:         EventSplit,
			CodebookSize: len(entries),
			Entry:        -1,
			Message:      fmt.Sprintf("split codebook to %d entries", len(entries)),
		})

		if entries, err = t.refine(ctx, entries, l.opts.epsilon/10); err != nil {
			return nil, err
		}
	}

	if entries, err = t.refine(ctx, entries, l.opts.epsilon); err != nil {
		return nil, err
	}

	return t.finish(ctx, vectors, centroids(entries))
}

// training is the state of one Train call.
type training struct {
	*Learner
	vectors    []trainingVector
	dims       int
	size       int
	pass       int
	iterations int
}

func (t *training) emit(e Event) {
	t.opts.listener.OnEvent(e)
}

// fromDistinct builds the codebook directly from the distinct vectors,
// padding the remaining slots with zero vectors.
func (t *training) fromDistinct(ctx context.Context, vectors, distinct [][]uint16) (*Result, error) {
	codewords := make([][]uint16, t.size)
	for i := range codewords {
		if i < len(distinct) {
			codewords[i] = append([]uint16(nil), distinct[i]...)
		} else {
			codewords[i] = make([]uint16, t.dims)
		}
	}

	t.emit(Event{
		Kind:         EventDistinct,
		CodebookSize: t.size,
		Entry:        -1,
		Message:      fmt.Sprintf("only %d distinct vectors for %d codewords, skipping LBG", len(distinct), t.size),
	})

	return t.finish(ctx, vectors, codewords)
}

// finish evaluates the final codewords against the training set to produce
// frequencies, MSE and PSNR.
func (t *training) finish(ctx context.Context, vectors, codewords [][]uint16) (*Result, error) {
	q := newQuantizer(codewords, t.dist, t.opts.workers)
	ev, err := q.Evaluate(ctx, vectors)
	if err != nil {
		return nil, err
	}

	return &Result{
		Codebook:   newCodebook(t.dims, codewords, ev.Frequencies),
		MSE:        ev.MSE,
		PSNR:       ev.PSNR,
		Iterations: t.iterations,
	}, nil
}

// initialize returns the one-entry codebook whose centroid is the mean of all
// vectors and whose perturbation spans the whole training set.
func (t *training) initialize(ctx context.Context) ([]learningEntry, error) {
	entries := []learningEntry{newLearningEntry(make([]uint16, t.dims))}
	infos, err := t.assign(ctx, entries)
	if err != nil {
		return nil, err
	}
	entries[0].update(&infos[0])
	return entries, nil
}

// split doubles the codebook. Zero-vector entries are kept unchanged with a
// sibling at the floored perturbation; entries whose perturbation would not
// separate two integer children are kept with a random sibling; all others
// split into centroid-perturbation and centroid+perturbation.
func (t *training) split(entries []learningEntry) []learningEntry {
	next := make([]learningEntry, 0, 2*len(entries))
	for i := range entries {
		e := &entries[i]
		switch {
		case isZeroVector(e.centroid):
			next = append(next, e.clone(), newLearningEntry(e.floorPerturbation()))
		case e.degenerate():
			next = append(next, e.clone(), newLearningEntry(t.randomVector()))
		default:
			next = append(next, newLearningEntry(e.offset(-1)), newLearningEntry(e.offset(1)))
		}
	}
	return next
}

func (t *training) randomVector() []uint16 {
	v := make([]uint16, t.dims)
	for i := range v {
		v[i] = uint16(t.opts.rand.Intn(math.MaxUint16 + 1))
	}
	return v
}

package vqc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/vqc/cache"
	"github.com/hupe1980/vqc/huffman"
	"github.com/hupe1980/vqc/quantization"
)

// Compressor trains codebooks and codes vector streams against them.
// A Compressor is safe for concurrent use. Overlapping Train calls share the
// learner's random source, so seeded training is only reproducible when calls
// run one at a time.
type Compressor struct {
	opts    options
	learner *quantization.Learner
}

// TrainResult is the outcome of Compressor.Train.
type TrainResult struct {
	Codebook *quantization.Codebook
	// MSE is the mean squared error per sample of the given vectors.
	MSE float64
	// PSNR in dB; +Inf when MSE is zero.
	PSNR float64
	// Iterations is the number of refinement iterations; zero for cached codebooks.
	Iterations int
	// Cached reports that the codebook was loaded from the cache.
	Cached bool
}

// New creates a Compressor.
func New(optFns ...Option) (*Compressor, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	learnerOpts := append([]quantization.Option{
		quantization.WithMetric(opts.metric),
		quantization.WithWorkers(opts.workers),
		quantization.WithListener(opts.logger.StatusListener()),
	}, opts.learnerOptions...)

	learner, err := quantization.NewLearner(learnerOpts...)
	if err != nil {
		return nil, err
	}

	return &Compressor{opts: opts, learner: learner}, nil
}

// Train returns a codebook of codebookSize entries for vectors.
//
// With a cache configured, the codebook stored under name, the vector size
// and codebookSize is used when present and the MSE is measured on vectors.
// Otherwise a new codebook is trained and saved. Cache entries that fail to
// decode are logged and replaced.
func (c *Compressor) Train(ctx context.Context, name string, vectors [][]uint16, codebookSize int) (*TrainResult, error) {
	start := time.Now()
	res, err := c.train(ctx, name, vectors, codebookSize)

	psnr := 0.0
	if res != nil {
		psnr = res.PSNR
	}
	c.opts.metricsCollector.RecordTrain(codebookSize, psnr, time.Since(start), err)
	c.opts.logger.LogTrain(ctx, name, res, err)
	return res, err
}

func (c *Compressor) train(ctx context.Context, name string, vectors [][]uint16, codebookSize int) (*TrainResult, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	key := cache.Key{Name: name, VectorDims: len(vectors[0]), CodebookSize: codebookSize}
	if c.opts.cache != nil {
		res, err := c.trainFromCache(ctx, key, vectors)
		if err == nil {
			return res, nil
		}
		if !isCacheMiss(err) {
			return nil, err
		}
	}

	r, err := c.learner.Train(ctx, vectors, codebookSize)
	if err != nil {
		return nil, err
	}

	if c.opts.cache != nil {
		if err := c.opts.cache.Save(ctx, key, r.Codebook); err != nil {
			c.opts.logger.LogCache(ctx, "save", key.String(), false, err)
		}
	}

	return &TrainResult{
		Codebook:   r.Codebook,
		MSE:        r.MSE,
		PSNR:       r.PSNR,
		Iterations: r.Iterations,
	}, nil
}

func (c *Compressor) trainFromCache(ctx context.Context, key cache.Key, vectors [][]uint16) (*TrainResult, error) {
	cb, err := c.opts.cache.Load(ctx, key)
	c.opts.metricsCollector.RecordCache(err == nil)
	c.opts.logger.LogCache(ctx, "load", key.String(), err == nil, ignoreNotFound(err))
	if err != nil {
		return nil, err
	}

	ev, err := c.evaluate(ctx, cb, vectors)
	if err != nil {
		return nil, err
	}

	return &TrainResult{
		Codebook: cb,
		MSE:      ev.MSE,
		PSNR:     ev.PSNR,
		Cached:   true,
	}, nil
}

// isCacheMiss reports whether a cache error should fall through to training.
func isCacheMiss(err error) bool {
	var unsupported *cache.ErrUnsupportedVersion
	var mismatch *cache.ErrKeyMismatch
	return errors.Is(err, cache.ErrNotFound) ||
		errors.Is(err, cache.ErrCorruptCodebook) ||
		errors.As(err, &unsupported) ||
		errors.As(err, &mismatch)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	return err
}

// Evaluate reports the reconstruction error of vectors against cb.
func (c *Compressor) Evaluate(ctx context.Context, cb *quantization.Codebook, vectors [][]uint16) (*quantization.Evaluation, error) {
	return c.evaluate(ctx, cb, vectors)
}

func (c *Compressor) evaluate(ctx context.Context, cb *quantization.Codebook, vectors [][]uint16) (*quantization.Evaluation, error) {
	q, err := c.quantizer(cb)
	if err != nil {
		return nil, err
	}
	return q.Evaluate(ctx, vectors)
}

func (c *Compressor) quantizer(cb *quantization.Codebook) (*quantization.Quantizer, error) {
	return quantization.NewQuantizer(cb,
		quantization.WithMetric(c.opts.metric),
		quantization.WithWorkers(c.opts.workers),
	)
}

// Encode quantizes vectors against cb and Huffman codes the indices.
func (c *Compressor) Encode(ctx context.Context, cb *quantization.Codebook, vectors [][]uint16) (*Stream, error) {
	start := time.Now()
	stream, err := c.encode(ctx, cb, vectors)
	c.opts.metricsCollector.RecordQuantize(len(vectors), time.Since(start), err)

	n := 0
	if stream != nil {
		n = len(stream.Data)
	}
	c.opts.logger.LogEncode(ctx, len(vectors), n, err)
	return stream, err
}

func (c *Compressor) encode(ctx context.Context, cb *quantization.Codebook, vectors [][]uint16) (*Stream, error) {
	if cb == nil {
		return nil, errors.New("vqc: nil codebook")
	}

	q, err := c.quantizer(cb)
	if err != nil {
		return nil, err
	}

	indices, err := q.QuantizeIndices(ctx, vectors)
	if err != nil {
		return nil, err
	}

	code, err := indexCode(cb)
	if err != nil {
		return nil, err
	}

	data, err := code.Encode(indices)
	if err != nil {
		return nil, err
	}

	return &Stream{Count: len(indices), Data: data}, nil
}

// Decode reconstructs the vectors of a stream produced by Encode with the
// same codebook. The returned vectors are copies of codewords.
func (c *Compressor) Decode(cb *quantization.Codebook, stream *Stream) ([][]uint16, error) {
	vectors, err := c.decode(cb, stream)

	n := 0
	if stream != nil {
		n = stream.Count
	}
	c.opts.logger.LogDecode(context.Background(), n, err)
	return vectors, err
}

func (c *Compressor) decode(cb *quantization.Codebook, stream *Stream) ([][]uint16, error) {
	if cb == nil {
		return nil, errors.New("vqc: nil codebook")
	}
	if stream == nil || stream.Count < 0 {
		return nil, fmt.Errorf("%w: invalid stream", ErrCorruptStream)
	}

	code, err := indexCode(cb)
	if err != nil {
		return nil, err
	}

	indices, err := code.Decode(stream.Data, stream.Count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}

	vectors := make([][]uint16, len(indices))
	for i, idx := range indices {
		vectors[i] = cb.Codeword(idx)
	}
	return vectors, nil
}

// indexCode builds the Huffman code for cb's indices. Every frequency is
// incremented by one so indices unseen during training stay encodable.
func indexCode(cb *quantization.Codebook) (*huffman.Code, error) {
	freqs := cb.Frequencies()
	for i, f := range freqs {
		if f < ^uint64(0) {
			freqs[i] = f + 1
		}
	}
	return huffman.New(freqs)
}

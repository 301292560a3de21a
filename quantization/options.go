package quantization

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/vqc/distance"
)

const (
	// DefaultEpsilon is the relative distortion improvement below which a
	// refinement loop at the target codebook size stops. Intermediate sizes use
	// DefaultEpsilon/10.
	DefaultEpsilon = 0.005

	// DefaultMaxIterations bounds a single refinement loop.
	DefaultMaxIterations = 1000
)

// Rand is the random source used for entry repair and degenerate splits.
// *rand.Rand and util.RNG satisfy it.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) } // nolint gosec

// lockedRand serializes access to a source shared by concurrent training calls.
type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

type options struct {
	metric        distance.Metric
	workers       int
	epsilon       float64
	maxIterations int
	rand          Rand
	listener      StatusListener
}

func defaultOptions() options {
	return options{
		metric:        distance.MetricEuclidean,
		epsilon:       DefaultEpsilon,
		maxIterations: DefaultMaxIterations,
		rand:          globalRand{},
		listener:      noopListener{},
	}
}

// Option configures a Learner or a Quantizer.
type Option func(*options)

// WithMetric sets the distance metric used for nearest-codeword search.
// Defaults to distance.MetricEuclidean.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers sets the number of goroutines used for assignment passes and
// batch quantization. Values <= 0 use runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithEpsilon sets the convergence threshold of the refinement loop.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		o.epsilon = eps
	}
}

// WithMaxIterations bounds each refinement loop. Values <= 0 keep the default.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithRand injects the random source. A nil source keeps the default, which
// draws from the math/rand global generator.
func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithSeed uses a deterministic random source seeded with seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rand = rand.New(rand.NewSource(seed)) // nolint gosec
	}
}

// WithListener registers a listener for training progress events.
func WithListener(l StatusListener) Option {
	return func(o *options) {
		if l == nil {
			l = noopListener{}
		}
		o.listener = l
	}
}

func (o *options) validate() error {
	if math.IsNaN(o.epsilon) || o.epsilon < 0 {
		return ErrInvalidEpsilon
	}
	_, err := distance.Provider(o.metric)
	return err
}

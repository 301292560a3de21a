package vqc

import (
	"github.com/hupe1980/vqc/cache"
	"github.com/hupe1980/vqc/distance"
	"github.com/hupe1980/vqc/quantization"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	cache            *cache.Cache
	metric           distance.Metric
	workers          int
	learnerOptions   []quantization.Option
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		metric:           distance.MetricEuclidean,
	}
}

// Option configures a Compressor.
type Option func(*options)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. A nil collector disables metrics.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithCache enables the codebook cache for Train.
func WithCache(c *cache.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithMetric sets the distance metric for training and quantization.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers sets the number of goroutines for training and quantization.
// Values <= 0 use runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLearnerOptions passes extra options to the LBG learner, e.g.
// quantization.WithEpsilon or quantization.WithSeed. They are applied after
// the compressor's own metric, worker and listener settings.
func WithLearnerOptions(opts ...quantization.Option) Option {
	return func(o *options) {
		o.learnerOptions = append(o.learnerOptions, opts...)
	}
}

package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vqc"

// PrometheusCollector records compressor operations as Prometheus metrics.
type PrometheusCollector struct {
	trainTotal       *prometheus.CounterVec
	trainDuration    *prometheus.HistogramVec
	trainPSNR        *prometheus.GaugeVec
	quantizeTotal    *prometheus.CounterVec
	quantizeVectors  prometheus.Counter
	quantizeDuration prometheus.Histogram
	cacheLookups     *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector and registers its metrics with
// reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &PrometheusCollector{
		trainTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "train_total",
			Help:      "Number of codebook training runs by result.",
		}, []string{"result"}),
		trainDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "train_duration_seconds",
			Help:      "Duration of codebook training runs.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"codebook_size"}),
		trainPSNR: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "train_psnr_db",
			Help:      "PSNR of the most recently trained codebook.",
		}, []string{"codebook_size"}),
		quantizeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quantize_total",
			Help:      "Number of batch quantization calls by result.",
		}, []string{"result"}),
		quantizeVectors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quantize_vectors_total",
			Help:      "Number of vectors quantized.",
		}),
		quantizeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quantize_duration_seconds",
			Help:      "Duration of batch quantization calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Codebook cache lookups by outcome.",
		}, []string{"outcome"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordTrain records one training run.
func (p *PrometheusCollector) RecordTrain(codebookSize int, psnr float64, duration time.Duration, err error) {
	p.trainTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	size := strconv.Itoa(codebookSize)
	p.trainDuration.WithLabelValues(size).Observe(duration.Seconds())
	p.trainPSNR.WithLabelValues(size).Set(psnr)
}

// RecordQuantize records one batch quantization of count vectors.
func (p *PrometheusCollector) RecordQuantize(count int, duration time.Duration, err error) {
	p.quantizeTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	p.quantizeVectors.Add(float64(count))
	p.quantizeDuration.Observe(duration.Seconds())
}

// RecordCache records a codebook cache lookup.
func (p *PrometheusCollector) RecordCache(hit bool) {
	if hit {
		p.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		p.cacheLookups.WithLabelValues("miss").Inc()
	}
}

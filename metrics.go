package vqc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the metric
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordTrain is called after each Train call. psnr is only meaningful
	// when err is nil.
	RecordTrain(codebookSize int, psnr float64, duration time.Duration, err error)

	// RecordQuantize is called after each batch quantization of count vectors.
	RecordQuantize(count int, duration time.Duration, err error)

	// RecordCache is called after each codebook cache lookup.
	RecordCache(hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrain(int, float64, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuantize(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordCache(bool)                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrainCount         atomic.Int64
	TrainErrors        atomic.Int64
	TrainTotalNanos    atomic.Int64
	QuantizeCount      atomic.Int64
	QuantizeErrors     atomic.Int64
	QuantizeVectors    atomic.Int64
	QuantizeTotalNanos atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(_ int, _ float64, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordQuantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantize(count int, duration time.Duration, err error) {
	b.QuantizeCount.Add(1)
	b.QuantizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantizeErrors.Add(1)
		return
	}
	b.QuantizeVectors.Add(int64(count))
}

// RecordCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCache(hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrainCount:       b.TrainCount.Load(),
		TrainErrors:      b.TrainErrors.Load(),
		TrainAvgNanos:    avg(b.TrainTotalNanos.Load(), b.TrainCount.Load()),
		QuantizeCount:    b.QuantizeCount.Load(),
		QuantizeErrors:   b.QuantizeErrors.Load(),
		QuantizeVectors:  b.QuantizeVectors.Load(),
		QuantizeAvgNanos: avg(b.QuantizeTotalNanos.Load(), b.QuantizeCount.Load()),
		CacheHits:        b.CacheHits.Load(),
		CacheMisses:      b.CacheMisses.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrainCount       int64
	TrainErrors      int64
	TrainAvgNanos    int64
	QuantizeCount    int64
	QuantizeErrors   int64
	QuantizeVectors  int64
	QuantizeAvgNanos int64
	CacheHits        int64
	CacheMisses      int64
}

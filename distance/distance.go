package distance

import (
	"fmt"
	"math"
	"strings"
)

// Euclidean calculates the Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []uint16) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SquaredEuclidean calculates the squared Euclidean distance between two vectors.
func SquaredEuclidean(a, b []uint16) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Manhattan calculates the sum of absolute differences between two vectors.
func Manhattan(a, b []uint16) float64 {
	var sum float64
	for i := range a {
		sum += absDiff(a[i], b[i])
	}
	return sum
}

// MaxDiff returns the largest absolute per-dimension difference.
func MaxDiff(a, b []uint16) float64 {
	var m float64
	for i := range a {
		if d := absDiff(a[i], b[i]); d > m {
			m = d
		}
	}
	return m
}

func absDiff(x, y uint16) float64 {
	if x > y {
		return float64(x - y)
	}
	return float64(y - x)
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricManhattan
	MetricMaxDiff
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricManhattan:
		return "Manhattan"
	case MetricMaxDiff:
		return "MaxDiff"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric resolves a metric by its case-insensitive name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "euclidean", "l2":
		return MetricEuclidean, nil
	case "manhattan", "l1":
		return MetricManhattan, nil
	case "maxdiff", "max", "chebyshev":
		return MetricMaxDiff, nil
	default:
		return 0, fmt.Errorf("unknown metric: %q", name)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []uint16) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, nil
	case MetricManhattan:
		return Manhattan, nil
	case MetricMaxDiff:
		return MaxDiff, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

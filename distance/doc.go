// Package distance provides distance calculations between 16-bit sample vectors.
//
// All functions accumulate in float64, so squared differences of full-range
// uint16 samples cannot overflow regardless of dimensionality.
//
// # Supported Metrics
//
//   - MetricEuclidean: sqrt of the summed squared differences (default)
//   - MetricManhattan: sum of absolute differences
//   - MetricMaxDiff: largest absolute per-dimension difference
//
// # Usage
//
//	fn, err := distance.Provider(distance.MetricEuclidean)
//	d := fn(a, b)
package distance

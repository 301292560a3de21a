// Package metric exports codebook training and quantization metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, err := vqc.New(vqc.WithMetricsCollector(metric.NewPrometheusCollector(reg)))
package metric

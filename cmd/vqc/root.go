package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vqc"
	"github.com/hupe1980/vqc/cache"
	"github.com/hupe1980/vqc/distance"
	"github.com/hupe1980/vqc/metric"
	"github.com/hupe1980/vqc/quantization"
)

// =============================================================================
// Global Flags
// =============================================================================

var (
	envFile     string
	cacheDir    string
	compression string
	metricName  string
	workers     int
	seed        int64
	logLevel    string
	metricsFile string

	codebookName string
	vectorDims   int
	codebookSize int
)

// runtime holds what the commands share once flags and environment are resolved.
type runtime struct {
	cfg        Config
	logger     *vqc.Logger
	cache      *cache.Cache
	compressor *vqc.Compressor
	registry   *prometheus.Registry
}

var rt *runtime

var rootCmd = &cobra.Command{
	Use:   "vqc",
	Short: "Vector quantization for 16-bit sample planes",
	Long: `vqc trains LBG vector quantization codebooks for planes of raw
little-endian uint16 samples, and encodes planes into Huffman-coded index
streams against them.

Codebooks are cached in a local directory (VQC_CACHE_DIR), optionally in
front of S3 (VQC_S3_BUCKET) or MinIO (VQC_MINIO_ENDPOINT).

Examples:
  vqc train --input plane.u16 --dims 4 --size 64
  vqc encode --input plane.u16 --dims 4 --size 64 --output plane.vqs
  vqc decode --input plane.vqs --name plane --dims 4 --size 64 --output out.u16
  vqc inspect --name plane --dims 4 --size 64`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if rt == nil || metricsFile == "" {
			return nil
		}
		return prometheus.WriteToTextfile(metricsFile, rt.registry)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "Environment file to load")
	pf.StringVar(&cacheDir, "cache-dir", "", "Codebook cache directory (overrides VQC_CACHE_DIR)")
	pf.StringVar(&compression, "compression", "", "Codebook compression: none, lz4 or zstd (overrides VQC_COMPRESSION)")
	pf.StringVar(&metricName, "metric", distance.MetricEuclidean.String(), "Distance metric: euclidean, manhattan or maxdiff")
	pf.IntVar(&workers, "workers", 0, "Worker goroutines, 0 for GOMAXPROCS (overrides VQC_WORKERS)")
	pf.Int64Var(&seed, "seed", 0, "Random seed for training, 0 for a random seed")
	pf.StringVar(&logLevel, "log-level", "", "Log level (overrides VQC_LOG_LEVEL)")
	pf.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// addCodebookFlags registers the flags that identify a cached codebook.
func addCodebookFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&codebookName, "name", "", "Codebook name (defaults to the input file name)")
	cmd.Flags().IntVar(&vectorDims, "dims", 4, "Samples per vector")
	cmd.Flags().IntVar(&codebookSize, "size", 256, "Codebook size, a power of two")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if compression != "" {
		cfg.Compression = compression
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := cfg.slogLevel()
	if err != nil {
		return err
	}
	logger := vqc.NewTextLogger(level)
	if cfg.jsonLogs() {
		logger = vqc.NewJSONLogger(level)
	}

	comp, err := cache.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}
	m, err := distance.ParseMetric(metricName)
	if err != nil {
		return err
	}

	store, err := cfg.openStore(cmd.Context())
	if err != nil {
		return err
	}
	codebooks, err := cache.New(store,
		cache.WithCompression(comp),
		cache.WithMemoryCapacity(cfg.MemoryCapacity),
	)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()

	var learnerOpts []quantization.Option
	if seed != 0 {
		learnerOpts = append(learnerOpts, quantization.WithSeed(seed))
	}

	compressor, err := vqc.New(
		vqc.WithLogger(logger),
		vqc.WithMetricsCollector(metric.NewPrometheusCollector(registry)),
		vqc.WithCache(codebooks),
		vqc.WithMetric(m),
		vqc.WithWorkers(cfg.Workers),
		vqc.WithLearnerOptions(learnerOpts...),
	)
	if err != nil {
		return err
	}

	rt = &runtime{
		cfg:        cfg,
		logger:     logger,
		cache:      codebooks,
		compressor: compressor,
		registry:   registry,
	}
	return nil
}

// key resolves the codebook key from the flags, naming it after path when
// --name is not set.
func key(path string) (cache.Key, error) {
	name := codebookName
	if name == "" {
		if path == "" {
			return cache.Key{}, fmt.Errorf("--name is required")
		}
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	k := cache.Key{Name: name, VectorDims: vectorDims, CodebookSize: codebookSize}
	if err := k.Validate(); err != nil {
		return cache.Key{}, err
	}
	return k, nil
}

// readVectors reads a raw sample plane and partitions it into vectors.
func readVectors(path string) ([][]uint16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	samples, err := vqc.ReadSamples(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	vectors, err := vqc.Partition(samples, vectorDims)
	if err != nil {
		return nil, 0, err
	}
	return vectors, len(samples), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/vqc/blobstore"
	"github.com/hupe1980/vqc/blobstore/minio"
	"github.com/hupe1980/vqc/blobstore/s3"
)

// envPrefix is the prefix of every environment variable read by the CLI.
const envPrefix = "VQC"

// Config is the environment configuration. Flags override it.
type Config struct {
	CacheDir       string `envconfig:"CACHE_DIR" default:".vqc"`
	Compression    string `envconfig:"COMPRESSION" default:"zstd"`
	MemoryCapacity int64  `envconfig:"MEMORY_CAPACITY" default:"0"`
	Workers        int    `envconfig:"WORKERS" default:"0"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"text"`

	S3Bucket   string `envconfig:"S3_BUCKET"`
	S3Prefix   string `envconfig:"S3_PREFIX"`
	S3Region   string `envconfig:"S3_REGION"`
	S3Endpoint string `envconfig:"S3_ENDPOINT"`

	MinioEndpoint     string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey    string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey    string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket       string `envconfig:"MINIO_BUCKET" default:"codebooks"`
	MinioPrefix       string `envconfig:"MINIO_PREFIX"`
	MinioSecure       bool   `envconfig:"MINIO_SECURE" default:"false"`
	MinioCreateBucket bool   `envconfig:"MINIO_CREATE_BUCKET" default:"true"`
}

// loadConfig loads envFile into the environment, if it exists, and then
// processes the VQC_ variables. Variables already set win over the file.
func loadConfig(envFile string) (Config, error) {
	var cfg Config

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// remote reports whether a remote codebook store is configured.
func (c Config) remote() bool {
	return c.MinioEndpoint != "" || c.S3Bucket != ""
}

// openStore returns the codebook blob store. With a remote backend the local
// cache directory becomes a read-through tier in front of it.
func (c Config) openStore(ctx context.Context) (blobstore.Store, error) {
	local := blobstore.NewLocalStore(c.CacheDir)

	var remote blobstore.Store
	switch {
	case c.MinioEndpoint != "":
		st, err := minio.Dial(ctx, minio.Config{
			Endpoint:     c.MinioEndpoint,
			AccessKey:    c.MinioAccessKey,
			SecretKey:    c.MinioSecretKey,
			Bucket:       c.MinioBucket,
			Prefix:       c.MinioPrefix,
			Secure:       c.MinioSecure,
			CreateBucket: c.MinioCreateBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to minio: %w", err)
		}
		remote = st
	case c.S3Bucket != "":
		st, err := s3.New(ctx, c.S3Bucket,
			s3.WithPrefix(c.S3Prefix),
			s3.WithRegion(c.S3Region),
			s3.WithEndpoint(c.S3Endpoint),
		)
		if err != nil {
			return nil, err
		}
		remote = st
	default:
		return local, nil
	}

	return blobstore.NewTieredStore(local, remote), nil
}

// slogLevel parses the configured log level.
func (c Config) slogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

func (c Config) jsonLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

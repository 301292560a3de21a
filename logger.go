package vqc

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/vqc/quantization"
)

// Logger wraps slog.Logger with vqc-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithName adds a codebook name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{Logger: l.Logger.With("name", name)}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim)}
}

// WithCodebookSize adds a codebook_size field to the logger.
func (l *Logger) WithCodebookSize(size int) *Logger {
	return &Logger{Logger: l.Logger.With("codebook_size", size)}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{Logger: l.Logger.With("count", count)}
}

// LogTrain logs a training run.
func (l *Logger) LogTrain(ctx context.Context, name string, res *TrainResult, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "training completed",
		"name", name,
		"codebook_size", res.Codebook.Size(),
		"dimension", res.Codebook.VectorDimensions(),
		"mse", res.MSE,
		"psnr", res.PSNR,
		"cached", res.Cached,
	)
}

// LogEncode logs an encode operation.
func (l *Logger) LogEncode(ctx context.Context, count, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encode failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "encode completed",
		"count", count,
		"bytes", bytes,
	)
}

// LogDecode logs a decode operation.
func (l *Logger) LogDecode(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "decode completed",
		"count", count,
	)
}

// LogCache logs a codebook cache lookup or write.
func (l *Logger) LogCache(ctx context.Context, op, key string, hit bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "codebook cache "+op+" failed",
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "codebook cache "+op,
		"key", key,
		"hit", hit,
	)
}

// StatusListener adapts the logger to training progress events.
// Anomalies and abandoned repairs log at warn level, everything else at debug.
func (l *Logger) StatusListener() quantization.StatusListener {
	return quantization.StatusListenerFunc(func(e quantization.Event) {
		level := slog.LevelDebug
		if e.Kind == quantization.EventAnomaly || e.Kind == quantization.EventRepairAbandoned {
			level = slog.LevelWarn
		}

		ctx := context.Background()
		if !l.Enabled(ctx, level) {
			return
		}

		attrs := []slog.Attr{
			slog.String("event", e.Kind.String()),
			slog.Int("codebook_size", e.CodebookSize),
		}
		if e.Pass > 0 {
			attrs = append(attrs, slog.Int("pass", e.Pass), slog.Int("iteration", e.Iteration))
		}
		if e.Kind != quantization.EventSplit && e.Kind != quantization.EventDistinct {
			attrs = append(attrs, slog.Float64("distortion", e.Distortion))
		}
		if e.Entry >= 0 {
			attrs = append(attrs, slog.Int("entry", e.Entry))
		}
		l.LogAttrs(ctx, level, e.Message, attrs...)
	})
}

package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Workers normalizes a requested worker count.
// Values <= 0 select runtime.GOMAXPROCS(0).
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return requested
}

// Ranges splits [0, n) into at most workers contiguous ranges of size n/workers.
// The last range absorbs any remainder. No range is empty.
func Ranges(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}

	chunk := n / workers
	ranges := make([]Range, workers)
	for i := range ranges {
		ranges[i] = Range{Start: i * chunk, End: (i + 1) * chunk}
	}
	ranges[workers-1].End = n

	return ranges
}

// Map runs fn once per range of [0, n) on its own goroutine and returns the
// per-range results in range order.
func Map[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, r Range) (T, error)) ([]T, error) {
	ranges := Ranges(n, workers)
	results := make([]T, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("parallel: worker %d [%d, %d) panicked: %v", i, r.Start, r.End, p)
				}
			}()

			res, err := fn(gctx, r)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MapReduce runs fn over the ranges of [0, n) and folds the per-range results
// into init in range order.
func MapReduce[T, A any](ctx context.Context, n, workers int, fn func(ctx context.Context, r Range) (T, error), init A, reduce func(acc A, part T) A) (A, error) {
	parts, err := Map(ctx, n, workers, fn)
	if err != nil {
		return init, err
	}

	acc := init
	for _, p := range parts {
		acc = reduce(acc, p)
	}
	return acc, nil
}

// ForEach runs fn over the ranges of [0, n) without collecting results.
func ForEach(ctx context.Context, n, workers int, fn func(ctx context.Context, r Range) error) error {
	_, err := Map(ctx, n, workers, func(ctx context.Context, r Range) (struct{}, error) {
		return struct{}{}, fn(ctx, r)
	})
	return err
}

// Package parallel provides the static-partition fan-out/fan-in used by
// codebook training and batch quantization.
//
// An index range [0, n) is cut into contiguous, near-equal ranges, one per
// worker; the last range absorbs the remainder. Every worker runs on its own
// goroutine, returns a private result, and the results come back in worker
// order so callers can reduce them deterministically. The first worker error
// (or recovered panic) cancels the others and is returned to the caller.
package parallel

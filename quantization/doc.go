// Package quantization learns and applies vector quantization codebooks for
// 16-bit sample data.
//
// A codebook is a power-of-two sized set of codewords. Each input vector (a
// single pixel, a row segment, a 2-D block or a 3-D voxel, flattened to a
// []uint16 by the caller) is replaced by the index of its nearest codeword.
// Scalar quantization is the one-dimensional special case.
//
// # Training
//
// Codebooks are trained with the Generalized Lloyd (LBG) algorithm:
//
//	res, err := quantization.Train(ctx, vectors, 64,
//	    quantization.WithMetric(distance.MetricEuclidean),
//	    quantization.WithWorkers(8),
//	    quantization.WithSeed(42),
//	)
//	fmt.Println(res.MSE, res.PSNR)
//
// Training starts from a single centroid (the mean of all vectors) and
// doubles the codebook by splitting every entry along its perturbation vector
// until the requested size is reached, refining with nearest-neighbor
// assignment and centroid updates after every doubling. Entries left with
// fewer than two vectors are re-seeded from the most populated non-zero entry.
//
// When the training set holds fewer distinct vectors than the requested size,
// LBG is skipped: the codebook is the distinct vectors in discovery order,
// padded with zero vectors.
//
// # Quantization
//
//	q, _ := quantization.NewQuantizer(res.Codebook)
//	idx, _ := q.QuantizeToIndex(vec)
//	indices, _ := q.QuantizeIndices(ctx, vectors)
//
// Results depend only on the codebook, the metric and the input; the worker
// count never changes them. Ties resolve to the lowest index.
//
// # Concurrency
//
// Assignment passes and batch quantization split the vector array into one
// contiguous range per worker. Workers share the codebook read-only and
// accumulate into private state that is reduced in worker order once all of
// them finish. Random choices (entry repair, degenerate splits) happen only in
// the sequential phases, so a seeded source makes training reproducible.
package quantization

// Package vqc compresses planes of 16-bit samples with learned vector
// quantization codebooks.
//
// A plane is split into short vectors of samples. A codebook of
// representative vectors is trained on them with the LBG (Generalized Lloyd)
// algorithm, every vector is replaced by the index of its nearest codeword,
// and the index stream is Huffman coded with a code built from the codebook's
// frequency table.
//
// # Quick Start
//
//	ctx := context.Background()
//	c, _ := vqc.New()
//
//	vectors := vqc.Partition(samples, 4)       // 4 samples per vector
//	res, _ := c.Train(ctx, "plane", vectors, 256)
//	fmt.Println(res.MSE, res.PSNR)
//
//	stream, _ := c.Encode(ctx, res.Codebook, vectors)
//	restored, _ := c.Decode(res.Codebook, stream)
//
// # Codebook Cache
//
// Trained codebooks can be persisted and reused through a cache backed by any
// blobstore.Store: a local directory, S3 or MinIO.
//
//	cb, _ := cache.New(blobstore.NewLocalStore("./codebooks"))
//	c, _ := vqc.New(vqc.WithCache(cb))
//	res, _ := c.Train(ctx, "plane", vectors, 256) // res.Cached on later runs
//
// # Observability
//
// Operations are logged through a slog-based Logger (training events at debug
// level) and reported to a MetricsCollector; the metric package provides a
// Prometheus implementation.
//
// # Packages
//
//   - quantization: codebooks, the LBG learner and the quantizer
//   - distance: sample-space distance metrics
//   - huffman: canonical Huffman coding of codebook indices
//   - cache, blobstore: codebook persistence
//   - metric: Prometheus metrics
package vqc

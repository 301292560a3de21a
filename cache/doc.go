// Package cache persists trained codebooks in a blobstore.Store.
//
// Codebooks are addressed by a Key made of a user-chosen name, the vector
// dimensionality and the codebook size. Each key maps to one blob named
// "<name>_<dims>d_<size>.qcb" holding a checksummed, optionally compressed
// copy of the codebook's binary form:
//
//	[magic "QCB\x00"][version u16][compression u8][reserved u8]
//	[raw length u32][crc32c(raw) u32][payload]
//
// A bounded in-process LRU of decoded codebooks can be placed in front of the
// store with WithMemoryCapacity.
//
//	c, err := cache.New(blobstore.NewLocalStore(dir), cache.WithCompression(cache.CompressionZSTD))
//	err = c.Save(ctx, key, codebook)
//	codebook, err = c.Load(ctx, key)
package cache

// Package hash provides the CRC32-Castagnoli checksum that guards persisted
// codebook blobs against corruption.
//
//	sum := hash.CRC32C(raw)
//	ok := hash.Verify(raw, sum)
package hash

// Package huffman implements canonical Huffman coding over codebook indices.
//
// A Code is built from a frequency table, typically the per-codeword
// frequencies recorded in a quantization.Codebook, and maps every symbol with
// a non-zero frequency to a prefix-free bit string of at most MaxCodeLength
// bits. Codes are canonical, so the table is fully described by its code
// lengths:
//
//	code, err := huffman.New(freqs)
//	data, err := code.Encode(indices)
//	indices, err = code.Decode(data, len(indices))
//
//	// rebuild the identical code from its lengths
//	same, err := huffman.FromLengths(code.Lengths())
package huffman

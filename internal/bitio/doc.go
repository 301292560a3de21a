// Package bitio reads and writes MSB-first bit streams.
//
// Bits are packed into bytes starting at the most significant bit. The final
// byte of a written stream is padded with zero bits.
package bitio

// Package conv provides safe numeric conversion utilities.
//
// The integer conversions perform bounds checking to prevent overflow when
// converting between Go's platform-dependent int and the fixed-width fields of
// persisted headers. ClampUint16 saturates floating-point sample arithmetic
// back into the 16-bit sample range.
package conv

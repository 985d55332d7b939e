// Package conv provides checked integer narrowing.
//
// Program sizes are bounded by the parser, so overflow here indicates a bug
// rather than bad input; the helpers panic instead of returning errors.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so the check also works where int is 32 bits wide.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

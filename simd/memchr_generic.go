package simd

import "math/bits"

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// load64 reads 8 bytes of s starting at i as a little-endian uint64.
func load64(s string, i int) uint64 {
	_ = s[i+7]
	return uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
		uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
}

// zeroBytes sets the high bit of every byte of v that is zero, plus possibly
// bytes above the first zero byte. The lowest set bit is always exact.
//
// Formula: (v - 0x0101010101010101) & ^v & 0x8080808080808080
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// memchrGeneric implements pure Go byte search using SWAR technique.
// It processes 8 bytes at a time using uint64 bitwise operations.
//
// Algorithm:
//  1. Create a mask with needle replicated in every byte of uint64
//  2. Read 8 bytes from haystack as uint64
//  3. XOR with mask (matching bytes become 0x00)
//  4. Use zero-byte detection formula to find first zero
//  5. Extract position using trailing zero count
func memchrGeneric(haystack string, needle byte) int {
	n := len(haystack)

	// For small inputs, byte-by-byte is faster (no setup overhead)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		if found := zeroBytes(load64(haystack, i) ^ mask); found != 0 {
			return i + bits.TrailingZeros64(found)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// memchr2Generic checks both needles in parallel within 8-byte chunks and
// returns the position of whichever appears first.
func memchr2Generic(haystack string, needle1, needle2 byte) int {
	n := len(haystack)
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := load64(haystack, i)
		if found := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); found != 0 {
			return i + bits.TrailingZeros64(found)/8
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 {
			return i
		}
	}
	return -1
}

// memchr3Generic is memchr2Generic with three needles.
func memchr3Generic(haystack string, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	mask3 := uint64(needle3) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := load64(haystack, i)
		found := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2) | zeroBytes(chunk^mask3)
		if found != 0 {
			return i + bits.TrailingZeros64(found)/8
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 || c == needle3 {
			return i
		}
	}
	return -1
}

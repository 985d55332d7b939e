// Package simd provides fast byte and substring search over strings. It
// dispatches to the runtime's vectorized routines when the CPU has vector
// support (AVX2 on x86-64, ASIMD on arm64) and falls back to a pure Go SWAR
// (SIMD Within A Register) implementation otherwise.
//
// The primary use case is the search prefilter: finding the offsets where a
// literal that must begin every match occurs.
package simd

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// vectorThreshold is the haystack length below which the setup cost of the
// vectorized routines outweighs their benefit.
const vectorThreshold = 32

// hasVector reports whether the runtime's vectorized byte search is fast on
// this CPU.
var hasVector = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr("hello world", 'o')
//	fmt.Println(pos) // Output: 4
func Memchr(haystack string, needle byte) int {
	if hasVector && len(haystack) >= vectorThreshold {
		return strings.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or needle2
// in haystack, or -1 if neither is present.
func Memchr2(haystack string, needle1, needle2 byte) int {
	return memchr2Generic(haystack, needle1, needle2)
}

// Memchr3 returns the index of the first instance of needle1, needle2, or needle3
// in haystack, or -1 if none are present.
func Memchr3(haystack string, needle1, needle2, needle3 byte) int {
	return memchr3Generic(haystack, needle1, needle2, needle3)
}

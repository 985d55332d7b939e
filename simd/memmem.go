package simd

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle matches at 0.
//
// The search scans for the rarest byte of the needle (by ByteFrequencies)
// with Memchr and verifies the full needle around each candidate, so
// inputs where that byte is rare are skipped at memchr speed.
//
// Example:
//
//	pos := simd.Memmem("hello world", "world")
//	fmt.Println(pos) // Output: 6
func Memmem(haystack, needle string) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare := SelectRareBytes(needle)
	// The rare byte of a match at p sits at p+Index1, so candidates never
	// need to look before Index1 or past the last possible start.
	last := len(haystack) - len(needle)
	from := rare.Index1
	for from <= last+rare.Index1 {
		pos := Memchr(haystack[from:last+rare.Index1+1], rare.Byte1)
		if pos < 0 {
			return -1
		}
		start := from + pos - rare.Index1
		if haystack[start+rare.Index2] == rare.Byte2 && haystack[start:start+len(needle)] == needle {
			return start
		}
		from += pos + 1
	}
	return -1
}

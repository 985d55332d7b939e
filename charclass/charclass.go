// Package charclass implements sets of Unicode code points represented as
// sorted, disjoint, inclusive ranges.
//
// The parser uses these sets for bracket expressions, Perl classes (\d, \w, \s)
// and case folding. A set is canonical when its ranges are sorted by lower
// bound, do not overlap and are not adjacent; Build produces that form and the
// other operations in this package expect it.
package charclass

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// MaxRune is the largest code point a range may contain.
const MaxRune = unicode.MaxRune

// Range is an inclusive span of code points.
type Range struct {
	Lo rune
	Hi rune
}

// Single returns the range holding exactly r.
func Single(r rune) Range {
	return Range{Lo: r, Hi: r}
}

// Len returns the number of code points in the range.
func (r Range) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(r.Hi-r.Lo) + 1
}

// String renders the range as "a-z" or "a" for single code points.
func (r Range) String() string {
	if r.Lo == r.Hi {
		return formatRune(r.Lo)
	}
	return formatRune(r.Lo) + "-" + formatRune(r.Hi)
}

func formatRune(r rune) string {
	if r > ' ' && r < unicode.MaxASCII && r != '-' && r != '\\' {
		return string(r)
	}
	return fmt.Sprintf(`\x{%x}`, r)
}

// Build returns the canonical form of ranges.
//
// Ranges are sorted by (Lo ascending, Hi descending), inverted ranges are
// dropped, bounds are clipped to [0, MaxRune], and overlapping or adjacent
// ranges are merged. The input slice is not modified. Build is idempotent.
func Build(ranges []Range) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		r.Lo = max(r.Lo, 0)
		r.Hi = min(r.Hi, MaxRune)
		if r.Lo > r.Hi {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lo != out[j].Lo {
			return out[i].Lo < out[j].Lo
		}
		return out[i].Hi > out[j].Hi
	})

	n := 0
	for _, r := range out {
		if n > 0 && r.Lo <= out[n-1].Hi+1 {
			if r.Hi > out[n-1].Hi {
				out[n-1].Hi = r.Hi
			}
			continue
		}
		out[n] = r
		n++
	}
	return out[:n]
}

// Negate returns the complement of ranges within [0, MaxRune].
//
// The result is canonical. Negating the full span yields the empty set;
// callers that consider an empty class an error must check for it.
func Negate(ranges []Range) []Range {
	set := Build(ranges)
	out := make([]Range, 0, len(set)+1)
	next := rune(0)
	for _, r := range set {
		if r.Lo > next {
			out = append(out, Range{Lo: next, Hi: r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= MaxRune {
		out = append(out, Range{Lo: next, Hi: MaxRune})
	}
	return out
}

// Contains reports whether c falls into one of the canonical ranges.
func Contains(ranges []Range, c rune) bool {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].Hi >= c
	})
	return i < len(ranges) && ranges[i].Lo <= c
}

// Count returns the number of code points in a canonical set.
func Count(ranges []Range) int {
	n := 0
	for _, r := range ranges {
		n += r.Len()
	}
	return n
}

// Equal reports whether two canonical sets hold the same code points.
func Equal(a, b []Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Smallest and largest code points that participate in simple case folding.
const (
	minFold = 0x0041
	maxFold = 0x1E943
)

// FoldCase returns the canonical set of ranges extended with every simple
// case-folding equivalent of its members (unicode.SimpleFold orbits).
func FoldCase(ranges []Range) []Range {
	out := make([]Range, 0, len(ranges)*2)
	out = append(out, ranges...)
	for _, r := range ranges {
		lo, hi := max(r.Lo, minFold), min(r.Hi, maxFold)
		for c := lo; c <= hi; c++ {
			for f := unicode.SimpleFold(c); f != c; f = unicode.SimpleFold(f) {
				out = append(out, Single(f))
			}
		}
	}
	return Build(out)
}

// Format renders a set as the body of a bracket expression, e.g. "0-9A-Z_".
func Format(ranges []Range) string {
	var sb strings.Builder
	for _, r := range ranges {
		sb.WriteString(r.String())
	}
	return sb.String()
}

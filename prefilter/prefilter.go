// Package prefilter provides fast candidate filtering for regex search using
// extracted prefix literals.
//
// A prefilter is used to quickly skip offsets in the haystack where no match
// can start. Since every match begins with one of the extracted literals, the
// search only needs to run the virtual machine at offsets where one of them
// occurs.
//
// The package selects the prefilter strategy based on the literals:
//   - Single byte → memchr (byte search)
//   - Single substring → memmem (rare-byte substring search)
//   - Literals with 2-3 distinct first bytes → memchr2/memchr3 plus verification
//   - Anything else → Aho-Corasick automaton
//
// Example usage:
//
//	re, _ := syntax.Parse("(hello|world)", 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	pf := prefilter.NewBuilder(prefixes).Build()
//
//	pos := pf.Find("foo hello bar world baz", 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"strings"
	"unsafe"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/regexvm/literal"
	"github.com/coregx/regexvm/simd"
)

// Prefilter is used to quickly find candidate match offsets before running
// the full regex engine.
//
// Key methods:
//   - Find: returns the next candidate offset
//   - IsComplete: indicates if a candidate is itself the whole match
//   - HeapBytes: returns memory usage for profiling
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// 'start', or -1 if no candidate is found.
	//
	// A candidate is an offset where one of the prefilter literals begins.
	// This does NOT guarantee a full regex match; the caller must verify it
	// (unless IsComplete() is true).
	//
	// Example:
	//
	//	pos := pf.Find(haystack, 0)
	//	for pos != -1 {
	//	    if fullRegexMatches(haystack, pos) {
	//	        return pos
	//	    }
	//	    pos = pf.Find(haystack, pos+1)
	//	}
	Find(haystack string, start int) int

	// IsComplete returns true if a candidate at offset p is a match spanning
	// [p, p+LiteralLen()). This only holds for a single complete literal.
	IsComplete() bool

	// LiteralLen returns the length of the literal when IsComplete() is true,
	// and 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the approximate number of bytes of heap memory used
	// by this prefilter. Memchr-based prefilters return 0.
	HeapBytes() int
}

// Builder constructs the best prefilter from extracted prefix literals.
//
// Selection strategy (in order of preference):
//  1. Single byte literal → memchrPrefilter (fastest)
//  2. Single substring literal → memmemPrefilter
//  3. 2-3 distinct first bytes → memchrNPrefilter
//  4. Otherwise → ahoCorasickPrefilter
//  5. No literals → nil (no prefilter)
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a new prefilter builder from the prefix literals
// returned by literal.Extractor.ExtractPrefixes. A nil sequence is allowed
// and builds no prefilter.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build constructs the best prefilter for the literals, or returns nil if
// no effective prefilter can be built.
//
// Example:
//
//	pf := prefilter.NewBuilder(prefixes).Build()
//	if pf == nil {
//	    // No prefilter available, try every offset
//	}
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return &memchrPrefilter{needle: lit.Bytes[0], complete: lit.Complete}
		}
		return &memmemPrefilter{needle: string(lit.Bytes), complete: lit.Complete}
	}

	lits := make([]string, seq.Len())
	for i := range lits {
		lits[i] = string(seq.Get(i).Bytes)
	}
	if first := firstBytes(lits); len(first) <= 3 {
		return &memchrNPrefilter{first: first, literals: lits}
	}
	if pf := newAhoCorasick(lits); pf != nil {
		return pf
	}
	return nil
}

// New is shorthand for NewBuilder(prefixes).Build().
func New(prefixes *literal.Seq) Prefilter {
	return NewBuilder(prefixes).Build()
}

// firstBytes returns the distinct first bytes of the literals, stopping
// once more than three have been seen.
func firstBytes(lits []string) []byte {
	var first []byte
	for _, lit := range lits {
		if strings.IndexByte(string(first), lit[0]) < 0 {
			first = append(first, lit[0])
			if len(first) > 3 {
				break
			}
		}
	}
	return first
}

// memchrPrefilter searches for a single byte with simd.Memchr.
//
// Example patterns:
//
//	/a\d+/       → search for 'a'
//	/x(y|z)*/    → search for 'x'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memmemPrefilter searches for a single substring with simd.Memmem.
//
// Example patterns:
//
//	/hello\s+\w+/  → search for "hello"
//	/(?:foo)bar/   → search for "foobar"
type memmemPrefilter struct {
	needle   string
	complete bool
}

// Find implements Prefilter.Find using simd.Memmem.
func (p *memmemPrefilter) Find(haystack string, start int) int {
	if start < 0 || start > len(haystack)-len(p.needle) {
		return -1
	}
	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// HeapBytes implements Prefilter.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}

// memchrNPrefilter searches for the first byte of any literal with
// simd.Memchr2 or simd.Memchr3 and keeps the offsets where a whole literal
// begins.
//
// Example patterns:
//
//	/(?i)ab/       → first bytes 'A', 'a'
//	/foo|bar|baz/  → first bytes 'f', 'b'
type memchrNPrefilter struct {
	first    []byte
	literals []string
}

// Find implements Prefilter.Find.
func (p *memchrNPrefilter) Find(haystack string, start int) int {
	for start >= 0 && start < len(haystack) {
		var idx int
		switch len(p.first) {
		case 1:
			idx = simd.Memchr(haystack[start:], p.first[0])
		case 2:
			idx = simd.Memchr2(haystack[start:], p.first[0], p.first[1])
		default:
			idx = simd.Memchr3(haystack[start:], p.first[0], p.first[1], p.first[2])
		}
		if idx == -1 {
			return -1
		}
		pos := start + idx
		for _, lit := range p.literals {
			if strings.HasPrefix(haystack[pos:], lit) {
				return pos
			}
		}
		start = pos + 1
	}
	return -1
}

// IsComplete implements Prefilter.
func (p *memchrNPrefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.
func (p *memchrNPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.
func (p *memchrNPrefilter) HeapBytes() int {
	n := len(p.first)
	for _, lit := range p.literals {
		n += len(lit)
	}
	return n
}

// ahoCorasickPrefilter finds the leftmost occurrence of any literal with an
// Aho-Corasick automaton. It handles large or diverse literal sets such as
// /apple|banana|cherry|date/.
type ahoCorasickPrefilter struct {
	automaton *ahocorasick.Automaton
	size      int
}

// newAhoCorasick builds the automaton, or returns nil if it cannot be built.
func newAhoCorasick(lits []string) *ahoCorasickPrefilter {
	builder := ahocorasick.NewBuilder()
	size := 0
	for _, lit := range lits {
		builder.AddPattern([]byte(lit))
		size += len(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{automaton: auto, size: size}
}

// Find implements Prefilter.Find using the automaton's leftmost search.
func (p *ahoCorasickPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.automaton.Find(stringBytes(haystack), start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete implements Prefilter.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.
func (p *ahoCorasickPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter. The automaton's own tables are not
// exposed, so this counts the pattern bytes only.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	return p.size
}

// stringBytes returns the bytes of s without copying. The result must not
// be modified.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Package literal provides types and operations for representing and manipulating
// literal byte sequences extracted from regex syntax trees.
//
// The primary use case is prefilter optimization: by extracting the literal
// strings every match must begin with (e.g., "hello" from /hello\d+/), the
// search can skip directly to candidate offsets instead of running the
// virtual machine at every position.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that may begin a match
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Minimize and LongestCommonPrefix help pick a prefilter strategy
package literal

import (
	"bytes"
	"sort"
)

// Literal represents a literal byte sequence extracted from a regex.
// The Complete flag indicates whether this literal represents a complete match
// (true) or just a prefix of potential matches (false).
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello\d/ → Literal{[]byte("hello"), false} (prefix only)
type Literal struct {
	// Bytes contains the actual literal byte sequence.
	Bytes []byte

	// Complete indicates whether this literal represents the entire match.
	// If false, this literal is just a necessary prefix.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
//
// Example:
//
//	lit := literal.NewLiteral([]byte("hello"), true)
//	fmt.Printf("%s (complete=%v)\n", lit.Bytes, lit.Complete)
//	// Output: hello (complete=true)
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a human-readable representation of the literal.
//
// Example:
//
//	lit := literal.NewLiteral([]byte("foo"), false)
//	fmt.Println(lit) // Output: "foo" (incomplete)
func (l Literal) String() string {
	if l.Complete {
		return `"` + string(l.Bytes) + `" (complete)`
	}
	return `"` + string(l.Bytes) + `" (incomplete)`
}

// Seq represents a sequence of alternative literals.
//
// A nil *Seq means the set of possible prefixes is unknown (infinite), which
// is different from an empty Seq: an empty Seq means no string can match.
// Every method is safe to call on a nil receiver.
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
// Duplicate byte sequences are merged; a literal stays complete only if
// every one of its duplicates is, since any incomplete copy means some match
// continues past it.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
func NewSeq(lits ...Literal) *Seq {
	s := &Seq{literals: make([]Literal, 0, len(lits))}
	for _, lit := range lits {
		s.add(lit)
	}
	return s
}

func (s *Seq) add(lit Literal) {
	for i := range s.literals {
		if bytes.Equal(s.literals[i].Bytes, lit.Bytes) {
			s.literals[i].Complete = s.literals[i].Complete && lit.Complete
			return
		}
	}
	s.literals = append(s.literals, lit)
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i.
// Panics if i is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence contains no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// IsFinite reports whether the set of prefixes is known.
func (s *Seq) IsFinite() bool {
	return s != nil
}

// AllComplete reports whether every literal in a non-empty sequence is complete.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// HasEmpty reports whether the sequence contains the empty literal. Such a
// sequence is useless as a prefilter since every offset is a candidate.
func (s *Seq) HasEmpty() bool {
	for i := 0; i < s.Len(); i++ {
		if len(s.literals[i].Bytes) == 0 {
			return true
		}
	}
	return false
}

// MinLen returns the length of the shortest literal, or 0 for an empty sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		n = min(n, len(lit.Bytes))
	}
	return n
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		b := make([]byte, len(lit.Bytes))
		copy(b, lit.Bytes)
		cloned[i] = NewLiteral(b, lit.Complete)
	}
	return &Seq{literals: cloned}
}

// MakeIncomplete marks every literal as a prefix only.
func (s *Seq) MakeIncomplete() {
	for i := 0; i < s.Len(); i++ {
		s.literals[i].Complete = false
	}
}

// Minimize removes redundant literals from the sequence.
//
// For prefix matching, a literal L is redundant if there exists a shorter literal S
// that is a prefix of L. For example, in ["foo", "foobar"], "foo" makes "foobar"
// redundant because any offset where "foobar" occurs also has "foo".
//
// A literal that made another redundant is marked incomplete, since the
// match found there may continue past it.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	// Sort by length (shortest first) for efficient redundancy detection
	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				kept[j].Complete = false
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in the sequence.
// If the sequence is empty or has no common prefix, returns an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	    literal.NewLiteral([]byte("hero"), true),
//	)
//	prefix := seq.LongestCommonPrefix()
//	fmt.Println(string(prefix)) // Output: he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	// Return a copy to avoid aliasing issues
	result := make([]byte, len(prefix))
	copy(result, prefix)
	return result
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

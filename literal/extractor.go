package literal

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/regexvm/charclass"
	"github.com/coregx/regexvm/syntax"
)

// maxDepth bounds the recursion over the syntax tree. Deeper subtrees are
// treated as having unknown prefixes.
const maxDepth = 100

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 64,
//	    MaxClassSize:  10,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	// For patterns with many alternations like (a|b|c|...|z), this prevents
	// unbounded memory growth. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal.
	// Longer literals are truncated and marked incomplete. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"].
	// Large classes like [a-z] (26 chars) are NOT expanded if > MaxClassSize.
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
//
// Defaults are tuned for typical regex patterns:
//   - MaxLiterals: 64 (handles most alternations without bloat)
//   - MaxLiteralLen: 64 (good cache locality for prefilters)
//   - MaxClassSize: 10 (small classes only, avoids [a-z] explosion)
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix literal sequences from syntax trees.
//
// Every match of the tree starts with one of the extracted literals, so a
// search only needs to try the offsets where one of them occurs.
//
// Example:
//
//	re, _ := syntax.Parse("(hello|world)", 0)
//	extractor := literal.New(literal.DefaultConfig())
//	prefixes := extractor.ExtractPrefixes(re)
//	// prefixes = ["hello", "world"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
//
// Example:
//
//	config := literal.DefaultConfig()
//	config.MaxLiterals = 128 // Allow more literals
//	extractor := literal.New(config)
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the minimized set of literals that every match of
// re begins with, or nil when no such set is useful for prefiltering: the
// prefixes are unknown, some match may start with the empty string, or no
// string matches at all.
//
// Handles these syntax.Op types:
//   - OpLiteral, OpLiteralString: the literal itself (complete)
//   - OpConcat: cross product of both sides while the left side is complete
//   - OpAlternate: union of both alternatives
//   - OpCharClass: expand small classes (e.g., [abc] → ["a", "b", "c"])
//   - OpCapture: the sub-expression
//   - OpRepeat: the sub-expression, plus "" when it may repeat zero times
//   - assertions and OpEmpty: the empty string
//
// Examples:
//
//	"hello"         → ["hello"]
//	"(foo|bar)"     → ["foo", "bar"]
//	"[ab]test"      → ["atest", "btest"]
//	"hello\d+"      → ["hello" (incomplete)]
//	"a*b"           → ["a" (incomplete), "b"]
//	".*foo"         → nil
func (e *Extractor) ExtractPrefixes(re *syntax.Expr) *Seq {
	seq := e.prefixes(re, 0)
	if seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}
	seq.Minimize()
	return seq
}

// prefixes is the recursive implementation. A nil result means unknown.
func (e *Extractor) prefixes(re *syntax.Expr, depth int) *Seq {
	if depth > maxDepth {
		return nil
	}

	switch re.Op {
	case syntax.OpEmpty, syntax.OpAssertStart, syntax.OpAssertEnd,
		syntax.OpWordBoundary, syntax.OpNonWordBoundary:
		// Zero-width: contributes nothing to the prefix
		return NewSeq(NewLiteral([]byte{}, true))

	case syntax.OpLiteral:
		if re.Rune == utf8.RuneError {
			return nil
		}
		return NewSeq(e.literal(utf8.AppendRune(nil, re.Rune)))

	case syntax.OpLiteralString:
		if strings.ContainsRune(re.Str, utf8.RuneError) {
			return nil
		}
		return NewSeq(e.literal([]byte(re.Str)))

	case syntax.OpCharClass:
		return e.expandCharClass(re.Ranges)

	case syntax.OpTable, syntax.OpNegatedTable:
		return nil

	case syntax.OpCapture:
		return e.prefixes(re.Sub, depth+1)

	case syntax.OpAlternate:
		left := e.prefixes(re.Left, depth+1)
		if left == nil {
			return nil
		}
		right := e.prefixes(re.Right, depth+1)
		if right == nil {
			return nil
		}
		for _, lit := range right.literals {
			left.add(lit)
		}
		if left.Len() > e.config.MaxLiterals {
			return nil
		}
		return left

	case syntax.OpConcat:
		left := e.prefixes(re.Left, depth+1)
		if left == nil {
			return nil
		}
		return e.cross(left, e.prefixes(re.Right, depth+1))

	case syntax.OpRepeat:
		return e.repeat(re, depth)
	}
	return nil
}

// literal builds a complete literal, truncating it to MaxLiteralLen.
func (e *Extractor) literal(b []byte) Literal {
	if len(b) > e.config.MaxLiteralLen {
		return NewLiteral(b[:e.config.MaxLiteralLen], false)
	}
	return NewLiteral(b, true)
}

// expandCharClass expands a small class into one literal per code point.
// An empty class yields an empty sequence. U+FFFD also matches invalid
// input bytes, so a class containing it has no literal prefixes.
func (e *Extractor) expandCharClass(ranges []charclass.Range) *Seq {
	if charclass.Count(ranges) > e.config.MaxClassSize || charclass.Contains(ranges, utf8.RuneError) {
		return nil
	}
	seq := NewSeq()
	for _, r := range ranges {
		for c := r.Lo; c <= r.Hi; c++ {
			seq.literals = append(seq.literals, NewLiteral(utf8.AppendRune(nil, c), true))
		}
	}
	return seq
}

// cross extends every complete literal of left with every literal of right.
// Incomplete literals of left are kept as they are. When right is unknown or
// the product grows past MaxLiterals, left is returned with every literal
// marked incomplete.
func (e *Extractor) cross(left, right *Seq) *Seq {
	if right == nil {
		left.MakeIncomplete()
		return left
	}
	out := NewSeq()
	for _, l := range left.literals {
		if !l.Complete {
			out.add(l)
			continue
		}
		for _, r := range right.literals {
			b := make([]byte, 0, len(l.Bytes)+len(r.Bytes))
			b = append(append(b, l.Bytes...), r.Bytes...)
			lit := e.literal(b)
			lit.Complete = lit.Complete && r.Complete
			out.add(lit)
		}
		if out.Len() > e.config.MaxLiterals {
			left.MakeIncomplete()
			return left
		}
	}
	return out
}

// repeat handles OpRepeat. A repetition that may match zero times adds the
// empty literal; any repetition other than exactly one copy makes the
// literals of the sub-expression incomplete.
func (e *Extractor) repeat(re *syntax.Expr, depth int) *Seq {
	if re.Max == 0 {
		return NewSeq(NewLiteral([]byte{}, true))
	}
	sub := e.prefixes(re.Sub, depth+1)
	if sub == nil {
		return nil
	}
	seq := sub.Clone()
	if re.Max != 1 {
		seq.MakeIncomplete()
	}
	if re.Min == 0 {
		seq.add(NewLiteral([]byte{}, true))
	}
	if seq.Len() > e.config.MaxLiterals {
		return nil
	}
	return seq
}

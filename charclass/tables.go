package charclass

import (
	"errors"
	"unicode"
)

// ErrUnknownClass is returned when a class name has no table.
var ErrUnknownClass = errors.New("unknown character class")

// Table is a named, read-only code-point table.
//
// Tables back \p{...} escapes outside brackets so that large Unicode
// categories are matched by a single instruction instead of a range ladder.
// Name round-trips through Unicode.
type Table struct {
	Name  string
	Table *unicode.RangeTable
}

// Contains reports whether r is in the table.
func (t *Table) Contains(r rune) bool {
	return unicode.Is(t.Table, r)
}

// Ranges returns the table contents as a canonical set.
func (t *Table) Ranges() []Range {
	return FromTable(t.Table)
}

// String returns the table name.
func (t *Table) String() string {
	return t.Name
}

// FromTable expands a unicode.RangeTable into a canonical set.
func FromTable(rt *unicode.RangeTable) []Range {
	out := make([]Range, 0, len(rt.R16)+len(rt.R32))
	for _, r := range rt.R16 {
		out = appendStride(out, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range rt.R32 {
		out = appendStride(out, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return Build(out)
}

func appendStride(out []Range, lo, hi, stride rune) []Range {
	if stride <= 1 {
		return append(out, Range{Lo: lo, Hi: hi})
	}
	for c := lo; c <= hi; c += stride {
		out = append(out, Single(c))
	}
	return out
}

// toRangeTable converts a canonical set into a unicode.RangeTable.
func toRangeTable(ranges []Range) *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	for _, r := range ranges {
		if r.Hi <= 0xFFFF {
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(r.Lo), Hi: uint16(r.Hi), Stride: 1})
			if r.Hi <= unicode.MaxLatin1 {
				rt.LatinOffset++
			}
			continue
		}
		rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(r.Lo), Hi: uint32(r.Hi), Stride: 1})
	}
	return rt
}

// Perl classes. Matching is ASCII-only, as in RE2 and Go's regexp.
var (
	perlDigit = []Range{{'0', '9'}}
	perlSpace = []Range{{'\t', '\r'}, {' ', ' '}}
	perlWord  = []Range{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
)

// Perl returns the set for the Perl class letter ('d', 's' or 'w', or their
// upper-case negations).
func Perl(name byte) ([]Range, error) {
	var set []Range
	switch name | 0x20 {
	case 'd':
		set = perlDigit
	case 's':
		set = perlSpace
	case 'w':
		set = perlWord
	default:
		return nil, ErrUnknownClass
	}
	if name >= 'A' && name <= 'Z' {
		return Negate(set), nil
	}
	return append([]Range(nil), set...), nil
}

// IsWord reports whether r is a \w character. Word-boundary assertions use it.
func IsWord(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' ||
		'0' <= r && r <= '9' ||
		'a' <= r && r <= 'z' ||
		'A' <= r && r <= 'Z')
}

var posixSets = map[string][]Range{
	"alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
	"alpha":  {{'A', 'Z'}, {'a', 'z'}},
	"ascii":  {{0x00, 0x7F}},
	"blank":  {{'\t', '\t'}, {' ', ' '}},
	"cntrl":  {{0x00, 0x1F}, {0x7F, 0x7F}},
	"digit":  {{'0', '9'}},
	"graph":  {{'!', '~'}},
	"lower":  {{'a', 'z'}},
	"print":  {{' ', '~'}},
	"punct":  {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
	"space":  {{'\t', '\r'}, {' ', ' '}},
	"upper":  {{'A', 'Z'}},
	"word":   {{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}},
	"xdigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
}

// POSIX returns the ASCII set named by a bracket class such as [:alpha:].
// The name is given without the surrounding "[:" and ":]".
func POSIX(name string) ([]Range, error) {
	set, ok := posixSets[name]
	if !ok {
		return nil, ErrUnknownClass
	}
	return append([]Range(nil), set...), nil
}

var anyTable = &Table{Name: "Any", Table: toRangeTable([]Range{{0, MaxRune}})}

// Unicode returns the table for a general category, script or property
// name, e.g. "L", "Lu", "Greek" or "White_Space". "Any" matches every code
// point.
func Unicode(name string) (*Table, error) {
	if name == "Any" {
		return anyTable, nil
	}
	if rt, ok := unicode.Categories[name]; ok {
		return &Table{Name: name, Table: rt}, nil
	}
	if rt, ok := unicode.Scripts[name]; ok {
		return &Table{Name: name, Table: rt}, nil
	}
	if rt, ok := unicode.Properties[name]; ok {
		return &Table{Name: name, Table: rt}, nil
	}
	return nil, ErrUnknownClass
}

// MustLookup is like Unicode but panics on unknown names. Generated programs
// use it to reference tables.
func MustLookup(name string) *Table {
	t, err := Unicode(name)
	if err != nil {
		panic("charclass: " + err.Error() + ": " + name)
	}
	return t
}

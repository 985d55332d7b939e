package syntax

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseDump(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		want    string
	}{
		{"", 0, "emp{}"},
		{"a", 0, "lit{a}"},
		{"abc", 0, "str{abc}"},
		{"ab*bc", 0, "cat{cat{lit{a}rep{0,-1 lit{b}}}str{bc}}"},
		{"a|b|c", 0, "alt{lit{a}|alt{lit{b}|lit{c}}}"},
		{"ab|cd", 0, "alt{str{ab}|str{cd}}"},
		{"a+?", 0, "rep{1,-1? lit{a}}"},
		{"a??", 0, "rep{0,1? lit{a}}"},
		{"a{2,3}", 0, "rep{2,3 lit{a}}"},
		{"x{2,}?", 0, "rep{2,-1? lit{x}}"},
		{"a{3}", 0, "rep{3,3 lit{a}}"},
		{"()", 0, "cap{1 emp{}}"},
		{"(a)(?:b)(?P<n>c)", 0, "cat{cat{cap{1 lit{a}}lit{b}}cap{2:n lit{c}}}"},
		{"(?<year>x)", 0, "cap{1:year lit{x}}"},
		{"((a)|b)", 0, "cap{1 alt{cap{2 lit{a}}|lit{b}}}"},
		{"[a-c\\d]", 0, "cc{0-9a-c}"},
		{"[[:digit:]x]", 0, "cc{0-9x}"},
		{"[^^]", 0, `cc{\x{0}-]_-\x{10ffff}}`},
		{"a]", 0, "str{a]}"},
		{"[]a]", 0, "cc{]a}"},
		{"(?i)a", 0, "cc{Aa}"},
		{"a", FoldCase, "cc{Aa}"},
		{"(?i:a)b", 0, "cat{cc{Aa}lit{b}}"},
		{"a(?i)b", 0, "cat{lit{a}cc{Bb}}"},
		{"(?i)1", 0, "lit{1}"},
		{"^a$", 0, "cat{cat{bot{}lit{a}}eot{}}"},
		{"^a$", Multiline, "cat{cat{bol{}lit{a}}eol{}}"},
		{"(?m)^", 0, "bol{}"},
		{"\\A\\z", Multiline, "cat{bot{}eot{}}"},
		{"\\bfoo\\B", 0, "cat{cat{wb{}str{foo}}nwb{}}"},
		{"\\Qa.b\\E", 0, "str{a.b}"},
		{"\\Qa*", 0, "str{a*}"},
		{".", 0, `cc{\x{0}-\x{9}\x{b}-\x{10ffff}}`},
		{".", DotAll, `cc{\x{0}-\x{10ffff}}`},
		{"\\pL", 0, "tbl{L}"},
		{"\\P{Greek}", 0, "ntbl{Greek}"},
		{"\\p{^Greek}", 0, "ntbl{Greek}"},
		{"\\x41\\101\\x{263a}", 0, "str{AA☺}"},
		{"\\0", 0, "lit{\x00}"},
		{"\\377", 0, "lit{\u00ff}"},
		{"\\400", 0, "str{ 0}"},
		{"\\7777", 0, "str{?77}"},
		{"a{,2}", 0, "str{a{,2}}"},
		{"c{10,x}", 0, "str{c{10,x}}"},
		{"e{-11}", 0, "str{e{-11}}"},
		{"f{10 11}", 0, "str{f{10 11}}"},
		{"g{10", 0, "str{g{10}"},
		{"a*", Ungreedy, "rep{0,-1? lit{a}}"},
		{"(?U)a*?", 0, "rep{0,-1 lit{a}}"},
		{"(?#comment)a", 0, "lit{a}"},
		{"a(?#note){b", 0, "str{a{b}"},
		{"a(?i)b*", 0, "cat{lit{a}rep{0,-1 cc{Bb}}}"},
		{"\\.\\*", 0, "str{.*}"},
		{"\\n\\t", 0, "str{\n\t}"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern, tt.flags)
			assert.NilError(t, err)
			assert.Equal(t, re.String(), tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
	}{
		{"(abc", ErrExpectedClosingParen},
		{"(", ErrExpectedClosingParen},
		{"(?i", ErrExpectedClosingParen},
		{"(?#abc", ErrExpectedClosingParen},
		{"abc)", ErrUnexpectedClosingParen},
		{"a|", ErrEmptyAlternate},
		{"|a", ErrEmptyAlternate},
		{"a||b", ErrEmptyAlternate},
		{"(|a)", ErrEmptyAlternate},
		{"a**", ErrRepeatedRepetition},
		{"a*??", ErrRepeatedRepetition},
		{"a?*", ErrRepeatedRepetition},
		{"a{2}{3}", ErrRepeatedRepetition},
		{"*a", ErrEmptyRepetition},
		{"a|*", ErrEmptyRepetition},
		{"(+)", ErrEmptyRepetition},
		{"{10,}", ErrEmptyRepetition},
		{"a(?i)*", ErrEmptyRepetition},
		{"a(?i)?", ErrEmptyRepetition},
		{"(?s){2}", ErrEmptyRepetition},
		{"a(?#note)+", ErrEmptyRepetition},
		{"d{12,10}", ErrEmptyRepetitionRange},
		{"a{1001}", ErrRepetitionTooLarge},
		{"a{1,99999999999}", ErrRepetitionTooLarge},
		{"(?:(?:a{100}){100}){200}", ErrPatternTooLarge},
		{"(?P<>a)", ErrEmptyGroupName},
		{"(?P<a>x)(?P<a>y)", ErrDuplicateGroupName},
		{"(?P<a-b>x)", ErrExpectedAlphaNumeric},
		{"(?P<abc", ErrExpectedClosingAngleBracket},
		{"\\p{}", ErrEmptyPropertyName},
		{"\\p{Bogus}", ErrInvalidClassName},
		{"[\\p{Bogus}]", ErrInvalidClassName},
		{"[[:bogus:]]", ErrInvalidClassName},
		{"a[", ErrExpectedClosingBracket},
		{"a[]b", ErrExpectedClosingBracket},
		{"[^", ErrExpectedClosingBracket},
		{"\\x{41", ErrExpectedClosingBrace},
		{"\\p{L", ErrExpectedClosingBrace},
		{"(?=a)", ErrUnexpectedCharacter},
		{"(?<!a)", ErrUnexpectedCharacter},
		{"(?z)", ErrUnexpectedCharacter},
		{"(?)", ErrUnexpectedCharacter},
		{"(?i-)", ErrUnexpectedCharacter},
		{"(?P=a)", ErrUnexpectedCharacter},
		{"\\1", ErrInvalidEscape},
		{"(a)\\1", ErrInvalidEscape},
		{"\\8", ErrInvalidEscape},
		{"\\q", ErrInvalidEscape},
		{"\\é", ErrInvalidEscape},
		{"\\x{110000}", ErrInvalidEscape},
		{"\\x{D800}", ErrInvalidEscape},
		{"\\xZ1", ErrInvalidEscape},
		{"\\", ErrIncompleteEscape},
		{"a\\", ErrIncompleteEscape},
		{"[a\\", ErrIncompleteEscape},
		{"a\xffb", ErrInvalidUTF8},
		{"[z-a]", ErrEmptyCharClassRange},
		{"[^\\x00-\\x{10FFFF}]", ErrEmptyCharClassRange},
		{"[^\\d\\D]", ErrEmptyCharClassRange},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern, 0)
			assert.Check(t, errors.Is(err, tt.code), "got %v, want %v", err, tt.code)

			var perr *Error
			assert.Assert(t, errors.As(err, &perr))
			assert.Equal(t, perr.Pattern, tt.pattern)
			assert.Check(t, perr.Offset >= 0 && perr.Offset <= len(tt.pattern))
		})
	}
}

func TestParseErrorOffsets(t *testing.T) {
	tests := []struct {
		pattern string
		offset  int
	}{
		{"(abc", 4},
		{"abc)", 3},
		{"ab**", 3},
		{"a\xffb", 1},
		{"x[z-a]", 3},
		{"ab\\q", 2},
	}
	for _, tt := range tests {
		_, err := Parse(tt.pattern, 0)
		var perr *Error
		assert.Assert(t, errors.As(err, &perr), tt.pattern)
		assert.Equal(t, perr.Offset, tt.offset, tt.pattern)
	}
}

func TestParseNestingLimit(t *testing.T) {
	ok := strings.Repeat("(", 1000) + "a" + strings.Repeat(")", 1000)
	_, err := Parse(ok, 0)
	assert.NilError(t, err)

	deep := "(" + ok + ")"
	_, err = Parse(deep, 0)
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	_, err = ParseWithLimits("((a))", 0, Limits{MaxRepeat: 10, MaxNesting: 1, MaxSize: 100})
	assert.ErrorIs(t, err, ErrNestingTooDeep)
}

func TestParseRepeatLimit(t *testing.T) {
	limits := Limits{MaxRepeat: 5, MaxNesting: 10, MaxSize: 1000}
	_, err := ParseWithLimits("a{5}", 0, limits)
	assert.NilError(t, err)
	_, err = ParseWithLimits("a{6}", 0, limits)
	assert.ErrorIs(t, err, ErrRepetitionTooLarge)
	_, err = ParseWithLimits("a{2,6}", 0, limits)
	assert.ErrorIs(t, err, ErrRepetitionTooLarge)
}

func TestCaptures(t *testing.T) {
	re, err := Parse("(?P<x>a)(b(?P<y>c))|(d)", 0)
	assert.NilError(t, err)
	assert.Equal(t, re.NumCaptures(), 4)
	assert.DeepEqual(t, re.CaptureNames(), []string{"", "x", "", "y", ""})
}

func TestScopedFlagsRestore(t *testing.T) {
	re, err := Parse("((?i)a)b", 0)
	assert.NilError(t, err)
	assert.Equal(t, re.String(), "cat{cap{1 cc{Aa}}lit{b}}")

	re, err = Parse("(?i)a(?-i)b", 0)
	assert.NilError(t, err)
	assert.Equal(t, re.String(), "cat{cc{Aa}lit{b}}")
}

func TestIsLiteral(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
		text    string
	}{
		{"abc", true, "abc"},
		{"a", true, "a"},
		{"a\\.b", true, "a.b"},
		{"a|b", false, ""},
		{"a*", false, ""},
		{"(abc)", false, ""},
		{"^abc", false, ""},
	}
	for _, tt := range tests {
		re, err := Parse(tt.pattern, 0)
		assert.NilError(t, err)
		assert.Check(t, is.Equal(re.IsLiteral(), tt.want), tt.pattern)
		if tt.want {
			assert.Check(t, is.Equal(re.LiteralString(), tt.text))
		}
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags("imsU")
	assert.NilError(t, err)
	assert.Equal(t, f, FoldCase|Multiline|DotAll|Ungreedy)
	assert.Equal(t, f.String(), "imsU")

	f, err = ParseFlags("")
	assert.NilError(t, err)
	assert.Equal(t, f, Flags(0))

	_, err = ParseFlags("ix")
	assert.ErrorIs(t, err, ErrUnexpectedCharacter)
}

func TestErrorMessage(t *testing.T) {
	_, err := Parse("(abc", 0)
	assert.Error(t, err, `regexvm: parse error: missing closing ) at offset 4 in "(abc"`)
	assert.Equal(t, ErrInvalidEscape.Error(), "invalid escape sequence")
	assert.Equal(t, ErrorCode(200).Error(), "syntax error 200")
}

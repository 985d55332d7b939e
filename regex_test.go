package regexvm

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/coregx/regexvm/meta"
	"github.com/coregx/regexvm/syntax"
)

type searchCase struct {
	Pattern string   `yaml:"pattern"`
	Input   string   `yaml:"input"`
	Expect  string   `yaml:"expect"`
	Matched string   `yaml:"matched"`
	Groups  []string `yaml:"groups"`
}

func loadCases(t *testing.T) []searchCase {
	t.Helper()
	content, err := os.ReadFile("testdata/cases.yaml")
	assert.NilError(t, err)
	var cases []searchCase
	assert.NilError(t, yaml.Unmarshal(content, &cases))
	assert.Assert(t, len(cases) > 0)
	return cases
}

func TestSearchCases(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Pattern+"/"+tc.Input, func(t *testing.T) {
			re, err := Compile(tc.Pattern, 0)
			if tc.Expect == "parseerr" {
				assert.Assert(t, err != nil, "pattern %q compiled", tc.Pattern)
				var syntaxErr *syntax.Error
				assert.Assert(t, errors.As(err, &syntaxErr), "error %v is not a *syntax.Error", err)
				return
			}
			assert.NilError(t, err)

			m := re.Search(tc.Input)
			if tc.Expect == "nomatch" {
				assert.Assert(t, m == nil, "unexpected match %v", m)
				return
			}
			assert.Assert(t, m != nil, "no match for %q in %q", tc.Pattern, tc.Input)
			assert.Equal(t, m.Matched(), tc.Matched)
			for i, want := range tc.Groups {
				got, ok := m.Group(i + 1)
				if want == "-" {
					assert.Assert(t, !ok, "group %d = %q, want unmatched", i+1, got)
					continue
				}
				assert.Assert(t, ok, "group %d unmatched", i+1)
				assert.Equal(t, got, want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    syntax.ErrorCode
	}{
		{"(abc", syntax.ErrExpectedClosingParen},
		{`[^\x{0}-\x{10FFFF}]`, syntax.ErrEmptyCharClassRange},
		{"abc)", syntax.ErrUnexpectedClosingParen},
		{"a[", syntax.ErrExpectedClosingBracket},
		{`a\`, syntax.ErrIncompleteEscape},
		{"a**", syntax.ErrRepeatedRepetition},
		{"*a", syntax.ErrEmptyRepetition},
		{"a{3,1}", syntax.ErrEmptyRepetitionRange},
		{"(?P<n>a)(?P<n>b)", syntax.ErrDuplicateGroupName},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Compile(tt.pattern, 0)
			assert.ErrorIs(t, err, tt.code)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		assert.Assert(t, r != nil)
		assert.Assert(t, is.Contains(r.(string), "regexvm: Compile(`(abc`)"))
	}()
	MustCompile("(abc", 0)
}

func TestCompileWithConfig(t *testing.T) {
	config := DefaultConfig()
	config.MaxRepeat = 10
	_, err := CompileWithConfig("a{1,50}", 0, config)
	assert.ErrorIs(t, err, syntax.ErrRepetitionTooLarge)

	config = DefaultConfig()
	config.MaxLiterals = 0
	_, err = CompileWithConfig("a", 0, config)
	var configErr *meta.ConfigError
	assert.Assert(t, errors.As(err, &configErr))

	config = DefaultConfig()
	config.EnablePrefilter = false
	re, err := CompileWithConfig("hello|world", 0, config)
	assert.NilError(t, err)
	assert.Equal(t, re.Strategy(), meta.UseNFA)
	assert.Equal(t, re.Search("say world").Matched(), "world")
}

func TestScenarios(t *testing.T) {
	t.Run("backtrack into star", func(t *testing.T) {
		m := MustCompile("ab*bc", 0).Search("abbbbc")
		assert.Equal(t, m.Matched(), "abbbbc")
	})

	t.Run("bounded repeat", func(t *testing.T) {
		re := MustCompile("a{5,7}", 0)
		assert.Equal(t, re.Search("aaaaaa").Matched(), "aaaaaa")
		assert.Assert(t, re.Search("aaaa") == nil)
	})

	t.Run("groups", func(t *testing.T) {
		m := MustCompile("(a)(b)(c)", 0).Search("abc")
		assert.Equal(t, m.NumGroups(), 3)
		for i, want := range []string{"abc", "a", "b", "c"} {
			got, ok := m.Group(i)
			assert.Assert(t, ok)
			assert.Equal(t, got, want)
		}
		_, ok := m.Group(4)
		assert.Assert(t, !ok)
	})

	t.Run("named group", func(t *testing.T) {
		m := MustCompile("(?P<hello>d)", 0).Search("dhfs")
		got, ok := m.GroupByName("hello")
		assert.Assert(t, ok)
		assert.Equal(t, got, "d")
		assert.Equal(t, m.String(), "<Match str: d groups: 1>")
	})

	t.Run("find all", func(t *testing.T) {
		var got []string
		for _, m := range MustCompile("a*ba*", 0).FindAll("abaaacaabaaaccdab", -1) {
			got = append(got, m.Matched())
		}
		assert.DeepEqual(t, got, []string{"abaaa", "aabaaa", "ab"})
	})
}

func TestExec(t *testing.T) {
	re := MustCompile("a+", 0)
	m := re.Exec("aab")
	assert.Assert(t, m != nil)
	assert.Equal(t, m.Matched(), "aa")
	assert.Assert(t, re.Exec("baa") == nil)

	assert.Equal(t, MustCompile("", 0).Exec("xyz").End(), 0)
}

func TestSearchAt(t *testing.T) {
	re := MustCompile(`\bfoo`, 0)
	m := re.SearchAt("foo afoo foo", 1)
	assert.Assert(t, m != nil)
	assert.Equal(t, m.Start(), 9)
	assert.Equal(t, m.End(), 12)

	assert.Assert(t, MustCompile("^a", 0).SearchAt("aa", 1) == nil)
	assert.Assert(t, re.SearchAt("foo", 3) == nil)
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"hello", "say hello world", true},
		{"hello", "say goodbye", false},
		{`\d{3}-\d{4}`, "call 555-1234", true},
		{"(?i)WORLD", "hello world", true},
		{"^$", "", true},
		{"[^\n]", "\n", false},
	}
	for _, tt := range tests {
		got := MustCompile(tt.pattern, 0).MatchString(tt.input)
		assert.Equal(t, got, tt.want, "MatchString(%q, %q)", tt.pattern, tt.input)
	}
}

func TestFlags(t *testing.T) {
	assert.Assert(t, MustCompile("hello", FoldCase).MatchString("HELLO"))
	assert.Equal(t, MustCompile("^b$", Multiline).Search("a\nb\nc").Start(), 2)
	assert.Assert(t, MustCompile("a.b", DotAll).MatchString("a\nb"))
	assert.Equal(t, MustCompile("a+", Ungreedy).Search("aaa").Matched(), "a")
}

func TestFindAllLimit(t *testing.T) {
	re := MustCompile(`\d+`, 0)
	assert.Equal(t, len(re.FindAll("1 2 3", -1)), 3)
	assert.Equal(t, len(re.FindAll("1 2 3", 2)), 2)
	assert.Assert(t, re.FindAll("1 2 3", 0) == nil)
	assert.Assert(t, re.FindAll("abc", -1) == nil)
}

func TestFindAllGroups(t *testing.T) {
	re := MustCompile(`(\w+)=(\d+)?`, 0)
	ms := re.FindAll("a=1 b= c=3", -1)
	assert.Equal(t, len(ms), 3)
	v, ok := ms[1].Group(2)
	assert.Assert(t, !ok)
	assert.Equal(t, v, "")
	v, _ = ms[2].Group(1)
	assert.Equal(t, v, "c")
}

// Non-overlapping iteration and splitting agree with the standard library
// for patterns both engines accept.
func TestFindAllSplitMatchStdlib(t *testing.T) {
	patterns := []string{
		"a*ba*", `\d+`, "a*", "x*", ",", `\bfoo\b`, "(a|ab)(c|bcd)", "[^a]",
		"é*", "(?i)abc", `(?m)^\w+$`, "", `\s+`, "a|b|c", "b", ".",
	}
	inputs := []string{
		"", "abaaacaabaaaccdab", "1 22 333", "aaa", "a,b,,c,", "foo afoo foo",
		"abcd abcbcd", "éé xé", "ABC abc", "one\ntwo\n", "a\xffb",
	}
	for _, p := range patterns {
		re := MustCompile(p, 0)
		std := regexp.MustCompile(p)
		for _, in := range inputs {
			for _, n := range []int{-1, 0, 1, 2} {
				var got [][]int
				for _, m := range re.FindAll(in, n) {
					got = append(got, []int{m.Start(), m.End()})
				}
				want := std.FindAllStringIndex(in, n)
				assert.DeepEqual(t, got, want)

				assert.DeepEqual(t, re.Split(in, n), std.Split(in, n))
			}
		}
	}
}

func TestSplit(t *testing.T) {
	re := MustCompile(",", 0)
	assert.DeepEqual(t, re.Split("a,b,c", -1), []string{"a", "b", "c"})
	assert.DeepEqual(t, re.Split("a,b,c", 2), []string{"a", "b,c"})
	assert.Assert(t, re.Split("a,b,c", 0) == nil)
	assert.DeepEqual(t, re.Split("", -1), []string{""})
	assert.DeepEqual(t, MustCompile("", 0).Split("abc", -1), []string{"a", "b", "c"})
	assert.DeepEqual(t, MustCompile("", 0).Split("", -1), []string{})
}

// Splitting empty input depends on the compiled program, not on the pattern
// text a Regex was labelled with.
func TestSplitEmptyInputFromProgram(t *testing.T) {
	star := MustFromProgram("", MustCompile("a*", 0).Program())
	assert.DeepEqual(t, star.Split("", -1), []string{""})
	assert.DeepEqual(t, star.Split("baab", -1), []string{"b", "b"})

	empty := MustFromProgram("custom", MustCompile("", 0).Program())
	assert.DeepEqual(t, empty.Split("", -1), []string{})
	assert.DeepEqual(t, empty.Split("ab", -1), []string{"a", "b"})
}

func TestGroupNames(t *testing.T) {
	re := MustCompile(`(?P<year>\d{4})-(\d{2})-(?P<day>\d{2})`, 0)
	assert.Equal(t, re.NumGroups(), 3)
	assert.DeepEqual(t, re.GroupNames(), []string{"", "year", "", "day"})
	assert.Equal(t, re.GroupIndex("day"), 3)
	assert.Equal(t, re.GroupIndex("month"), -1)

	names := re.GroupNames()
	names[1] = "changed"
	assert.Equal(t, re.GroupNames()[1], "year")
}

func TestString(t *testing.T) {
	assert.Equal(t, MustCompile(`a+\d`, 0).String(), `a+\d`)
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello.world", `hello\.world`},
		{"plain", "plain"},
		{"", ""},
		{`[a-z]+(x|y)?{2}^$\`, `\[a-z\]\+\(x\|y\)\?\{2\}\^\$\\`},
	}
	for _, tt := range tests {
		got := QuoteMeta(tt.in)
		assert.Equal(t, got, tt.want)
		re := MustCompile(got, 0)
		if tt.in != "" {
			assert.Equal(t, re.Search("xx"+tt.in).Matched(), tt.in)
		}
	}
}

func TestFromProgram(t *testing.T) {
	src := MustCompile(`(\w+)@(\w+)\.com`, 0)
	re, err := FromProgram(src.String(), src.Program())
	assert.NilError(t, err)
	assert.Equal(t, re.Strategy(), meta.UseNFA)
	m := re.Search("mail joe@example.com now")
	assert.Equal(t, m.Matched(), "joe@example.com")
	user, _ := m.Group(1)
	assert.Equal(t, user, "joe")
	assert.Equal(t, re.String(), src.String())
}

func TestFromProgramInvalid(t *testing.T) {
	prog := MustCompile("a", 0).Program()
	broken := *prog
	broken.Insts = broken.Insts[:1]
	_, err := FromProgram("a", &broken)
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(err.Error(), "invalid program"))

	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	MustFromProgram("a", &broken)
}

func TestConcurrentSearch(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.com`, 0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m := re.Search("mail joe@example.com now")
				if m == nil || m.Start() != 5 || m.End() != 20 {
					t.Errorf("got %v", m)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// Package regexvm provides a regular expression engine built on Pike's NFA
// simulation.
//
// A pattern is parsed into a syntax tree, compiled into a linear program
// with Thompson's construction, and run by a virtual machine that advances
// every thread in lockstep. Matching takes time linear in the input for a
// given start offset, with no backtracking, and reports submatches with
// leftmost-first (Perl) semantics.
//
// Basic usage:
//
//	re, err := regexvm.Compile(`(\w+)@(\w+)\.com`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := re.Search("mail joe@example.com now")
//	fmt.Println(m.Matched()) // "joe@example.com"
//	user, _ := m.Group(1)
//	fmt.Println(user) // "joe"
//
// Advanced usage:
//
//	// Custom configuration
//	config := regexvm.DefaultConfig()
//	config.EnablePrefilter = false
//	re, err := regexvm.CompileWithConfig("(a|b|c)*", 0, config)
//
// Performance characteristics:
//   - Patterns with literal prefixes: candidate offsets found with memchr,
//     memmem or Aho-Corasick before the virtual machine runs
//   - Plain literal patterns: substring search only
//   - Worst case: O(n) attempts, each linear in the input and program size
package regexvm

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/coregx/regexvm/meta"
	"github.com/coregx/regexvm/nfa"
	"github.com/coregx/regexvm/syntax"
)

// Flags selects matching options for a whole pattern. The same options can
// be set inside a pattern with (?flags) and (?flags:...).
type Flags = syntax.Flags

const (
	// FoldCase matches letters case-insensitively (i).
	FoldCase = syntax.FoldCase
	// Multiline lets ^ and $ match at line boundaries (m).
	Multiline = syntax.Multiline
	// DotAll lets . match \n (s).
	DotAll = syntax.DotAll
	// Ungreedy swaps the meaning of x* and x*?, x+ and x+?, and so on (U).
	Ungreedy = syntax.Ungreedy
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := regexvm.MustCompile(`hello`, 0)
//	if re.MatchString("hello world") {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a regular expression pattern under flags.
//
// Returns a *syntax.Error if the pattern is invalid; use errors.Is with the
// syntax.Err* codes to inspect it.
//
// Example:
//
//	re, err := regexvm.Compile(`\d{3}-\d{4}`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags Flags) (*Regex, error) {
	return CompileWithConfig(pattern, flags, meta.DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var emailRegex = regexvm.MustCompile(`[a-z]+@[a-z]+\.[a-z]+`, 0)
func MustCompile(pattern string, flags Flags) *Regex {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic("regexvm: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := regexvm.DefaultConfig()
//	config.MaxRepeat = 100
//	re, err := regexvm.CompileWithConfig("a{1,50}", 0, config)
func CompileWithConfig(pattern string, flags Flags, config meta.Config) (*Regex, error) {
	engine, err := meta.Compile(pattern, flags, config)
	if err != nil {
		var ce *meta.CompileError
		if errors.As(err, &ce) {
			return nil, ce.Err
		}
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// FromProgram wraps an already compiled program, such as one emitted by
// cmd/regexgen. pattern is only reported by String. The program is
// validated first; a program that fails validation returns an error
// wrapping nfa.ErrInvalidProgram.
//
// Regexes built this way run the virtual machine at every offset since no
// syntax tree is available for literal extraction.
func FromProgram(pattern string, prog *nfa.Program) (*Regex, error) {
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return &Regex{
		engine:  meta.NewEngine(prog, nil, meta.DefaultConfig()),
		pattern: pattern,
	}, nil
}

// MustFromProgram is like FromProgram but panics if the program is invalid.
func MustFromProgram(pattern string, prog *nfa.Program) *Regex {
	re, err := FromProgram(pattern, prog)
	if err != nil {
		panic("regexvm: FromProgram(`" + pattern + "`): " + err.Error())
	}
	return re
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression metacharacters
// inside the argument text; the returned string is a regular expression matching
// the literal text.
//
// Example:
//
//	escaped := regexvm.QuoteMeta("hello.world")
//	// escaped = "hello\\.world"
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$#`

	n := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// Exec returns the match that starts at the beginning of input, or nil.
//
// Example:
//
//	re := regexvm.MustCompile(`a+`, 0)
//	re.Exec("aab") // "aa"
//	re.Exec("baa") // nil
func (r *Regex) Exec(input string) *Match {
	t, ok := r.engine.Exec(input, 0)
	if !ok {
		return nil
	}
	return newMatch(input, 0, t, r.engine.SubexpNames())
}

// Search returns the leftmost match in input, or nil.
//
// Example:
//
//	re := regexvm.MustCompile(`\d+`, 0)
//	m := re.Search("hello 123 world")
//	fmt.Println(m.Matched()) // "123"
func (r *Regex) Search(input string) *Match {
	return r.SearchAt(input, 0)
}

// SearchAt returns the leftmost match that starts at or after the byte
// offset at, or nil. Assertions see the whole input, so \b and ^ behave as
// if the search started at 0.
func (r *Regex) SearchAt(input string, at int) *Match {
	start, t, ok := r.engine.SearchAt(input, at)
	if !ok {
		return nil
	}
	return newMatch(input, start, t, r.engine.SubexpNames())
}

// MatchString reports whether input contains any match of the pattern.
func (r *Regex) MatchString(input string) bool {
	_, _, ok := r.engine.SearchAt(input, 0)
	return ok
}

// FindAll returns successive non-overlapping matches in input.
// If n >= 0, it returns at most n matches; if n < 0, all matches.
// An empty match directly after the previous match is skipped.
//
// Example:
//
//	re := regexvm.MustCompile(`a*ba*`, 0)
//	for _, m := range re.FindAll("abaaacaabaaaccdab", -1) {
//	    fmt.Println(m.Matched()) // "abaaa", "aabaaa", "ab"
//	}
func (r *Regex) FindAll(input string, n int) []*Match {
	var matches []*Match
	r.allMatches(input, n, func(start int, t nfa.Thread) {
		matches = append(matches, newMatch(input, start, t, r.engine.SubexpNames()))
	})
	return matches
}

// allMatches calls deliver for successive non-overlapping matches, at most n
// of them if n >= 0.
func (r *Regex) allMatches(input string, n int, deliver func(start int, t nfa.Thread)) {
	prevEnd := -1
	for pos, i := 0, 0; (n < 0 || i < n) && pos <= len(input); {
		start, t, ok := r.engine.SearchAt(input, pos)
		if !ok {
			break
		}

		accept := true
		if t.End == start {
			// Empty match: step over one rune so the search advances.
			if start == prevEnd {
				accept = false
			}
			if start < len(input) {
				_, width := utf8.DecodeRuneInString(input[start:])
				pos = start + width
			} else {
				pos = len(input) + 1
			}
		} else {
			pos = t.End
		}
		prevEnd = t.End

		if accept {
			deliver(start, t)
			i++
		}
	}
}

// Split slices input into substrings separated by matches of the pattern and
// returns the substrings between those matches.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last substring will be the unsplit remainder.
//	n == 0: the result is nil (zero substrings)
//	n < 0: all substrings
//
// Example:
//
//	re := regexvm.MustCompile(`,`, 0)
//	parts := re.Split("a,b,c", -1)
//	// parts = ["a", "b", "c"]
//
//	parts = re.Split("a,b,c", 2)
//	// parts = ["a", "b,c"]
func (r *Regex) Split(input string, n int) []string {
	if n == 0 {
		return nil
	}
	if input == "" && !r.acceptsAtEntry() {
		return []string{""}
	}

	result := make([]string, 0, 4)
	beg, end := 0, 0
	stop := false
	r.allMatches(input, n, func(start int, t nfa.Thread) {
		if stop || n > 0 && len(result) == n-1 {
			stop = true
			return
		}
		end = start
		if t.End != 0 {
			result = append(result, input[beg:end])
		}
		beg = t.End
	})
	if end != len(input) {
		result = append(result, input[beg:])
	}
	return result
}

// acceptsAtEntry reports whether the program accepts at its first
// instruction, as the empty pattern compiles to. Such a program matches only
// the empty string, and splitting empty input with it yields no substrings.
func (r *Regex) acceptsAtEntry() bool {
	prog := r.engine.Program()
	return prog.Len() > 0 && prog.Insts[0].Op == nfa.InstAccept
}

// NumGroups returns the number of capturing groups in the pattern, not
// counting the whole match.
func (r *Regex) NumGroups() int {
	return r.engine.NumCaptures()
}

// GroupNames returns the names of the capturing groups. Index 0 stands for
// the whole match and is always ""; unnamed groups are "" too.
func (r *Regex) GroupNames() []string {
	names := r.engine.SubexpNames()
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// GroupIndex returns the number of the group called name, or -1.
func (r *Regex) GroupIndex(name string) int {
	for i, n := range r.engine.SubexpNames() {
		if i > 0 && n == name {
			return i
		}
	}
	return -1
}

// Program returns the compiled program.
func (r *Regex) Program() *nfa.Program {
	return r.engine.Program()
}

// Strategy returns the execution strategy the engine selected.
func (r *Regex) Strategy() meta.Strategy {
	return r.engine.Strategy()
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

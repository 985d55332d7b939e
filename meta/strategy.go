package meta

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/regexvm/prefilter"
	"github.com/coregx/regexvm/syntax"
)

// Strategy represents the execution strategy for regex matching.
//
// The engine chooses between:
//   - UseNFA: run the PikeVM at every offset
//   - UsePrefilter: run the PikeVM only at prefilter candidates
//   - UseLiteral: substring search, no virtual machine at all
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseNFA uses only the PikeVM engine.
	// Selected for:
	//   - Patterns without extractable prefix literals (e.g., \w+, .*foo)
	//   - Programs loaded without a syntax tree
	//   - When EnablePrefilter is false in config
	UseNFA Strategy = iota

	// UsePrefilter finds candidate offsets with a prefilter and verifies
	// each with the PikeVM.
	// Selected for:
	//   - Patterns whose matches all begin with one of a few literals
	//     (e.g., (foo|bar)\d+, hello\s+world)
	UsePrefilter

	// UseLiteral treats the pattern as a plain string.
	// Selected for:
	//   - Patterns made only of literal characters, without groups,
	//     assertions or case folding (e.g., hello)
	//
	// When the pattern is an exact literal, the substring search IS the engine.
	UseLiteral
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "UseNFA"
	case UsePrefilter:
		return "UsePrefilter"
	case UseLiteral:
		return "UseLiteral"
	default:
		return "Unknown"
	}
}

// selectStrategy picks the strategy for a program compiled from re.
//
// Decision tree:
//  1. Prefilter disabled or no syntax tree → UseNFA
//  2. Non-empty literal without U+FFFD → UseLiteral
//  3. Prefilter available → UsePrefilter
//  4. Otherwise → UseNFA
//
// U+FFFD in a pattern also matches invalid UTF-8 in the input, which a byte
// comparison would miss.
func selectStrategy(re *syntax.Expr, pf prefilter.Prefilter, config Config) Strategy {
	if !config.EnablePrefilter || re == nil {
		return UseNFA
	}
	if re.IsLiteral() {
		if lit := re.LiteralString(); lit != "" && !strings.ContainsRune(lit, utf8.RuneError) {
			return UseLiteral
		}
	}
	if pf != nil {
		return UsePrefilter
	}
	return UseNFA
}

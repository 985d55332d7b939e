package meta

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/regexvm/syntax"
)

func mustCompile(t *testing.T, pattern string, config Config) *Engine {
	t.Helper()
	e, err := Compile(pattern, 0, config)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return e
}

func TestStrategySelection(t *testing.T) {
	tests := []struct {
		pattern string
		want    Strategy
	}{
		{"hello", UseLiteral},
		{"héllo wörld", UseLiteral},
		{"(hello)", UsePrefilter},
		{"hello\\d+", UsePrefilter},
		{"foo|bar", UsePrefilter},
		{"(?i)hello", UsePrefilter},
		{"apple|banana|cherry|date", UsePrefilter},
		{"\\w+", UseNFA},
		{".*foo", UseNFA},
		{"", UseNFA},
		{"^", UseNFA},
		{"a�", UseNFA},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			e := mustCompile(t, tt.pattern, DefaultConfig())
			if e.Strategy() != tt.want {
				t.Errorf("Strategy() = %v, want %v", e.Strategy(), tt.want)
			}
			if (e.Prefilter() != nil) != (tt.want == UsePrefilter) {
				t.Errorf("Prefilter() = %v with strategy %v", e.Prefilter(), e.Strategy())
			}
		})
	}

	config := DefaultConfig()
	config.EnablePrefilter = false
	if s := mustCompile(t, "hello", config).Strategy(); s != UseNFA {
		t.Errorf("prefilter disabled: Strategy() = %v, want UseNFA", s)
	}
}

func TestStrategyString(t *testing.T) {
	for s, want := range map[Strategy]string{
		UseNFA:       "UseNFA",
		UsePrefilter: "UsePrefilter",
		UseLiteral:   "UseLiteral",
		Strategy(42): "Unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("Strategy(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

// Every strategy finds the same matches as the plain PikeVM.
func TestStrategiesAgree(t *testing.T) {
	patterns := []string{
		"hello", "(hello)", "hello\\d+", "foo|bar", "(?i)hello",
		"apple|banana|cherry|date", "a*b", "\\bcat", "(foo|ba[rz])+x", "é+",
		"a|a+", "(?:a|a+)c", "(?:ab|ab*)c", "(b)*[ab]b", "((a|(?:a))|((a)+))c",
		"c((a){0,2}?|[ab])((cbc|c)|b)", "(?:((c){1,2}){0,2}?)c([ab])",
	}
	inputs := []string{
		"", "hello", "say hello123 to HeLLo", "foo bar baz",
		"a date and a banana", "aaab b", "concat cat", "foox barbazx", "ééé",
		"aaac", "caabaa", "ccccaa", "abbbc", "bbab",
	}
	plain := DefaultConfig()
	plain.EnablePrefilter = false
	for _, p := range patterns {
		fast := mustCompile(t, p, DefaultConfig())
		slow := mustCompile(t, p, plain)
		for _, in := range inputs {
			checkAgree(t, p, fast, slow, in)
		}
	}
}

// Randomly generated patterns over a small alphabet, where duplicate and
// overlapping prefixes are common, must match the same way with and
// without a prefilter.
func TestPrefilterMatchesNFARandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	plain := DefaultConfig()
	plain.EnablePrefilter = false
	for i := 0; i < 500; i++ {
		p := randomPattern(rng, 3)
		fast, err := Compile(p, 0, DefaultConfig())
		if err != nil {
			continue
		}
		slow := mustCompile(t, p, plain)
		for j := 0; j < 20; j++ {
			in := make([]byte, rng.Intn(9))
			for k := range in {
				in[k] = "abc"[rng.Intn(3)]
			}
			checkAgree(t, p, fast, slow, string(in))
		}
	}
}

func checkAgree(t *testing.T, pattern string, fast, slow *Engine, in string) {
	t.Helper()
	for at := 0; at <= len(in); at++ {
		s1, t1, ok1 := fast.SearchAt(in, at)
		s2, t2, ok2 := slow.SearchAt(in, at)
		if ok1 != ok2 || (ok1 && (s1 != s2 || t1.End != t2.End)) {
			t.Errorf("%q on %q at %d: %v got (%d, %d, %v), NFA got (%d, %d, %v)",
				pattern, in, at, fast.Strategy(), s1, t1.End, ok1, s2, t2.End, ok2)
		}
		e1, eok1 := fast.Exec(in, at)
		e2, eok2 := slow.Exec(in, at)
		if eok1 != eok2 || (eok1 && e1.End != e2.End) {
			t.Errorf("%q on %q: Exec at %d differs: %v/%d vs %v/%d", pattern, in, at, eok1, e1.End, eok2, e2.End)
		}
	}
}

func randomPattern(rng *rand.Rand, depth int) string {
	if depth == 0 {
		return []string{"a", "b", "c", "[ab]", "[bc]"}[rng.Intn(5)]
	}
	var sb strings.Builder
	switch rng.Intn(4) {
	case 0:
		sb.WriteString(randomPattern(rng, depth-1))
		sb.WriteString("|")
		sb.WriteString(randomPattern(rng, depth-1))
	case 1:
		for n := 1 + rng.Intn(3); n > 0; n-- {
			sb.WriteString(randomPattern(rng, depth-1))
		}
	case 2:
		if rng.Intn(2) == 0 {
			sb.WriteString("(")
		} else {
			sb.WriteString("(?:")
		}
		sb.WriteString(randomPattern(rng, depth-1))
		sb.WriteString(")")
	default:
		sb.WriteString("(")
		sb.WriteString(randomPattern(rng, depth-1))
		sb.WriteString(")")
		sb.WriteString([]string{"*", "+", "?", "{0,2}", "{1,2}", "{2}"}[rng.Intn(6)])
		if rng.Intn(3) == 0 {
			sb.WriteString("?")
		}
	}
	return sb.String()
}

func TestSearchAtCaptures(t *testing.T) {
	e := mustCompile(t, "(\\w+)@(\\w+)\\.com", DefaultConfig())
	start, th, ok := e.SearchAt("mail joe@example.com now", 0)
	if !ok || start != 5 || th.End != 20 {
		t.Fatalf("SearchAt = %d, %+v, %v", start, th, ok)
	}
	want := []int{5, 8, 9, 16}
	for i := range want {
		if th.Caps[i] != want[i] {
			t.Fatalf("Caps = %v, want %v", th.Caps, want)
		}
	}
	if e.NumCaptures() != 2 || len(e.SubexpNames()) != 3 {
		t.Errorf("NumCaptures = %d, SubexpNames = %q", e.NumCaptures(), e.SubexpNames())
	}
}

func TestSearchAtOutOfRange(t *testing.T) {
	e := mustCompile(t, "a", DefaultConfig())
	if _, _, ok := e.SearchAt("a", 2); ok {
		t.Error("SearchAt past the end matched")
	}
	if _, _, ok := e.SearchAt("a", -1); ok {
		t.Error("SearchAt at -1 matched")
	}
	if _, ok := e.Exec("a", 5); ok {
		t.Error("Exec past the end matched")
	}
}

func TestLiteralThread(t *testing.T) {
	e := mustCompile(t, "abc", DefaultConfig())
	start, th, ok := e.SearchAt("xxabc", 0)
	if !ok || start != 2 || th.End != 5 || len(th.Caps) != 0 {
		t.Fatalf("SearchAt = %d, %+v, %v", start, th, ok)
	}
	if th.PC != e.Program().Len()-1 {
		t.Errorf("PC = %d, want accept at %d", th.PC, e.Program().Len()-1)
	}
}

func TestNewEngineWithoutTree(t *testing.T) {
	re, err := syntax.Parse("hello", 0)
	if err != nil {
		t.Fatal(err)
	}
	full := mustCompile(t, "hello", DefaultConfig())
	e := NewEngine(full.Program(), nil, DefaultConfig())
	if e.Strategy() != UseNFA {
		t.Errorf("Strategy() = %v, want UseNFA", e.Strategy())
	}
	if start, _, ok := e.SearchAt("oh hello", 0); !ok || start != 3 {
		t.Errorf("SearchAt = %d, %v", start, ok)
	}
	if e2 := NewEngine(full.Program(), re, DefaultConfig()); e2.Strategy() != UseLiteral {
		t.Errorf("with tree: Strategy() = %v", e2.Strategy())
	}
}

func TestStats(t *testing.T) {
	e := mustCompile(t, "foo\\w", DefaultConfig())
	if _, _, ok := e.SearchAt("foo. foo- foo1", 0); !ok {
		t.Fatal("no match")
	}
	stats := e.Stats()
	if stats.NFASearches != 1 || stats.PrefilterHits != 1 || stats.PrefilterMisses != 2 {
		t.Errorf("Stats = %+v", stats)
	}
	e.ResetStats()
	if e.Stats() != (Stats{}) {
		t.Errorf("after reset: %+v", e.Stats())
	}

	lit := mustCompile(t, "foo", DefaultConfig())
	lit.SearchAt("foo", 0)
	lit.Exec("foo", 0)
	if got := lit.Stats().LiteralSearches; got != 2 {
		t.Errorf("LiteralSearches = %d, want 2", got)
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("a(", 0, DefaultConfig())
	var syntaxErr *syntax.Error
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("error %v is not a *syntax.Error", err)
	}
	if !errors.Is(err, syntax.ErrExpectedClosingParen) {
		t.Errorf("error %v does not wrap ErrExpectedClosingParen", err)
	}
	if err.Error() != syntaxErr.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), syntaxErr.Error())
	}

	config := DefaultConfig()
	config.MaxRepeat = 10
	if _, err := Compile("a{11}", 0, config); !errors.Is(err, syntax.ErrRepetitionTooLarge) {
		t.Errorf("MaxRepeat=10: error = %v", err)
	}

	config = DefaultConfig()
	config.MaxProgramSize = 8
	if _, err := Compile("abcdefghij", 0, config); !errors.Is(err, syntax.ErrPatternTooLarge) {
		t.Errorf("MaxProgramSize=8: error = %v", err)
	}
}

func TestConcurrentSearch(t *testing.T) {
	e := mustCompile(t, "(\\d+)-(\\d+)", DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				start, th, ok := e.SearchAt("call 555-1234 now", 0)
				if !ok || start != 5 || th.End != 13 || th.Caps[2] != 9 {
					t.Errorf("got %d %+v %v", start, th, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}

package meta

import (
	"strings"
	"sync/atomic"

	"github.com/coregx/regexvm/nfa"
	"github.com/coregx/regexvm/prefilter"
	"github.com/coregx/regexvm/simd"
)

// Engine is the orchestrator that runs a compiled program.
//
// The Engine:
//  1. Extracts prefix literals from the syntax tree
//  2. Builds a prefilter (if literals are available)
//  3. Selects the strategy (literal, prefilter or plain PikeVM)
//  4. Coordinates search across offsets
//
// Thread safety: The Engine uses a sync.Pool internally to provide thread-safe
// concurrent access. Multiple goroutines can safely call Exec and SearchAt
// on the same Engine instance concurrently.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`, 0, meta.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	start, thread, ok := engine.SearchAt("test foo123 end", 0)
//	// start == 5, thread.End == 11
type Engine struct {
	// stats MUST be first field for proper 8-byte alignment on 32-bit platforms.
	stats counters

	prog      *nfa.Program
	pikevm    *nfa.PikeVM
	prefilter prefilter.Prefilter
	literal   string
	strategy  Strategy
	config    Config

	// statePool provides thread-safe pooling of per-search mutable state.
	statePool *searchStatePool
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// NFASearches counts searches that ran the PikeVM.
	NFASearches uint64

	// LiteralSearches counts searches answered by substring search alone.
	LiteralSearches uint64

	// PrefilterHits counts prefilter candidates confirmed by the PikeVM.
	PrefilterHits uint64

	// PrefilterMisses counts prefilter candidates that didn't match.
	PrefilterMisses uint64
}

type counters struct {
	nfaSearches     atomic.Uint64
	literalSearches atomic.Uint64
	prefilterHits   atomic.Uint64
	prefilterMisses atomic.Uint64
}

// Exec reports the leftmost-first match that starts exactly at at.
func (e *Engine) Exec(input string, at int) (nfa.Thread, bool) {
	if at < 0 || at > len(input) {
		return nfa.Thread{}, false
	}
	if e.strategy == UseLiteral {
		e.stats.literalSearches.Add(1)
		if !strings.HasPrefix(input[at:], e.literal) {
			return nfa.Thread{}, false
		}
		return e.literalThread(at), true
	}

	e.stats.nfaSearches.Add(1)
	state := e.getSearchState()
	defer e.putSearchState(state)
	return e.pikevm.Run(input, at, state.cache)
}

// SearchAt returns the offset and thread of the first match starting at or
// after at.
func (e *Engine) SearchAt(input string, at int) (int, nfa.Thread, bool) {
	if at < 0 || at > len(input) {
		return -1, nfa.Thread{}, false
	}

	switch e.strategy {
	case UseLiteral:
		e.stats.literalSearches.Add(1)
		pos := simd.Memmem(input[at:], e.literal)
		if pos < 0 {
			return -1, nfa.Thread{}, false
		}
		return at + pos, e.literalThread(at + pos), true

	case UsePrefilter:
		e.stats.nfaSearches.Add(1)
		state := e.getSearchState()
		defer e.putSearchState(state)
		candidate := -1
		next := func(from int) int {
			if candidate >= 0 {
				e.stats.prefilterMisses.Add(1)
			}
			candidate = e.prefilter.Find(input, from)
			return candidate
		}
		start, t, ok := nfa.Search(e.pikevm, input, at, state.cache, next)
		if ok {
			e.stats.prefilterHits.Add(1)
		}
		return start, t, ok

	default:
		e.stats.nfaSearches.Add(1)
		state := e.getSearchState()
		defer e.putSearchState(state)
		return nfa.Search(e.pikevm, input, at, state.cache, nil)
	}
}

// literalThread builds the thread for a literal match at start. A literal
// program is a run of InstRune followed by InstAccept, with no captures.
func (e *Engine) literalThread(start int) nfa.Thread {
	return nfa.Thread{PC: e.prog.Len() - 1, End: start + len(e.literal), Caps: []int{}}
}

// Program returns the compiled program.
func (e *Engine) Program() *nfa.Program {
	return e.prog
}

// Strategy returns the execution strategy selected for this engine.
//
// Example:
//
//	strategy := engine.Strategy()
//	println(strategy.String()) // "UsePrefilter"
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Prefilter returns the prefilter, or nil when the strategy does not use one.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// NumCaptures returns the number of capture groups in the pattern.
// Group 0 is the entire match and is not counted.
func (e *Engine) NumCaptures() int {
	return e.prog.NumSlots
}

// SubexpNames returns the names of capture groups in the pattern.
// Index 0 is always "" (entire match); unnamed groups return "".
func (e *Engine) SubexpNames() []string {
	return e.prog.Names
}

// Stats returns execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("NFA searches:", stats.NFASearches)
func (e *Engine) Stats() Stats {
	return Stats{
		NFASearches:     e.stats.nfaSearches.Load(),
		LiteralSearches: e.stats.literalSearches.Load(),
		PrefilterHits:   e.stats.prefilterHits.Load(),
		PrefilterMisses: e.stats.prefilterMisses.Load(),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	e.stats.nfaSearches.Store(0)
	e.stats.literalSearches.Store(0)
	e.stats.prefilterHits.Store(0)
	e.stats.prefilterMisses.Store(0)
}

// getSearchState retrieves a SearchState from the pool.
// Caller must call putSearchState when done.
func (e *Engine) getSearchState() *SearchState {
	return e.statePool.get()
}

// putSearchState returns a SearchState to the pool.
func (e *Engine) putSearchState(state *SearchState) {
	e.statePool.put(state)
}

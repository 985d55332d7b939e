package meta

import (
	"sync"

	"github.com/coregx/regexvm/nfa"
)

// SearchState holds per-search mutable state for thread-safe concurrent searches.
// It is obtained from a sync.Pool so that the same compiled Engine can be
// used from multiple goroutines.
//
// Usage pattern:
//
//	state := engine.getSearchState()
//	defer engine.putSearchState(state)
//	// use state for search operations
//
// Thread safety: Each goroutine must use its own SearchState instance.
type SearchState struct {
	// cache holds the PikeVM thread lists and closure stack.
	cache *nfa.Cache
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
}

// newSearchStatePool creates a pool whose states are sized for vm.
func newSearchStatePool(vm *nfa.PikeVM) *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			return &SearchState{cache: vm.NewCache()}
		},
	}
	return p
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse. The PikeVM clears its
// thread lists at the start of every run, so no reset is needed here.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}

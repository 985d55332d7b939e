package nfa

import (
	"unicode/utf8"

	"github.com/coregx/regexvm/internal/conv"
	"github.com/coregx/regexvm/internal/sparse"
)

// Thread is the outcome of a successful run.
type Thread struct {
	// PC is the address of the InstAccept that was reached.
	PC int
	// End is the offset just past the match.
	End int
	// Caps holds the start and end offsets of capture group i at
	// Caps[2*(i-1)] and Caps[2*(i-1)+1]; -1 marks an unset offset.
	Caps []int
}

// Runner executes a program anchored at a start offset.
//
// The PikeVM is the production implementation; the interface is the seam
// for alternative engines.
type Runner interface {
	// Run reports the highest-priority match that starts exactly at start.
	Run(input string, start int, cache *Cache) (Thread, bool)
	// NewCache allocates scratch space for Run.
	NewCache() *Cache
}

// slots holds capture offsets followed by loop entry offsets. A slots value
// is shared by every thread derived from it and never modified in place;
// set returns a modified copy.
type slots []int

func (s slots) set(i, v int) slots {
	c := make(slots, len(s))
	copy(c, s)
	c[i] = v
	return c
}

// thread represents an execution thread in the PikeVM.
type thread struct {
	pc    int
	slots slots
}

// threadList is an insertion-ordered list of threads with at most one
// thread per pc. Order is priority order.
type threadList struct {
	seen    *sparse.SparseSet
	threads []thread
}

func newThreadList(n int) threadList {
	return threadList{
		seen:    sparse.NewSparseSet(conv.IntToUint32(n)),
		threads: make([]thread, 0, n),
	}
}

func (l *threadList) clear() {
	l.seen.Clear()
	l.threads = l.threads[:0]
}

type frame struct {
	pc    int
	slots slots
}

// Cache holds the mutable state of a run. A Cache must not be used by more
// than one goroutine at a time; pool it for concurrent use.
type Cache struct {
	clist threadList
	nlist threadList
	stack []frame
}

// PikeVM simulates a Program in lockstep over the input.
//
// All live threads sit at the same input offset. Each step feeds the next
// code point to every thread in priority order, and threads that survive
// are re-closed over epsilon instructions into the next list. Since a pc is
// added at most once per list, a run takes O(len(input) * len(program)) time.
//
// Thread safety: a PikeVM is immutable and may be shared. Per-run state
// lives in Cache.
type PikeVM struct {
	prog    *Program
	capLen  int
	slotLen int
}

// NewPikeVM creates a PikeVM for prog.
func NewPikeVM(prog *Program) *PikeVM {
	return &PikeVM{
		prog:    prog,
		capLen:  2 * prog.NumSlots,
		slotLen: 2*prog.NumSlots + prog.NumLoops,
	}
}

// Program returns the program the VM runs.
func (vm *PikeVM) Program() *Program {
	return vm.prog
}

// NewCache allocates scratch space sized for the program.
func (vm *PikeVM) NewCache() *Cache {
	n := len(vm.prog.Insts)
	return &Cache{
		clist: newThreadList(n),
		nlist: newThreadList(n),
		stack: make([]frame, 0, 16),
	}
}

// Run reports the leftmost-first match that starts exactly at start.
// A nil cache is allowed and allocates a fresh one.
func (vm *PikeVM) Run(input string, start int, cache *Cache) (Thread, bool) {
	if cache == nil {
		cache = vm.NewCache()
	}
	clist, nlist := &cache.clist, &cache.nlist
	clist.clear()
	nlist.clear()

	initial := make(slots, vm.slotLen)
	for i := range initial {
		initial[i] = -1
	}

	var best Thread
	matched := false
	pos := start
	vm.add(clist, cache, 0, input, pos, initial)
	for len(clist.threads) > 0 {
		r, width := endOfText, 0
		if pos < len(input) {
			r, width = utf8.DecodeRuneInString(input[pos:])
		}
	step:
		for _, t := range clist.threads {
			inst := &vm.prog.Insts[t.pc]
			switch {
			case inst.Op == InstAccept:
				// Lower-priority threads can no longer produce a better match.
				best = Thread{PC: t.pc, End: pos, Caps: append([]int(nil), t.slots[:vm.capLen]...)}
				matched = true
				break step
			case width > 0 && inst.MatchRune(r):
				vm.add(nlist, cache, t.pc+1, input, pos+width, t.slots)
			}
		}
		if width == 0 {
			break
		}
		pos += width
		clist, nlist = nlist, clist
		nlist.clear()
	}
	return best, matched
}

// add computes the epsilon closure of pc at offset pos and appends the
// resulting consuming and accepting threads to l in priority order.
func (vm *PikeVM) add(l *threadList, cache *Cache, pc int, input string, pos int, s slots) {
	stack := append(cache.stack[:0], frame{pc: pc, slots: s})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pc, s := f.pc, f.slots
		if l.seen.Contains(uint32(pc)) {
			continue
		}
		l.seen.Insert(uint32(pc))

		inst := &vm.prog.Insts[pc]
		switch inst.Op {
		case InstJump:
			stack = append(stack, frame{inst.X, s})
		case InstSplit:
			if inst.Loop != 0 {
				s = s.set(vm.capLen+inst.Loop-1, pos)
			}
			// Y is pushed first so that X is explored first.
			stack = append(stack, frame{inst.Y, s}, frame{inst.X, s})
		case InstCaptureOpen:
			i := 2 * (inst.Slot - 1)
			s = s.set(i, pos)
			s[i+1] = -1
			stack = append(stack, frame{pc + 1, s})
		case InstCaptureClose:
			stack = append(stack, frame{pc + 1, s.set(2*(inst.Slot-1)+1, pos)})
		case InstAssertStart:
			if atStart(input, pos, inst.Multiline) {
				stack = append(stack, frame{pc + 1, s})
			}
		case InstAssertEnd:
			if atEnd(input, pos, inst.Multiline) {
				stack = append(stack, frame{pc + 1, s})
			}
		case InstWordBoundary:
			if atWordBoundary(input, pos) {
				stack = append(stack, frame{pc + 1, s})
			}
		case InstNonWordBoundary:
			if !atWordBoundary(input, pos) {
				stack = append(stack, frame{pc + 1, s})
			}
		case InstProgressCheck:
			if s[vm.capLen+inst.Loop-1] != pos {
				stack = append(stack, frame{pc + 1, s})
			}
		case InstNoop:
			stack = append(stack, frame{pc + 1, s})
		case InstFail:
		default:
			l.threads = append(l.threads, thread{pc: pc, slots: s})
		}
	}
	cache.stack = stack
}

// Search runs the VM at every rune boundary from start onwards and returns
// the offset of the first match.
func (vm *PikeVM) Search(input string, start int, cache *Cache) (int, Thread, bool) {
	return Search(vm, input, start, cache, nil)
}

// Search runs r at successive rune boundaries from start onwards and returns
// the first offset where it matches. next, if non-nil, maps an offset to the
// next offset worth trying, or -1 when no later offset can match.
func Search(r Runner, input string, start int, cache *Cache, next func(at int) int) (int, Thread, bool) {
	if cache == nil {
		cache = r.NewCache()
	}
	at := start
	for at <= len(input) {
		if next != nil {
			if at = next(at); at < 0 {
				break
			}
		}
		if t, ok := r.Run(input, at, cache); ok {
			return at, t, true
		}
		if at == len(input) {
			break
		}
		_, w := utf8.DecodeRuneInString(input[at:])
		at += w
	}
	return -1, Thread{}, false
}

package nfa

import (
	"github.com/coregx/regexvm/charclass"
	"github.com/coregx/regexvm/syntax"
)

// Compiler lowers a syntax tree into a Program using Thompson's construction.
//
// Every node is compiled in post-order into a contiguous block of
// instructions; forward jumps are emitted with placeholder targets and
// patched once the target address is known. A Compiler can be reused for
// several trees; each Compile call starts from scratch.
type Compiler struct {
	insts    []Inst
	numSlots int
	numLoops int
}

// NewCompiler creates a new compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile compiles re with a fresh Compiler.
func Compile(re *syntax.Expr) *Program {
	return NewCompiler().Compile(re)
}

// Compile returns the program for re, terminated by InstAccept.
func (c *Compiler) Compile(re *syntax.Expr) *Program {
	c.insts = nil
	c.numSlots = 0
	c.numLoops = 0

	c.compile(re)
	c.emit(Inst{Op: InstAccept})

	names := re.CaptureNames()
	if len(names) < c.numSlots+1 {
		names = append(names, make([]string, c.numSlots+1-len(names))...)
	}
	return &Program{
		Insts:    c.insts,
		NumSlots: c.numSlots,
		NumLoops: c.numLoops,
		Names:    names,
	}
}

// emit appends inst and returns its address.
func (c *Compiler) emit(inst Inst) int {
	c.insts = append(c.insts, inst)
	return len(c.insts) - 1
}

func (c *Compiler) next() int {
	return len(c.insts)
}

func (c *Compiler) compile(re *syntax.Expr) {
	switch re.Op {
	case syntax.OpEmpty:
	case syntax.OpLiteral:
		c.emit(Inst{Op: InstRune, Lo: re.Rune, Hi: re.Rune})
	case syntax.OpLiteralString:
		for _, r := range re.Str {
			c.emit(Inst{Op: InstRune, Lo: r, Hi: r})
		}
	case syntax.OpCharClass:
		c.compileClass(re.Ranges)
	case syntax.OpTable:
		c.emit(Inst{Op: InstTable, Table: re.Table})
	case syntax.OpNegatedTable:
		c.emit(Inst{Op: InstNegatedTable, Table: re.Table})
	case syntax.OpAlternate:
		split := c.emit(Inst{Op: InstSplit})
		c.insts[split].X = c.next()
		c.compile(re.Left)
		jump := c.emit(Inst{Op: InstJump})
		c.insts[split].Y = c.next()
		c.compile(re.Right)
		c.insts[jump].X = c.next()
	case syntax.OpConcat:
		c.compile(re.Left)
		c.compile(re.Right)
	case syntax.OpRepeat:
		c.compileRepeat(re)
	case syntax.OpCapture:
		c.numSlots = max(c.numSlots, re.Slot)
		c.emit(Inst{Op: InstCaptureOpen, Slot: re.Slot, Name: re.Name})
		c.compile(re.Sub)
		c.emit(Inst{Op: InstCaptureClose, Slot: re.Slot})
	case syntax.OpAssertStart:
		c.emit(Inst{Op: InstAssertStart, Multiline: re.Multiline})
	case syntax.OpAssertEnd:
		c.emit(Inst{Op: InstAssertEnd, Multiline: re.Multiline})
	case syntax.OpWordBoundary:
		c.emit(Inst{Op: InstWordBoundary})
	case syntax.OpNonWordBoundary:
		c.emit(Inst{Op: InstNonWordBoundary})
	default:
		c.emit(Inst{Op: InstFail})
	}
}

// compileClass emits a balanced ladder of splits over the ranges. Each leaf
// matches one range and jumps to the common exit, except the last leaf,
// which falls through. An empty class never matches.
func (c *Compiler) compileClass(ranges []charclass.Range) {
	if len(ranges) == 0 {
		c.emit(Inst{Op: InstFail})
		return
	}
	var exits []int
	c.classLadder(ranges, true, &exits)
	end := c.next()
	for _, pc := range exits {
		c.insts[pc].X = end
	}
}

func (c *Compiler) classLadder(ranges []charclass.Range, last bool, exits *[]int) {
	if len(ranges) == 1 {
		r := ranges[0]
		if r.Lo == r.Hi {
			c.emit(Inst{Op: InstRune, Lo: r.Lo, Hi: r.Hi})
		} else {
			c.emit(Inst{Op: InstRange, Lo: r.Lo, Hi: r.Hi})
		}
		if !last {
			*exits = append(*exits, c.emit(Inst{Op: InstJump}))
		}
		return
	}
	mid := len(ranges) / 2
	split := c.emit(Inst{Op: InstSplit})
	c.insts[split].X = c.next()
	c.classLadder(ranges[:mid], false, exits)
	c.insts[split].Y = c.next()
	c.classLadder(ranges[mid:], last, exits)
}

// compileRepeat emits Min mandatory copies of the body followed by either
// (Max-Min) optional blocks or, for an unbounded repetition, one loop:
//
//	L: split body, exit   (loop head, records the entry offset)
//	   body
//	   progress           (dies if nothing was consumed since L)
//	   jmp L
//
// Lazy repetitions swap the split priorities.
func (c *Compiler) compileRepeat(re *syntax.Expr) {
	for i := 0; i < re.Min; i++ {
		c.compile(re.Sub)
	}
	if re.Max < 0 {
		c.numLoops++
		loop := c.numLoops
		head := c.emit(Inst{Op: InstSplit, Loop: loop})
		c.compile(re.Sub)
		c.emit(Inst{Op: InstProgressCheck, Loop: loop})
		c.emit(Inst{Op: InstJump, X: head})
		c.setSplit(head, head+1, c.next(), re.Greedy)
		return
	}
	for i := re.Min; i < re.Max; i++ {
		split := c.emit(Inst{Op: InstSplit})
		c.compile(re.Sub)
		c.setSplit(split, split+1, c.next(), re.Greedy)
	}
}

func (c *Compiler) setSplit(pc, take, skip int, greedy bool) {
	if greedy {
		c.insts[pc].X, c.insts[pc].Y = take, skip
	} else {
		c.insts[pc].X, c.insts[pc].Y = skip, take
	}
}

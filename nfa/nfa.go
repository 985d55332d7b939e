// Package nfa compiles syntax trees into Thompson NFA programs and runs them
// with a Pike VM.
//
// A Program is a flat list of instructions. Consuming instructions (InstRune,
// InstRange, InstTable, InstNegatedTable) match one code point; the rest are
// epsilon transitions (InstJump, InstSplit), capture markers, zero-width
// assertions and loop-progress checks. Instruction 0 is the entry point and
// the program always contains an InstAccept. Programs are immutable once
// compiled and may be shared by any number of goroutines.
package nfa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/regexvm/charclass"
)

// InstOp identifies the kind of an instruction and determines which Inst
// fields are meaningful.
type InstOp uint8

const (
	// InstRune matches the single code point Lo.
	InstRune InstOp = iota
	// InstRange matches one code point in [Lo, Hi].
	InstRange
	// InstTable matches one code point in Table.
	InstTable
	// InstNegatedTable matches one code point not in Table.
	InstNegatedTable
	// InstAccept reports a match.
	InstAccept
	// InstJump continues at X.
	InstJump
	// InstSplit continues at X and, with lower priority, at Y.
	// A non-zero Loop marks the head of an unbounded repetition.
	InstSplit
	// InstCaptureOpen records the start of capture group Slot.
	InstCaptureOpen
	// InstCaptureClose records the end of capture group Slot.
	InstCaptureClose
	// InstAssertStart succeeds at the start of input, or after '\n' when Multiline.
	InstAssertStart
	// InstAssertEnd succeeds at the end of input, or before '\n' when Multiline.
	InstAssertEnd
	// InstWordBoundary succeeds between a word and a non-word character.
	InstWordBoundary
	// InstNonWordBoundary succeeds where InstWordBoundary does not.
	InstNonWordBoundary
	// InstProgressCheck kills the thread unless input was consumed since
	// the loop head with the same Loop was entered.
	InstProgressCheck
	// InstNoop continues at the next instruction.
	InstNoop
	// InstFail never matches.
	InstFail
)

var instOpNames = [...]string{
	InstRune:            "rune",
	InstRange:           "range",
	InstTable:           "table",
	InstNegatedTable:    "ntable",
	InstAccept:          "accept",
	InstJump:            "jmp",
	InstSplit:           "split",
	InstCaptureOpen:     "open",
	InstCaptureClose:    "close",
	InstAssertStart:     "start",
	InstAssertEnd:       "end",
	InstWordBoundary:    "wb",
	InstNonWordBoundary: "nwb",
	InstProgressCheck:   "progress",
	InstNoop:            "nop",
	InstFail:            "fail",
}

var instOpConsts = [...]string{
	InstRune:            "InstRune",
	InstRange:           "InstRange",
	InstTable:           "InstTable",
	InstNegatedTable:    "InstNegatedTable",
	InstAccept:          "InstAccept",
	InstJump:            "InstJump",
	InstSplit:           "InstSplit",
	InstCaptureOpen:     "InstCaptureOpen",
	InstCaptureClose:    "InstCaptureClose",
	InstAssertStart:     "InstAssertStart",
	InstAssertEnd:       "InstAssertEnd",
	InstWordBoundary:    "InstWordBoundary",
	InstNonWordBoundary: "InstNonWordBoundary",
	InstProgressCheck:   "InstProgressCheck",
	InstNoop:            "InstNoop",
	InstFail:            "InstFail",
}

// String returns the mnemonic used in program listings.
func (op InstOp) String() string {
	if int(op) < len(instOpNames) {
		return instOpNames[op]
	}
	return fmt.Sprintf("InstOp(%d)", op)
}

// ConstName returns the Go identifier of the constant, e.g. "InstSplit".
func (op InstOp) ConstName() string {
	if int(op) < len(instOpConsts) {
		return instOpConsts[op]
	}
	return ""
}

// Inst is a single instruction.
type Inst struct {
	Op InstOp

	Lo, Hi rune             // InstRune (Lo only), InstRange
	Table  *charclass.Table // InstTable, InstNegatedTable

	X, Y int // InstJump (X), InstSplit

	Slot int    // InstCaptureOpen, InstCaptureClose; groups count from 1
	Name string // InstCaptureOpen of a named group

	// Loop identifies an unbounded repetition, counting from 1. It is set on
	// the loop-head InstSplit and on the matching InstProgressCheck.
	Loop int

	Multiline bool // InstAssertStart, InstAssertEnd
}

// Consumes reports whether the instruction matches a code point.
func (i *Inst) Consumes() bool {
	switch i.Op {
	case InstRune, InstRange, InstTable, InstNegatedTable:
		return true
	}
	return false
}

// MatchRune reports whether a consuming instruction matches r.
func (i *Inst) MatchRune(r rune) bool {
	switch i.Op {
	case InstRune:
		return r == i.Lo
	case InstRange:
		return i.Lo <= r && r <= i.Hi
	case InstTable:
		return r >= 0 && i.Table.Contains(r)
	case InstNegatedTable:
		return r >= 0 && !i.Table.Contains(r)
	}
	return false
}

// String renders the instruction without its address.
func (i *Inst) String() string {
	switch i.Op {
	case InstRune:
		return "rune " + strconv.QuoteRune(i.Lo)
	case InstRange:
		return "range " + strconv.QuoteRune(i.Lo) + "-" + strconv.QuoteRune(i.Hi)
	case InstTable, InstNegatedTable:
		return i.Op.String() + " " + i.Table.Name
	case InstJump:
		return "jmp " + strconv.Itoa(i.X)
	case InstSplit:
		s := "split " + strconv.Itoa(i.X) + ", " + strconv.Itoa(i.Y)
		if i.Loop != 0 {
			s += " loop " + strconv.Itoa(i.Loop)
		}
		return s
	case InstCaptureOpen:
		s := "open " + strconv.Itoa(i.Slot)
		if i.Name != "" {
			s += " <" + i.Name + ">"
		}
		return s
	case InstCaptureClose:
		return "close " + strconv.Itoa(i.Slot)
	case InstAssertStart, InstAssertEnd:
		if i.Multiline {
			return i.Op.String() + " multiline"
		}
		return i.Op.String()
	case InstProgressCheck:
		return "progress " + strconv.Itoa(i.Loop)
	}
	return i.Op.String()
}

// Program is a compiled pattern.
type Program struct {
	Insts []Inst
	// NumSlots is the number of capture groups, not counting the implicit
	// group 0 that spans the whole match.
	NumSlots int
	// NumLoops is the number of unbounded repetitions.
	NumLoops int
	// Names holds the group names indexed by slot; Names[0] is always "".
	Names []string
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Insts)
}

// String renders a listing with one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for pc := range p.Insts {
		fmt.Fprintf(&sb, "%3d  %s\n", pc, p.Insts[pc].String())
	}
	return sb.String()
}

// Validate checks the structural invariants a Program must satisfy before it
// is run: jump targets in range, tables present, slots and loops within the
// declared counts, and at least one InstAccept. Compiled programs always
// validate; Validate exists for programs constructed by other means, such as
// generated code.
func (p *Program) Validate() error {
	n := len(p.Insts)
	if n == 0 {
		return &ProgramError{PC: -1, Message: "empty program"}
	}
	if len(p.Names) != p.NumSlots+1 {
		return &ProgramError{PC: -1, Message: fmt.Sprintf("%d names for %d slots", len(p.Names), p.NumSlots)}
	}
	accept := false
	for pc := range p.Insts {
		inst := &p.Insts[pc]
		switch inst.Op {
		case InstAccept:
			accept = true
		case InstJump:
			if inst.X < 0 || inst.X >= n {
				return &ProgramError{PC: pc, Message: "jump target out of range"}
			}
		case InstSplit:
			if inst.X < 0 || inst.X >= n || inst.Y < 0 || inst.Y >= n {
				return &ProgramError{PC: pc, Message: "split target out of range"}
			}
			if inst.Loop < 0 || inst.Loop > p.NumLoops {
				return &ProgramError{PC: pc, Message: "loop out of range"}
			}
		case InstProgressCheck:
			if inst.Loop < 1 || inst.Loop > p.NumLoops {
				return &ProgramError{PC: pc, Message: "loop out of range"}
			}
		case InstCaptureOpen, InstCaptureClose:
			if inst.Slot < 1 || inst.Slot > p.NumSlots {
				return &ProgramError{PC: pc, Message: "capture slot out of range"}
			}
		case InstTable, InstNegatedTable:
			if inst.Table == nil {
				return &ProgramError{PC: pc, Message: "missing table"}
			}
		case InstRune, InstRange, InstAssertStart, InstAssertEnd,
			InstWordBoundary, InstNonWordBoundary, InstNoop, InstFail:
		default:
			return &ProgramError{PC: pc, Message: "unknown opcode " + inst.Op.String()}
		}
		if inst.Op != InstAccept && inst.Op != InstJump && inst.Op != InstSplit &&
			inst.Op != InstFail && pc+1 >= n {
			return &ProgramError{PC: pc, Message: "falls off the end of the program"}
		}
	}
	if !accept {
		return &ProgramError{PC: -1, Message: "no accept instruction"}
	}
	return nil
}

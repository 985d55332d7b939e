// Package syntax parses regular expression patterns into an abstract syntax
// tree.
//
// The tree is deliberately small: every construct of the pattern language is
// lowered into one of the Op kinds below. Character classes are fully resolved
// at parse time (including case folding), non-capturing groups disappear and
// inline flags are applied to the nodes they govern, so later stages never see
// flags.
package syntax

import (
	"strconv"
	"strings"

	"github.com/coregx/regexvm/charclass"
)

// Op is the kind of an Expr node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota + 1
	// OpLiteral matches Rune.
	OpLiteral
	// OpLiteralString matches Str.
	OpLiteralString
	// OpCharClass matches one code point in Ranges.
	OpCharClass
	// OpTable matches one code point in Table.
	OpTable
	// OpNegatedTable matches one code point not in Table.
	OpNegatedTable
	// OpAlternate matches Left, or Right if Left fails.
	OpAlternate
	// OpConcat matches Left followed by Right.
	OpConcat
	// OpRepeat matches Sub between Min and Max times (Max < 0 means unbounded).
	OpRepeat
	// OpCapture matches Sub and records the span in capture slot Slot.
	OpCapture
	// OpAssertStart matches at the start of input (or line, with Multiline).
	OpAssertStart
	// OpAssertEnd matches at the end of input (or line, with Multiline).
	OpAssertEnd
	// OpWordBoundary matches between a word and a non-word character.
	OpWordBoundary
	// OpNonWordBoundary matches where OpWordBoundary does not.
	OpNonWordBoundary
)

var opNames = [...]string{
	OpEmpty:           "Empty",
	OpLiteral:         "Literal",
	OpLiteralString:   "LiteralString",
	OpCharClass:       "CharClass",
	OpTable:           "Table",
	OpNegatedTable:    "NegatedTable",
	OpAlternate:       "Alternate",
	OpConcat:          "Concat",
	OpRepeat:          "Repeat",
	OpCapture:         "Capture",
	OpAssertStart:     "AssertStart",
	OpAssertEnd:       "AssertEnd",
	OpWordBoundary:    "WordBoundary",
	OpNonWordBoundary: "NonWordBoundary",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Expr is a node of the syntax tree. Which fields are meaningful depends on Op.
type Expr struct {
	Op Op

	Rune   rune               // OpLiteral
	Str    string             // OpLiteralString
	Ranges []charclass.Range  // OpCharClass, canonical
	Table  *charclass.Table   // OpTable, OpNegatedTable

	Left  *Expr // OpAlternate, OpConcat
	Right *Expr // OpAlternate, OpConcat

	Sub    *Expr // OpRepeat, OpCapture
	Min    int   // OpRepeat
	Max    int   // OpRepeat; -1 for no upper bound
	Greedy bool  // OpRepeat

	Slot int    // OpCapture, counted from 1 in source order
	Name string // OpCapture, empty for unnamed groups

	Multiline bool // OpAssertStart, OpAssertEnd
}

// String returns a compact dump of the tree, used in tests and debugging.
//
//	cat{lit{a}rep{0,-1 cc{0-9}}}
func (e *Expr) String() string {
	var sb strings.Builder
	dump(&sb, e)
	return sb.String()
}

func dump(sb *strings.Builder, e *Expr) {
	switch e.Op {
	case OpEmpty:
		sb.WriteString("emp{}")
	case OpLiteral:
		sb.WriteString("lit{")
		sb.WriteRune(e.Rune)
		sb.WriteString("}")
	case OpLiteralString:
		sb.WriteString("str{")
		sb.WriteString(e.Str)
		sb.WriteString("}")
	case OpCharClass:
		sb.WriteString("cc{")
		sb.WriteString(charclass.Format(e.Ranges))
		sb.WriteString("}")
	case OpTable:
		sb.WriteString("tbl{" + e.Table.Name + "}")
	case OpNegatedTable:
		sb.WriteString("ntbl{" + e.Table.Name + "}")
	case OpAlternate, OpConcat:
		if e.Op == OpAlternate {
			sb.WriteString("alt{")
		} else {
			sb.WriteString("cat{")
		}
		dump(sb, e.Left)
		if e.Op == OpAlternate {
			sb.WriteString("|")
		}
		dump(sb, e.Right)
		sb.WriteString("}")
	case OpRepeat:
		sb.WriteString("rep{")
		sb.WriteString(strconv.Itoa(e.Min))
		sb.WriteString(",")
		sb.WriteString(strconv.Itoa(e.Max))
		if !e.Greedy {
			sb.WriteString("?")
		}
		sb.WriteString(" ")
		dump(sb, e.Sub)
		sb.WriteString("}")
	case OpCapture:
		sb.WriteString("cap{")
		sb.WriteString(strconv.Itoa(e.Slot))
		if e.Name != "" {
			sb.WriteString(":" + e.Name)
		}
		sb.WriteString(" ")
		dump(sb, e.Sub)
		sb.WriteString("}")
	case OpAssertStart:
		if e.Multiline {
			sb.WriteString("bol{}")
		} else {
			sb.WriteString("bot{}")
		}
	case OpAssertEnd:
		if e.Multiline {
			sb.WriteString("eol{}")
		} else {
			sb.WriteString("eot{}")
		}
	case OpWordBoundary:
		sb.WriteString("wb{}")
	case OpNonWordBoundary:
		sb.WriteString("nwb{}")
	default:
		sb.WriteString(e.Op.String())
	}
}

// NumCaptures returns the number of OpCapture nodes in the tree.
func (e *Expr) NumCaptures() int {
	switch e.Op {
	case OpCapture:
		return 1 + e.Sub.NumCaptures()
	case OpRepeat:
		return e.Sub.NumCaptures()
	case OpAlternate, OpConcat:
		return e.Left.NumCaptures() + e.Right.NumCaptures()
	}
	return 0
}

// CaptureNames returns the group names indexed by slot. Index 0 stands for
// the whole match and is always empty, as are unnamed groups.
func (e *Expr) CaptureNames() []string {
	names := make([]string, e.NumCaptures()+1)
	var walk func(*Expr)
	walk = func(e *Expr) {
		switch e.Op {
		case OpCapture:
			names[e.Slot] = e.Name
			walk(e.Sub)
		case OpRepeat:
			walk(e.Sub)
		case OpAlternate, OpConcat:
			walk(e.Left)
			walk(e.Right)
		}
	}
	walk(e)
	return names
}

// IsLiteral reports whether the tree matches exactly one fixed string and
// contains no groups or assertions.
func (e *Expr) IsLiteral() bool {
	switch e.Op {
	case OpLiteral, OpLiteralString:
		return true
	case OpConcat:
		return e.Left.IsLiteral() && e.Right.IsLiteral()
	}
	return false
}

// LiteralString returns the text matched by a tree for which IsLiteral holds.
func (e *Expr) LiteralString() string {
	switch e.Op {
	case OpLiteral:
		return string(e.Rune)
	case OpLiteralString:
		return e.Str
	case OpConcat:
		return e.Left.LiteralString() + e.Right.LiteralString()
	}
	return ""
}

// programSize estimates the number of instructions the compiler will emit,
// saturating at limit+1.
func programSize(e *Expr, limit int) int {
	sat := func(n int) int {
		if n > limit {
			return limit + 1
		}
		return n
	}
	switch e.Op {
	case OpEmpty:
		return 0
	case OpLiteralString:
		return sat(len([]rune(e.Str)))
	case OpCharClass:
		if len(e.Ranges) == 0 {
			return 1
		}
		return sat(3*len(e.Ranges) - 2)
	case OpAlternate:
		return sat(programSize(e.Left, limit) + programSize(e.Right, limit) + 2)
	case OpConcat:
		return sat(programSize(e.Left, limit) + programSize(e.Right, limit))
	case OpCapture:
		return sat(programSize(e.Sub, limit) + 2)
	case OpRepeat:
		sub := programSize(e.Sub, limit)
		n := e.Min * sub
		if e.Max < 0 {
			n += sub + 3
		} else {
			n += (e.Max - e.Min) * (sub + 1)
		}
		return sat(n)
	}
	return 1
}

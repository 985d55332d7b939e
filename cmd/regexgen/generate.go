package main

import (
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/regexvm"
	"github.com/coregx/regexvm/nfa"
	"github.com/coregx/regexvm/syntax"
)

const (
	rootPath      = "github.com/coregx/regexvm"
	nfaPath       = "github.com/coregx/regexvm/nfa"
	charclassPath = "github.com/coregx/regexvm/charclass"
)

// Options configures code generation.
type Options struct {
	// Pattern is the regular expression to compile.
	Pattern string

	// Flags are the matching flags, any of "imsU".
	Flags string

	// Name is the exported identifier of the generated Regex; the program
	// is declared as <Name>Program.
	Name string

	// Package is the Go package name for the generated code.
	Package string
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.Pattern == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	if !token.IsIdentifier(o.Name) || !token.IsExported(o.Name) {
		return fmt.Errorf("name %q is not an exported Go identifier", o.Name)
	}
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("package %q is not a Go identifier", o.Package)
	}
	return nil
}

// Generator turns a pattern into a Go file declaring its compiled program.
type Generator struct {
	opts   Options
	logger *Logger
}

// NewGenerator creates a generator for opts.
func NewGenerator(opts Options, logger *Logger) *Generator {
	return &Generator{opts: opts, logger: logger}
}

// Compile parses and compiles the pattern.
func (g *Generator) Compile() (*regexvm.Regex, error) {
	if err := g.opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	flags, err := syntax.ParseFlags(g.opts.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid flags %q: %w", g.opts.Flags, err)
	}

	g.logger.Section("Compile")
	g.logger.Log("pattern: %q flags: %q", g.opts.Pattern, flags.String())
	re, err := regexvm.Compile(g.opts.Pattern, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}

	prog := re.Program()
	g.logger.Log("%d instructions, %d groups, %d loops", prog.Len(), prog.NumSlots, prog.NumLoops)
	g.logger.Log("runtime strategy for the source pattern: %s", re.Strategy())
	return re, nil
}

// File builds the Go source for prog.
//
// The generated file declares
//
//	var <Name>Program = &nfa.Program{...}
//	var <Name> = regexvm.MustFromProgram(pattern, <Name>Program)
func (g *Generator) File(prog *nfa.Program) *jen.File {
	g.logger.Section("Generate")
	f := jen.NewFile(g.opts.Package)
	f.HeaderComment("Code generated by regexgen. DO NOT EDIT.")

	progName := g.opts.Name + "Program"
	insts := make([]jen.Code, len(prog.Insts))
	for pc := range prog.Insts {
		insts[pc] = instValue(&prog.Insts[pc])
	}
	names := make([]jen.Code, len(prog.Names))
	for i, n := range prog.Names {
		names[i] = jen.Lit(n)
	}
	g.logger.Log("emitting %s with %d instructions", progName, len(insts))

	f.Commentf("%s is the compiled program for %q.", progName, g.opts.Pattern)
	f.Var().Id(progName).Op("=").Op("&").Qual(nfaPath, "Program").Custom(multiline,
		jen.Id("Insts").Op(":").Index().Qual(nfaPath, "Inst").Custom(multiline, insts...),
		jen.Id("NumSlots").Op(":").Lit(prog.NumSlots),
		jen.Id("NumLoops").Op(":").Lit(prog.NumLoops),
		jen.Id("Names").Op(":").Index().String().Values(names...),
	)

	f.Line()
	f.Commentf("%s matches %q.", g.opts.Name, g.opts.Pattern)
	f.Var().Id(g.opts.Name).Op("=").Qual(rootPath, "MustFromProgram").Call(
		jen.Lit(g.opts.Pattern),
		jen.Id(progName),
	)
	return f
}

var multiline = jen.Options{
	Open:      "{",
	Close:     "}",
	Separator: ",",
	Multi:     true,
}

// instValue renders one instruction as a keyed composite literal, listing
// only the fields its opcode uses.
func instValue(inst *nfa.Inst) jen.Code {
	fields := []jen.Code{
		jen.Id("Op").Op(":").Qual(nfaPath, inst.Op.ConstName()),
	}
	field := func(name string, value jen.Code) {
		fields = append(fields, jen.Id(name).Op(":").Add(value))
	}

	switch inst.Op {
	case nfa.InstRune, nfa.InstRange:
		field("Lo", jen.LitRune(inst.Lo))
		field("Hi", jen.LitRune(inst.Hi))
	case nfa.InstTable, nfa.InstNegatedTable:
		field("Table", jen.Qual(charclassPath, "MustLookup").Call(jen.Lit(inst.Table.Name)))
	case nfa.InstJump:
		field("X", jen.Lit(inst.X))
	case nfa.InstSplit:
		field("X", jen.Lit(inst.X))
		field("Y", jen.Lit(inst.Y))
		if inst.Loop != 0 {
			field("Loop", jen.Lit(inst.Loop))
		}
	case nfa.InstCaptureOpen:
		field("Slot", jen.Lit(inst.Slot))
		if inst.Name != "" {
			field("Name", jen.Lit(inst.Name))
		}
	case nfa.InstCaptureClose:
		field("Slot", jen.Lit(inst.Slot))
	case nfa.InstAssertStart, nfa.InstAssertEnd:
		if inst.Multiline {
			field("Multiline", jen.True())
		}
	case nfa.InstProgressCheck:
		field("Loop", jen.Lit(inst.Loop))
	}
	return jen.Values(fields...)
}

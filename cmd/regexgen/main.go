// Command regexgen compiles a regular expression ahead of time and writes a
// Go file that declares the compiled program, so the pattern is not parsed
// at startup.
//
// Usage:
//
//	regexgen -pattern '(\w+)@(\w+)\.com' -name Email -package mail -output email_gen.go
//
// The generated file declares EmailProgram, an *nfa.Program, and Email, a
// *regexvm.Regex built from it with regexvm.MustFromProgram. With -dump the
// instruction listing is printed instead.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("regexgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts Options
	fs.StringVar(&opts.Pattern, "pattern", "", "regular expression to compile (required)")
	fs.StringVar(&opts.Flags, "flags", "", `matching flags, any of "imsU"`)
	fs.StringVar(&opts.Name, "name", "Pattern", "exported name of the generated variable")
	fs.StringVar(&opts.Package, "package", "main", "package name of the generated file")
	output := fs.String("output", "", "output file (default stdout)")
	dump := fs.Bool("dump", false, "print the instruction listing instead of Go code")
	verbose := fs.Bool("v", false, "log compilation details to stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "regexgen: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return 2
	}

	logger := NewLogger(*verbose)
	logger.SetOutput(stderr)

	gen := NewGenerator(opts, logger)
	re, err := gen.Compile()
	if err != nil {
		fmt.Fprintf(stderr, "regexgen: %v\n", err)
		return 1
	}

	if *dump {
		fmt.Fprint(stdout, re.Program())
		return 0
	}

	var buf bytes.Buffer
	if err := gen.File(re.Program()).Render(&buf); err != nil {
		fmt.Fprintf(stderr, "regexgen: failed to render code: %v\n", err)
		return 1
	}

	if *output == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			fmt.Fprintf(stderr, "regexgen: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(stderr, "regexgen: %v\n", err)
		return 1
	}
	logger.Log("wrote %s (%d bytes)", *output, buf.Len())
	return 0
}

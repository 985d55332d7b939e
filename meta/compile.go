package meta

import (
	"errors"

	"github.com/coregx/regexvm/literal"
	"github.com/coregx/regexvm/nfa"
	"github.com/coregx/regexvm/prefilter"
	"github.com/coregx/regexvm/syntax"
)

// Compile parses and compiles a pattern into an Engine.
//
// Returns an error if:
//   - Pattern syntax is invalid (the error wraps a *syntax.Error)
//   - Pattern exceeds the configured limits
//   - Configuration is invalid (*ConfigError)
//
// Example:
//
//	engine, err := meta.Compile("hello.*world", 0, meta.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	re, err := syntax.ParseWithLimits(pattern, flags, config.limits())
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	return NewEngine(nfa.Compile(re), re, config), nil
}

// NewEngine builds an Engine around a compiled program.
//
// re is the syntax tree prog was compiled from, used to extract prefilter
// literals. It may be nil for programs that were built elsewhere (for
// example, generated code), in which case the engine runs the PikeVM at
// every offset.
func NewEngine(prog *nfa.Program, re *syntax.Expr, config Config) *Engine {
	var pf prefilter.Prefilter
	if config.EnablePrefilter && re != nil {
		prefixes := literal.New(config.extractorConfig()).ExtractPrefixes(re)
		pf = prefilter.New(prefixes)
	}

	strategy := selectStrategy(re, pf, config)
	vm := nfa.NewPikeVM(prog)
	e := &Engine{
		prog:      prog,
		pikevm:    vm,
		strategy:  strategy,
		config:    config,
		statePool: newSearchStatePool(vm),
	}
	switch strategy {
	case UseLiteral:
		e.literal = re.LiteralString()
	case UsePrefilter:
		e.prefilter = pf
	}
	return e
}

// CompileError represents a pattern compilation error.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
// Syntax errors already carry the pattern and offset and are returned as is.
func (e *CompileError) Error() string {
	var syntaxErr *syntax.Error
	if errors.As(e.Err, &syntaxErr) {
		return e.Err.Error()
	}
	return "regexvm: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

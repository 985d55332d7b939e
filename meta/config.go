// Package meta implements the engine orchestrator that selects how a
// compiled program is searched.
//
// The engine coordinates three execution paths:
//   - Literal: the pattern is a plain string, so substring search is the engine
//   - Prefilter: fast literal-based candidate finding before the PikeVM runs
//   - NFA (PikeVM): the lockstep virtual machine, tried at every offset
//
// Strategy selection is based on:
//   - Whether the syntax tree is a plain literal
//   - Prefilter availability (extracted prefix literals)
//
// The engine hides the strategy from callers: every path yields the same
// leftmost-first match.
package meta

import (
	"github.com/coregx/regexvm/literal"
	"github.com/coregx/regexvm/syntax"
)

// Config controls engine behavior and resource limits.
//
// Configuration options affect:
//   - Strategy selection (prefilter enablement)
//   - Literal extraction limits
//   - Parser limits (repetition counts, nesting, program size)
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false // Force the PikeVM at every offset
//	engine, err := meta.Compile(`\w+@\w+`, 0, config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering and the literal
	// fast path. When false, the PikeVM runs at every offset.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of literals to extract for prefiltering.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal.
	// Default: 64
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes expanded into
	// literals.
	// Default: 10
	MaxClassSize int

	// MaxRepeat is the largest count accepted in a {m,n} repetition.
	// Default: 1000
	MaxRepeat int

	// MaxNesting limits the depth of nested groups and repetitions.
	// Default: 1000
	MaxNesting int

	// MaxProgramSize limits the number of instructions a pattern may
	// compile to.
	// Default: 1 << 20
	MaxProgramSize int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	limits := syntax.DefaultLimits()
	extract := literal.DefaultConfig()
	return Config{
		EnablePrefilter: true,
		MaxLiterals:     extract.MaxLiterals,
		MaxLiteralLen:   extract.MaxLiteralLen,
		MaxClassSize:    extract.MaxClassSize,
		MaxRepeat:       limits.MaxRepeat,
		MaxNesting:      limits.MaxNesting,
		MaxProgramSize:  limits.MaxSize,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
		if c.MaxLiteralLen < 1 || c.MaxLiteralLen > 1_024 {
			return &ConfigError{
				Field:   "MaxLiteralLen",
				Message: "must be between 1 and 1,024",
			}
		}
		if c.MaxClassSize < 0 || c.MaxClassSize > 256 {
			return &ConfigError{
				Field:   "MaxClassSize",
				Message: "must be between 0 and 256",
			}
		}
	}

	if c.MaxRepeat < 1 || c.MaxRepeat > 100_000 {
		return &ConfigError{
			Field:   "MaxRepeat",
			Message: "must be between 1 and 100,000",
		}
	}

	if c.MaxNesting < 1 || c.MaxNesting > 100_000 {
		return &ConfigError{
			Field:   "MaxNesting",
			Message: "must be between 1 and 100,000",
		}
	}

	if c.MaxProgramSize < 1 || c.MaxProgramSize > 1<<26 {
		return &ConfigError{
			Field:   "MaxProgramSize",
			Message: "must be between 1 and 67,108,864",
		}
	}

	return nil
}

func (c Config) limits() syntax.Limits {
	return syntax.Limits{
		MaxRepeat:  c.MaxRepeat,
		MaxNesting: c.MaxNesting,
		MaxSize:    c.MaxProgramSize,
	}
}

func (c Config) extractorConfig() literal.ExtractorConfig {
	return literal.ExtractorConfig{
		MaxLiterals:   c.MaxLiterals,
		MaxLiteralLen: c.MaxLiteralLen,
		MaxClassSize:  c.MaxClassSize,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexvm: invalid config: " + e.Field + ": " + e.Message
}

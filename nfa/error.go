package nfa

import (
	"errors"
	"fmt"
)

// ErrInvalidProgram is wrapped by every ProgramError.
var ErrInvalidProgram = errors.New("invalid program")

// ProgramError reports a Program that violates a structural invariant.
type ProgramError struct {
	// PC is the offending instruction, or -1 when the problem is not tied
	// to a single instruction.
	PC      int
	Message string
}

// Error implements the error interface
func (e *ProgramError) Error() string {
	if e.PC >= 0 {
		return fmt.Sprintf("invalid program at pc %d: %s", e.PC, e.Message)
	}
	return fmt.Sprintf("invalid program: %s", e.Message)
}

// Unwrap returns ErrInvalidProgram
func (e *ProgramError) Unwrap() error {
	return ErrInvalidProgram
}

package syntax

import "fmt"

// ErrorCode identifies why a pattern failed to parse.
//
// ErrorCode implements error so the codes can be used as sentinels:
//
//	if errors.Is(err, syntax.ErrExpectedClosingParen) { ... }
type ErrorCode uint8

const (
	// ErrEmptyAlternate indicates an alternation with an empty branch ("a|", "|a").
	ErrEmptyAlternate ErrorCode = iota + 1
	// ErrRepeatedRepetition indicates a repetition applied to a repetition ("a**").
	ErrRepeatedRepetition
	// ErrEmptyRepetition indicates a repetition operator with no operand ("*a").
	ErrEmptyRepetition
	// ErrEmptyRepetitionRange indicates {m,n} with m > n.
	ErrEmptyRepetitionRange
	// ErrRepetitionTooLarge indicates a repetition count above the configured maximum.
	ErrRepetitionTooLarge
	// ErrPatternTooLarge indicates that the expanded program would be too large.
	ErrPatternTooLarge
	// ErrNestingTooDeep indicates groups nested deeper than the configured maximum.
	ErrNestingTooDeep
	// ErrEmptyGroupName indicates "(?P<>...)".
	ErrEmptyGroupName
	// ErrDuplicateGroupName indicates two groups with the same name.
	ErrDuplicateGroupName
	// ErrEmptyPropertyName indicates "\p{}".
	ErrEmptyPropertyName
	// ErrInvalidClassName indicates an unknown \p{...} or [:name:] class.
	ErrInvalidClassName
	// ErrExpectedClosingParen indicates an unterminated group.
	ErrExpectedClosingParen
	// ErrExpectedClosingBracket indicates an unterminated bracket expression.
	ErrExpectedClosingBracket
	// ErrExpectedClosingBrace indicates an unterminated \x{...} or \p{...}.
	ErrExpectedClosingBrace
	// ErrExpectedClosingAngleBracket indicates an unterminated group name.
	ErrExpectedClosingAngleBracket
	// ErrExpectedAlphaNumeric indicates a group name character outside [0-9A-Za-z_].
	ErrExpectedAlphaNumeric
	// ErrUnexpectedClosingParen indicates a ")" with no open group.
	ErrUnexpectedClosingParen
	// ErrUnexpectedCharacter indicates unsupported group syntax or flags.
	ErrUnexpectedCharacter
	// ErrInvalidEscape indicates an unknown escape or a back-reference.
	ErrInvalidEscape
	// ErrIncompleteEscape indicates a trailing backslash.
	ErrIncompleteEscape
	// ErrInvalidUTF8 indicates a pattern that is not valid UTF-8.
	ErrInvalidUTF8
	// ErrEmptyCharClassRange indicates an inverted range ("[z-a]") or a class
	// that matches nothing ("[^\x{0}-\x{10FFFF}]").
	ErrEmptyCharClassRange
)

var errorMessages = [...]string{
	ErrEmptyAlternate:              "empty alternate",
	ErrRepeatedRepetition:          "repeated repetition operator",
	ErrEmptyRepetition:             "missing argument to repetition operator",
	ErrEmptyRepetitionRange:        "invalid repetition range",
	ErrRepetitionTooLarge:          "repetition count too large",
	ErrPatternTooLarge:             "expression too large",
	ErrNestingTooDeep:              "expression nests too deeply",
	ErrEmptyGroupName:              "empty group name",
	ErrDuplicateGroupName:          "duplicate group name",
	ErrEmptyPropertyName:           "empty property name",
	ErrInvalidClassName:            "invalid character class name",
	ErrExpectedClosingParen:        "missing closing )",
	ErrExpectedClosingBracket:      "missing closing ]",
	ErrExpectedClosingBrace:        "missing closing }",
	ErrExpectedClosingAngleBracket: "missing closing >",
	ErrExpectedAlphaNumeric:        "invalid character in group name",
	ErrUnexpectedClosingParen:      "unexpected )",
	ErrUnexpectedCharacter:         "unexpected character",
	ErrInvalidEscape:               "invalid escape sequence",
	ErrIncompleteEscape:            "trailing backslash at end of expression",
	ErrInvalidUTF8:                 "invalid UTF-8",
	ErrEmptyCharClassRange:         "invalid character class range",
}

// Error implements error.
func (c ErrorCode) Error() string {
	if int(c) < len(errorMessages) && errorMessages[c] != "" {
		return errorMessages[c]
	}
	return fmt.Sprintf("syntax error %d", uint8(c))
}

// String returns the error message.
func (c ErrorCode) String() string {
	return c.Error()
}

// Error describes a failure to parse a pattern.
type Error struct {
	Code    ErrorCode
	Pattern string
	// Offset is the byte offset in Pattern where the problem was detected.
	Offset int
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("regexvm: parse error: %s at offset %d in %q", e.Code, e.Offset, e.Pattern)
}

// Unwrap returns the ErrorCode for errors.Is.
func (e *Error) Unwrap() error {
	return e.Code
}

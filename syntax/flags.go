package syntax

import "strings"

// Flags control how a pattern is interpreted. They can be passed to Parse and
// changed inside the pattern with (?flags) and (?flags:...).
type Flags uint8

const (
	// FoldCase makes matching case-insensitive ("i").
	FoldCase Flags = 1 << iota
	// Multiline makes ^ and $ match at line boundaries ("m").
	Multiline
	// DotAll lets . match '\n' ("s").
	DotAll
	// Ungreedy swaps the meaning of x* and x*?, x+ and x+?, and so on ("U").
	Ungreedy
)

// flagFor maps an inline flag letter to its bit.
func flagFor(c byte) (Flags, bool) {
	switch c {
	case 'i':
		return FoldCase, true
	case 'm':
		return Multiline, true
	case 's':
		return DotAll, true
	case 'U':
		return Ungreedy, true
	}
	return 0, false
}

// ParseFlags parses a flag string such as "ims" into Flags.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for i := 0; i < len(s); i++ {
		bit, ok := flagFor(s[i])
		if !ok {
			return 0, &Error{Code: ErrUnexpectedCharacter, Pattern: s, Offset: i}
		}
		f |= bit
	}
	return f, nil
}

// String renders the flags in the form accepted by ParseFlags.
func (f Flags) String() string {
	var sb strings.Builder
	if f&FoldCase != 0 {
		sb.WriteByte('i')
	}
	if f&Multiline != 0 {
		sb.WriteByte('m')
	}
	if f&DotAll != 0 {
		sb.WriteByte('s')
	}
	if f&Ungreedy != 0 {
		sb.WriteByte('U')
	}
	return sb.String()
}

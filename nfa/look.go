package nfa

import (
	"unicode/utf8"

	"github.com/coregx/regexvm/charclass"
)

// endOfText is the sentinel code point seen before the start and past the
// end of the input. It matches no consuming instruction.
const endOfText rune = -1

func runeBefore(input string, pos int) rune {
	if pos <= 0 {
		return endOfText
	}
	r, _ := utf8.DecodeLastRuneInString(input[:pos])
	return r
}

func runeAt(input string, pos int) rune {
	if pos >= len(input) {
		return endOfText
	}
	r, _ := utf8.DecodeRuneInString(input[pos:])
	return r
}

func atStart(input string, pos int, multiline bool) bool {
	return pos == 0 || multiline && input[pos-1] == '\n'
}

func atEnd(input string, pos int, multiline bool) bool {
	return pos == len(input) || multiline && input[pos] == '\n'
}

// atWordBoundary reports whether exactly one of the code points around pos
// is a word character. Offsets are absolute, so a search that starts
// mid-input still sees the preceding text.
func atWordBoundary(input string, pos int) bool {
	return charclass.IsWord(runeBefore(input, pos)) != charclass.IsWord(runeAt(input, pos))
}

package syntax

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/regexvm/charclass"
)

// parseEscape parses an escape sequence outside brackets, starting at the
// backslash. \Q...\E yields one literal per quoted rune.
func (p *parser) parseEscape() ([]*Expr, error) {
	start := p.pos
	p.pos++
	if !p.more() {
		return nil, p.error(ErrIncompleteEscape, start)
	}
	switch c := p.src[p.pos]; c {
	case 'd', 'D', 's', 'S', 'w', 'W':
		p.pos++
		set, _ := charclass.Perl(c | 0x20)
		return []*Expr{p.class(set, c < 'a')}, nil
	case 'b':
		p.pos++
		return []*Expr{{Op: OpWordBoundary}}, nil
	case 'B':
		p.pos++
		return []*Expr{{Op: OpNonWordBoundary}}, nil
	case 'A':
		p.pos++
		return []*Expr{{Op: OpAssertStart}}, nil
	case 'z':
		p.pos++
		return []*Expr{{Op: OpAssertEnd}}, nil
	case 'p', 'P':
		tab, negate, err := p.parseProperty(start)
		if err != nil {
			return nil, err
		}
		if p.flags&FoldCase != 0 {
			return []*Expr{p.class(tab.Ranges(), negate)}, nil
		}
		if negate {
			return []*Expr{{Op: OpNegatedTable, Table: tab}}, nil
		}
		return []*Expr{{Op: OpTable, Table: tab}}, nil
	case 'Q':
		p.pos++
		var quoted string
		if end := strings.Index(p.src[p.pos:], `\E`); end >= 0 {
			quoted = p.src[p.pos : p.pos+end]
			p.pos += end + 2
		} else {
			quoted = p.src[p.pos:]
			p.pos = len(p.src)
		}
		out := make([]*Expr, 0, len(quoted))
		for _, r := range quoted {
			out = append(out, p.literal(r))
		}
		return out, nil
	}
	r, err := p.parseEscapeRune(start)
	if err != nil {
		return nil, err
	}
	return []*Expr{p.literal(r)}, nil
}

// parseEscapeRune parses an escape denoting a single code point. p.pos is
// just after the backslash at start.
func (p *parser) parseEscapeRune(start int) (rune, error) {
	c, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	switch {
	case c >= '1' && c <= '7':
		// A lone digit would be a back-reference.
		if !p.more() || p.src[p.pos] < '0' || p.src[p.pos] > '7' {
			return 0, p.error(ErrInvalidEscape, start)
		}
		fallthrough
	case c == '0':
		// Octal escapes stop at \377; a further digit is a literal.
		v := c - '0'
		for i := 0; i < 2 && p.more() && p.src[p.pos] >= '0' && p.src[p.pos] <= '7'; i++ {
			next := v*8 + rune(p.src[p.pos]-'0')
			if next > 0377 {
				break
			}
			v = next
			p.pos++
		}
		return v, nil
	case c == 'x':
		return p.parseHex(start)
	case c == 'a':
		return '\a', nil
	case c == 'f':
		return '\f', nil
	case c == 'n':
		return '\n', nil
	case c == 'r':
		return '\r', nil
	case c == 't':
		return '\t', nil
	case c == 'v':
		return '\v', nil
	case c == 'e':
		return 0x1B, nil
	case c < utf8.RuneSelf && !isNameChar(c):
		return c, nil
	}
	return 0, p.error(ErrInvalidEscape, start)
}

// parseHex parses the part of \xHH or \x{H...} after the 'x'.
func (p *parser) parseHex(start int) (rune, error) {
	if !p.more() {
		return 0, p.error(ErrIncompleteEscape, start)
	}
	var hex string
	if p.src[p.pos] == '{' {
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return 0, p.error(ErrExpectedClosingBrace, start)
		}
		hex = p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1
		if hex == "" || len(hex) > 8 {
			return 0, p.error(ErrInvalidEscape, start)
		}
	} else {
		if p.pos+2 > len(p.src) {
			return 0, p.error(ErrInvalidEscape, start)
		}
		hex = p.src[p.pos : p.pos+2]
		p.pos += 2
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > charclass.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, p.error(ErrInvalidEscape, start)
	}
	return rune(v), nil
}

// parseProperty parses \pN, \p{Name}, \p{^Name} and the \P forms, with p.pos
// at the 'p' or 'P'. negate reports whether the complement is meant.
func (p *parser) parseProperty(start int) (tab *charclass.Table, negate bool, err error) {
	negate = p.src[p.pos] == 'P'
	p.pos++
	if !p.more() {
		return nil, false, p.error(ErrIncompleteEscape, start)
	}
	var name string
	if p.src[p.pos] == '{' {
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return nil, false, p.error(ErrExpectedClosingBrace, start)
		}
		name = p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1
		if strings.HasPrefix(name, "^") {
			negate = !negate
			name = name[1:]
		}
	} else {
		r, w := utf8.DecodeRuneInString(p.src[p.pos:])
		name = string(r)
		p.pos += w
	}
	if name == "" {
		return nil, false, p.error(ErrEmptyPropertyName, start)
	}
	tab, err = charclass.Unicode(name)
	if err != nil {
		return nil, false, p.error(ErrInvalidClassName, start)
	}
	return tab, negate, nil
}

// parseClass parses a bracket expression starting at '['. Every item is
// merged into one set; a leading '^' negates the union.
func (p *parser) parseClass() (*Expr, error) {
	start := p.pos
	p.pos++
	negate := false
	if p.more() && p.src[p.pos] == '^' {
		negate = true
		p.pos++
	}
	var set []charclass.Range
	for first := true; ; first = false {
		if !p.more() {
			return nil, p.error(ErrExpectedClosingBracket, start)
		}
		c := p.src[p.pos]
		if c == ']' && !first {
			p.pos++
			break
		}
		if c == '[' && strings.HasPrefix(p.src[p.pos:], "[:") {
			ranges, ok, err := p.parsePOSIXClass()
			if err != nil {
				return nil, err
			}
			if ok {
				set = append(set, ranges...)
				continue
			}
		}
		if c == '\\' {
			ranges, ok, err := p.parseClassEscape()
			if err != nil {
				return nil, err
			}
			if ok {
				set = append(set, ranges...)
				continue
			}
		}

		lo, err := p.parseClassRune()
		if err != nil {
			return nil, err
		}
		hi := lo
		if p.pos+1 < len(p.src) && p.src[p.pos] == '-' && p.src[p.pos+1] != ']' {
			dash := p.pos
			p.pos++
			if hi, err = p.parseClassRune(); err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.error(ErrEmptyCharClassRange, dash)
			}
		}
		set = append(set, charclass.Range{Lo: lo, Hi: hi})
	}

	e := p.class(set, negate)
	if len(e.Ranges) == 0 {
		return nil, p.error(ErrEmptyCharClassRange, start)
	}
	return e, nil
}

// parseClassRune parses one literal or escaped code point inside brackets.
func (p *parser) parseClassRune() (rune, error) {
	if p.src[p.pos] != '\\' {
		r, w := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += w
		return r, nil
	}
	start := p.pos
	p.pos++
	if !p.more() {
		return 0, p.error(ErrIncompleteEscape, start)
	}
	return p.parseEscapeRune(start)
}

// parseClassEscape handles escapes inside brackets that denote sets: \d, \s,
// \w, their negations and \p{...}. ok is false, and p.pos unchanged, for
// escapes that denote a single code point.
func (p *parser) parseClassEscape() ([]charclass.Range, bool, error) {
	start := p.pos
	if p.pos+1 >= len(p.src) {
		return nil, false, p.error(ErrIncompleteEscape, start)
	}
	switch c := p.src[p.pos+1]; c {
	case 'd', 'D', 's', 'S', 'w', 'W':
		p.pos += 2
		set, _ := charclass.Perl(c)
		return set, true, nil
	case 'p', 'P':
		p.pos++
		tab, negate, err := p.parseProperty(start)
		if err != nil {
			return nil, false, err
		}
		if negate {
			return charclass.Negate(tab.Ranges()), true, nil
		}
		return tab.Ranges(), true, nil
	}
	return nil, false, nil
}

// parsePOSIXClass parses [:name:] or [:^name:]. ok is false when no closing
// ":]" follows, in which case the '[' is a literal.
func (p *parser) parsePOSIXClass() ([]charclass.Range, bool, error) {
	end := strings.Index(p.src[p.pos+2:], ":]")
	if end < 0 {
		return nil, false, nil
	}
	name := p.src[p.pos+2 : p.pos+2+end]
	negate := strings.HasPrefix(name, "^")
	if negate {
		name = name[1:]
	}
	set, err := charclass.POSIX(name)
	if err != nil {
		return nil, false, p.error(ErrInvalidClassName, p.pos)
	}
	p.pos += 2 + end + 2
	if negate {
		return charclass.Negate(set), true, nil
	}
	return set, true, nil
}

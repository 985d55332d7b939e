package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/regexvm/charclass"
)

// Limits bound the resources a single pattern may claim.
type Limits struct {
	// MaxRepeat is the largest count allowed in {m,n}.
	MaxRepeat int
	// MaxNesting is the deepest allowed group nesting.
	MaxNesting int
	// MaxSize is the largest allowed program size, in instructions.
	MaxSize int
}

// DefaultLimits returns the limits used by Parse.
func DefaultLimits() Limits {
	return Limits{
		MaxRepeat:  1000,
		MaxNesting: 1000,
		MaxSize:    1 << 20,
	}
}

// Parse parses pattern under flags with DefaultLimits.
func Parse(pattern string, flags Flags) (*Expr, error) {
	return ParseWithLimits(pattern, flags, DefaultLimits())
}

// ParseWithLimits parses pattern under flags and limits. The first problem
// found aborts the parse and is returned as an *Error.
func ParseWithLimits(pattern string, flags Flags, limits Limits) (*Expr, error) {
	if !utf8.ValidString(pattern) {
		return nil, &Error{Code: ErrInvalidUTF8, Pattern: pattern, Offset: invalidUTF8Offset(pattern)}
	}
	p := &parser{
		src:    pattern,
		flags:  flags,
		limits: limits,
		names:  make(map[string]bool),
	}
	re, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if re == nil {
		re = &Expr{Op: OpEmpty}
	}
	if programSize(re, limits.MaxSize) > limits.MaxSize {
		return nil, p.error(ErrPatternTooLarge, 0)
	}
	return re, nil
}

func invalidUTF8Offset(s string) int {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, w := utf8.DecodeRuneInString(s[i:]); w == 1 {
				return i
			}
		}
	}
	return len(s)
}

type parser struct {
	src    string
	pos    int
	flags  Flags
	limits Limits
	depth  int
	ncap   int
	names  map[string]bool
}

func (p *parser) error(code ErrorCode, offset int) error {
	return &Error{Code: code, Pattern: p.src, Offset: offset}
}

func (p *parser) more() bool {
	return p.pos < len(p.src)
}

// repeatState tracks what may legally follow an operand.
type repeatState uint8

const (
	notRepeated repeatState = iota
	repeated                // a '?' may still make the repetition lazy
	lazyToggled             // no further repetition operator allowed
)

type operand struct {
	expr *Expr
	rep  repeatState
}

// operandStack holds the operands of one alternation level.
type operandStack []operand

func (s *operandStack) push(e *Expr) {
	*s = append(*s, operand{expr: e})
}

// reduce concatenates the pending operands from left to right, merging
// adjacent literals into OpLiteralString. It returns nil for an empty stack.
func (s operandStack) reduce() *Expr {
	var out *Expr
	for _, o := range s {
		if out == nil {
			out = o.expr
			continue
		}
		if appendLiteral(out, o.expr) {
			continue
		}
		if isLiteral(out) && isLiteral(o.expr) {
			out = &Expr{Op: OpLiteralString, Str: literalText(out) + literalText(o.expr)}
			continue
		}
		out = &Expr{Op: OpConcat, Left: out, Right: o.expr}
	}
	return out
}

// appendLiteral merges e into the trailing literal of concatenation out.
func appendLiteral(out, e *Expr) bool {
	if out.Op != OpConcat || !isLiteral(out.Right) || !isLiteral(e) {
		return false
	}
	out.Right = &Expr{Op: OpLiteralString, Str: literalText(out.Right) + literalText(e)}
	return true
}

func isLiteral(e *Expr) bool {
	return e.Op == OpLiteral || e.Op == OpLiteralString
}

func literalText(e *Expr) string {
	if e.Op == OpLiteral {
		return string(e.Rune)
	}
	return e.Str
}

// parseAlternation parses one alternation level: everything up to an
// unmatched ')' (left unconsumed) or the end of the pattern. It returns nil
// when the level is empty.
func (p *parser) parseAlternation() (*Expr, error) {
	var stack operandStack
	// bare is set right after a flag group or comment, which leave nothing
	// for a following repetition operator to apply to.
	bare := false
	for p.more() {
		start := p.pos
		afterBare := bare
		bare = false
		switch c := p.src[p.pos]; c {
		case ')':
			if p.depth == 0 {
				return nil, p.error(ErrUnexpectedClosingParen, start)
			}
			return stack.reduce(), nil
		case '|':
			left := stack.reduce()
			if left == nil {
				return nil, p.error(ErrEmptyAlternate, start)
			}
			p.pos++
			right, err := p.parseAlternation()
			if err != nil {
				return nil, err
			}
			if right == nil {
				return nil, p.error(ErrEmptyAlternate, start)
			}
			return &Expr{Op: OpAlternate, Left: left, Right: right}, nil
		case '(':
			e, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			if e != nil {
				stack.push(e)
			} else {
				bare = true
			}
		case '[':
			e, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			stack.push(e)
		case '*', '+', '?':
			if afterBare {
				return nil, p.error(ErrEmptyRepetition, start)
			}
			p.pos++
			if err := p.repeatOp(stack, c, start); err != nil {
				return nil, err
			}
		case '{':
			min, max, ok, err := p.parseBraces()
			if err != nil {
				return nil, err
			}
			if !ok {
				p.pos++
				stack.push(p.literal('{'))
				continue
			}
			if afterBare {
				return nil, p.error(ErrEmptyRepetition, start)
			}
			if err := p.repeat(stack, min, max, start); err != nil {
				return nil, err
			}
		case '.':
			p.pos++
			stack.push(p.dot())
		case '^':
			p.pos++
			stack.push(&Expr{Op: OpAssertStart, Multiline: p.flags&Multiline != 0})
		case '$':
			p.pos++
			stack.push(&Expr{Op: OpAssertEnd, Multiline: p.flags&Multiline != 0})
		case '\\':
			es, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			for _, e := range es {
				stack.push(e)
			}
		default:
			r, w := utf8.DecodeRuneInString(p.src[p.pos:])
			p.pos += w
			stack.push(p.literal(r))
		}
	}
	if p.depth > 0 {
		return nil, p.error(ErrExpectedClosingParen, p.pos)
	}
	return stack.reduce(), nil
}

// repeatOp applies '*', '+' or '?' to the top operand. A '?' directly after
// a repetition toggles its greediness instead.
func (p *parser) repeatOp(stack operandStack, op byte, at int) error {
	if op == '?' && len(stack) > 0 {
		top := &stack[len(stack)-1]
		switch top.rep {
		case repeated:
			top.expr.Greedy = !top.expr.Greedy
			top.rep = lazyToggled
			return nil
		case lazyToggled:
			return p.error(ErrRepeatedRepetition, at)
		}
	}
	switch op {
	case '*':
		return p.repeat(stack, 0, -1, at)
	case '+':
		return p.repeat(stack, 1, -1, at)
	default:
		return p.repeat(stack, 0, 1, at)
	}
}

func (p *parser) repeat(stack operandStack, min, max, at int) error {
	if len(stack) == 0 {
		return p.error(ErrEmptyRepetition, at)
	}
	top := &stack[len(stack)-1]
	if top.rep != notRepeated {
		return p.error(ErrRepeatedRepetition, at)
	}
	top.expr = &Expr{
		Op:     OpRepeat,
		Sub:    top.expr,
		Min:    min,
		Max:    max,
		Greedy: p.flags&Ungreedy == 0,
	}
	top.rep = repeated
	return nil
}

// parseBraces parses {m}, {m,} or {m,n} at p.pos. ok is false, and p.pos
// unchanged, when the text is not a well-formed counted repetition; the '{'
// is then an ordinary literal.
func (p *parser) parseBraces() (min, max int, ok bool, err error) {
	start := p.pos
	lo, i := digits(p.src, start+1)
	if lo == "" {
		return 0, 0, false, nil
	}
	hi := lo
	if i < len(p.src) && p.src[i] == ',' {
		hi, i = digits(p.src, i+1)
		if hi == "" {
			hi = "-1"
		}
	}
	if i >= len(p.src) || p.src[i] != '}' {
		return 0, 0, false, nil
	}
	p.pos = i + 1

	min, minOK := p.count(lo)
	max, maxOK := p.count(hi)
	if max >= 0 && min > max {
		return 0, 0, false, p.error(ErrEmptyRepetitionRange, start)
	}
	if !minOK || !maxOK {
		return 0, 0, false, p.error(ErrRepetitionTooLarge, start)
	}
	return min, max, true, nil
}

// count converts a repetition count, reporting false above MaxRepeat.
func (p *parser) count(s string) (int, bool) {
	if s == "-1" {
		return -1, true
	}
	if len(s) > 9 {
		return p.limits.MaxRepeat + 1, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n, n <= p.limits.MaxRepeat
}

func digits(s string, i int) (string, int) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	return s[i:j], j
}

// parseGroup parses a group starting at '('. It returns nil for groups that
// produce no operand: comments and flag changes.
func (p *parser) parseGroup() (*Expr, error) {
	start := p.pos
	p.pos++
	if p.depth+1 > p.limits.MaxNesting {
		return nil, p.error(ErrNestingTooDeep, start)
	}
	saved := p.flags
	capture, name := true, ""
	if p.more() && p.src[p.pos] == '?' {
		rest := p.src[p.pos+1:]
		switch {
		case strings.HasPrefix(rest, "#"):
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return nil, p.error(ErrExpectedClosingParen, start)
			}
			p.pos += 1 + end + 1
			return nil, nil
		case strings.HasPrefix(rest, "P<"):
			p.pos += 3
			n, err := p.parseGroupName(start)
			if err != nil {
				return nil, err
			}
			name = n
		case strings.HasPrefix(rest, "<") && !strings.HasPrefix(rest, "<=") && !strings.HasPrefix(rest, "<!"):
			p.pos += 2
			n, err := p.parseGroupName(start)
			if err != nil {
				return nil, err
			}
			name = n
		default:
			p.pos++
			scoped, err := p.parseFlags(start)
			if err != nil {
				return nil, err
			}
			if !scoped {
				// (?flags) holds until the enclosing group closes.
				return nil, nil
			}
			capture = false
		}
	}

	slot := 0
	if capture {
		p.ncap++
		slot = p.ncap
	}
	p.depth++
	sub, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	p.pos++ // ')'
	p.depth--
	p.flags = saved

	if sub == nil {
		sub = &Expr{Op: OpEmpty}
	}
	if !capture {
		return sub, nil
	}
	return &Expr{Op: OpCapture, Sub: sub, Slot: slot, Name: name}, nil
}

// parseGroupName parses "name>" of a named group.
func (p *parser) parseGroupName(start int) (string, error) {
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end < 0 {
		return "", p.error(ErrExpectedClosingAngleBracket, start)
	}
	name := p.src[p.pos : p.pos+end]
	if name == "" {
		return "", p.error(ErrEmptyGroupName, start)
	}
	for i, c := range name {
		if !isNameChar(c) {
			return "", p.error(ErrExpectedAlphaNumeric, p.pos+i)
		}
	}
	if p.names[name] {
		return "", p.error(ErrDuplicateGroupName, start)
	}
	p.names[name] = true
	p.pos += end + 1
	return name, nil
}

func isNameChar(c rune) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// parseFlags parses the letters of (?flags) or (?flags:...), positioned just
// after "(?". It reports whether the flags are scoped to a group.
func (p *parser) parseFlags(start int) (bool, error) {
	flags := p.flags
	negate, sawNegate, sawFlag := false, false, false
	for p.more() {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case '-':
			if sawNegate {
				return false, p.error(ErrUnexpectedCharacter, p.pos-1)
			}
			negate, sawNegate, sawFlag = true, true, false
		case ':', ')':
			if (c == ')' || sawNegate) && !sawFlag {
				return false, p.error(ErrUnexpectedCharacter, p.pos-1)
			}
			p.flags = flags
			return c == ':', nil
		default:
			bit, ok := flagFor(c)
			if !ok {
				return false, p.error(ErrUnexpectedCharacter, p.pos-1)
			}
			if negate {
				flags &^= bit
			} else {
				flags |= bit
			}
			sawFlag = true
		}
	}
	return false, p.error(ErrExpectedClosingParen, start)
}

// literal returns the node matching r under the current flags.
func (p *parser) literal(r rune) *Expr {
	if p.flags&FoldCase != 0 {
		set := charclass.FoldCase([]charclass.Range{charclass.Single(r)})
		if len(set) > 1 || set[0].Lo != set[0].Hi {
			return &Expr{Op: OpCharClass, Ranges: set}
		}
	}
	return &Expr{Op: OpLiteral, Rune: r}
}

// class returns a character class node for set under the current flags.
// Folding happens before negation.
func (p *parser) class(set []charclass.Range, negate bool) *Expr {
	if p.flags&FoldCase != 0 {
		set = charclass.FoldCase(set)
	} else {
		set = charclass.Build(set)
	}
	if negate {
		set = charclass.Negate(set)
	}
	return &Expr{Op: OpCharClass, Ranges: set}
}

func (p *parser) dot() *Expr {
	if p.flags&DotAll != 0 {
		return &Expr{Op: OpCharClass, Ranges: []charclass.Range{{Lo: 0, Hi: charclass.MaxRune}}}
	}
	return &Expr{Op: OpCharClass, Ranges: []charclass.Range{{Lo: 0, Hi: '\n' - 1}, {Lo: '\n' + 1, Hi: charclass.MaxRune}}}
}

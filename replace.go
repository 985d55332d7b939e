package regexvm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/regexvm/nfa"
)

// Replacement template errors. A *ReplacementError wraps exactly one of them.
var (
	// ErrUndefinedGroupName indicates \g<name> for a name the pattern does not define.
	ErrUndefinedGroupName = errors.New("undefined group name")
	// ErrGroupOutOfRange indicates \N or \g<N> with N above the number of groups.
	ErrGroupOutOfRange = errors.New("group number out of range")
	// ErrMalformedGroupRef indicates a \g reference without a well-formed <...> part.
	ErrMalformedGroupRef = errors.New("malformed group reference")
)

// ReplacementError reports an invalid replacement template.
type ReplacementError struct {
	// Kind is one of ErrUndefinedGroupName, ErrGroupOutOfRange or
	// ErrMalformedGroupRef.
	Kind error
	// Ref is the offending reference as written in the template.
	Ref string
}

// Error implements the error interface.
func (e *ReplacementError) Error() string {
	return fmt.Sprintf("regexvm: %v: %s", e.Kind, e.Ref)
}

// Unwrap returns Kind.
func (e *ReplacementError) Unwrap() error {
	return e.Kind
}

// segment is either literal text or, when group >= 0, a group reference.
type segment struct {
	text  string
	group int
}

// parseTemplate splits template into literal text and group references.
// Every reference is resolved against the pattern's groups here, so a bad
// template is rejected before any replacement takes place.
func (r *Regex) parseTemplate(template string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String(), group: -1})
			lit.Reset()
		}
	}

	numGroups := r.NumGroups()
	for i := 0; i < len(template); {
		c := template[i]
		if c != '\\' || i+1 == len(template) {
			lit.WriteByte(c)
			i++
			continue
		}

		next := template[i+1]
		switch {
		case next == '\\':
			lit.WriteByte('\\')
			i += 2
		case isDigit(next):
			j := i + 1
			for j < len(template) && isDigit(template[j]) {
				j++
			}
			n, err := strconv.Atoi(template[i+1 : j])
			if err != nil || n > numGroups {
				return nil, &ReplacementError{Kind: ErrGroupOutOfRange, Ref: template[i:j]}
			}
			flush()
			segs = append(segs, segment{group: n})
			i = j
		case next == 'g':
			n, end, err := r.parseNamedRef(template, i)
			if err != nil {
				return nil, err
			}
			flush()
			segs = append(segs, segment{group: n})
			i = end
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return segs, nil
}

// parseNamedRef parses \g<N> or \g<name> starting at the backslash at i and
// returns the group number and the offset just past the reference.
func (r *Regex) parseNamedRef(template string, i int) (int, int, error) {
	rest := template[i+2:]
	if !strings.HasPrefix(rest, "<") {
		return 0, 0, &ReplacementError{Kind: ErrMalformedGroupRef, Ref: template[i : i+2]}
	}
	closeAt := strings.IndexByte(rest, '>')
	if closeAt < 0 {
		return 0, 0, &ReplacementError{Kind: ErrMalformedGroupRef, Ref: template[i:]}
	}
	ref := template[i : i+2+closeAt+1]
	name := rest[1:closeAt]
	if name == "" {
		return 0, 0, &ReplacementError{Kind: ErrMalformedGroupRef, Ref: ref}
	}

	end := i + 2 + closeAt + 1
	if allDigits(name) {
		n, err := strconv.Atoi(name)
		if err != nil || n > r.NumGroups() {
			return 0, 0, &ReplacementError{Kind: ErrGroupOutOfRange, Ref: ref}
		}
		return n, end, nil
	}
	for _, c := range []byte(name) {
		if !isDigit(c) && !isWordByte(c) {
			return 0, 0, &ReplacementError{Kind: ErrMalformedGroupRef, Ref: ref}
		}
	}
	if n := r.GroupIndex(name); n > 0 {
		return n, end, nil
	}
	return 0, 0, &ReplacementError{Kind: ErrUndefinedGroupName, Ref: ref}
}

// Replace returns a copy of input with every match replaced by template.
//
// Inside template, \N and \g<N> insert group N (0 is the whole match),
// \g<name> inserts a named group and \\ inserts a backslash. Groups that did
// not participate insert nothing. Any other text, including a backslash
// before another character, is copied as is.
//
// Example:
//
//	re := regexvm.MustCompile(`(\w+)@(\w+)\.com`, 0)
//	out, _ := re.Replace("joe@example.com", `\2 for \1`)
//	// out = "example for joe"
func (r *Regex) Replace(input, template string) (string, error) {
	return r.ReplaceN(input, template, -1)
}

// ReplaceN is like Replace but replaces at most n matches; n < 0 means all.
func (r *Regex) ReplaceN(input, template string, n int) (string, error) {
	segs, err := r.parseTemplate(template)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	last := 0
	r.allMatches(input, n, func(start int, t nfa.Thread) {
		sb.WriteString(input[last:start])
		for _, s := range segs {
			switch {
			case s.group < 0:
				sb.WriteString(s.text)
			case s.group == 0:
				sb.WriteString(input[start:t.End])
			default:
				lo, hi := t.Caps[2*(s.group-1)], t.Caps[2*(s.group-1)+1]
				if lo >= 0 && hi >= 0 {
					sb.WriteString(input[lo:hi])
				}
			}
		}
		last = t.End
	})
	sb.WriteString(input[last:])
	return sb.String(), nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

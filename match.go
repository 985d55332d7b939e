package regexvm

import (
	"fmt"

	"github.com/coregx/regexvm/nfa"
)

// CapturingGroup is the span recorded by one capturing group.
type CapturingGroup struct {
	// Start and End are byte offsets into the input; both are -1 when the
	// group did not participate in the match.
	Start int
	End   int
	// Slot is the group number, counted from 1 in order of the opening
	// parentheses.
	Slot int
	// Name is the group name, or "" for an unnamed group.
	Name string
	// Matched reports whether the group participated in the match.
	Matched bool
}

// Match is a successful match. It is read-only once built.
//
// Group 0 is the whole match; groups 1..N are the capturing groups of the
// pattern.
type Match struct {
	start  int
	end    int
	input  string
	groups []CapturingGroup
}

func newMatch(input string, start int, t nfa.Thread, names []string) *Match {
	m := &Match{
		start:  start,
		end:    t.End,
		input:  input,
		groups: make([]CapturingGroup, len(t.Caps)/2),
	}
	for i := range m.groups {
		g := CapturingGroup{Start: t.Caps[2*i], End: t.Caps[2*i+1], Slot: i + 1}
		if i+1 < len(names) {
			g.Name = names[i+1]
		}
		g.Matched = g.Start >= 0 && g.End >= 0
		if !g.Matched {
			g.Start, g.End = -1, -1
		}
		m.groups[i] = g
	}
	return m
}

// Matched returns the matched text.
func (m *Match) Matched() string {
	return m.input[m.start:m.end]
}

// Start returns the byte offset of the start of the match.
func (m *Match) Start() int {
	return m.start
}

// End returns the byte offset just past the match.
func (m *Match) End() int {
	return m.end
}

// Group returns the text matched by group i. Group 0 is the whole match.
// The result is false if i is out of range or the group did not participate.
func (m *Match) Group(i int) (string, bool) {
	if i == 0 {
		return m.Matched(), true
	}
	if i < 0 || i > len(m.groups) || !m.groups[i-1].Matched {
		return "", false
	}
	g := m.groups[i-1]
	return m.input[g.Start:g.End], true
}

// GroupByName returns the text matched by the group called name.
func (m *Match) GroupByName(name string) (string, bool) {
	for _, g := range m.groups {
		if g.Name == name && g.Matched {
			return m.input[g.Start:g.End], true
		}
	}
	return "", false
}

// Groups returns a copy of the capturing groups, group 1 first.
func (m *Match) Groups() []CapturingGroup {
	out := make([]CapturingGroup, len(m.groups))
	copy(out, m.groups)
	return out
}

// NumGroups returns the number of capturing groups, not counting group 0.
func (m *Match) NumGroups() int {
	return len(m.groups)
}

func (m *Match) String() string {
	return fmt.Sprintf("<Match str: %s groups: %d>", m.Matched(), len(m.groups))
}

package regexvm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestMatchGroups(t *testing.T) {
	m := MustCompile(`(?P<key>\w+)(=(?P<val>\d+))?`, 0).Search("  size")
	assert.Assert(t, m != nil)
	assert.Equal(t, m.Start(), 2)
	assert.Equal(t, m.End(), 6)
	assert.Equal(t, m.Matched(), "size")

	want := []CapturingGroup{
		{Start: 2, End: 6, Slot: 1, Name: "key", Matched: true},
		{Start: -1, End: -1, Slot: 2},
		{Start: -1, End: -1, Slot: 3, Name: "val"},
	}
	if diff := cmp.Diff(want, m.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}

	_, ok := m.GroupByName("val")
	assert.Assert(t, !ok)
	_, ok = m.GroupByName("missing")
	assert.Assert(t, !ok)
	_, ok = m.Group(-1)
	assert.Assert(t, !ok)
}

func TestMatchGroupsIsCopy(t *testing.T) {
	m := MustCompile(`(a)`, 0).Search("a")
	g := m.Groups()
	g[0].Start = 99
	assert.Equal(t, m.Groups()[0].Start, 0)
}

func TestMatchEmpty(t *testing.T) {
	m := MustCompile(`x*`, 0).Search("abc")
	assert.Equal(t, m.Start(), 0)
	assert.Equal(t, m.End(), 0)
	assert.Equal(t, m.Matched(), "")
	assert.Equal(t, m.NumGroups(), 0)
	assert.Equal(t, m.String(), "<Match str:  groups: 0>")
}

func TestMatchLastIteration(t *testing.T) {
	m := MustCompile(`(a|(b))+`, 0).Search("ab")
	g1, _ := m.Group(1)
	g2, _ := m.Group(2)
	assert.Equal(t, g1, "b")
	assert.Equal(t, g2, "b")
}

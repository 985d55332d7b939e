package sparse

import "testing"

func TestSparseSetBasic(t *testing.T) {
	s := NewSparseSet(10)
	if s.Len() != 0 || s.Capacity() != 10 {
		t.Fatalf("new set: len=%d cap=%d", s.Len(), s.Capacity())
	}

	if !s.Insert(3) {
		t.Error("Insert(3) on empty set reported present")
	}
	if s.Insert(3) {
		t.Error("second Insert(3) reported absent")
	}
	s.Insert(7)
	s.Insert(0)

	for _, v := range []uint32{0, 3, 7} {
		if !s.Contains(v) {
			t.Errorf("Contains(%d) = false", v)
		}
	}
	for _, v := range []uint32{1, 9, 10, 1 << 31} {
		if s.Contains(v) {
			t.Errorf("Contains(%d) = true", v)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestSparseSetInsertionOrder(t *testing.T) {
	s := NewSparseSet(16)
	want := []uint32{9, 2, 15, 4}
	for _, v := range want {
		s.Insert(v)
	}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

// Clear must not resurrect stale sparse entries.
func TestSparseSetClear(t *testing.T) {
	s := NewSparseSet(8)
	s.Insert(5)
	s.Insert(1)
	s.Clear()
	if s.Len() != 0 || s.Contains(5) || s.Contains(1) {
		t.Fatal("set not empty after Clear")
	}
	s.Insert(1)
	if s.Contains(5) {
		t.Error("stale value 5 reported present")
	}
	if !s.Contains(1) || s.Len() != 1 {
		t.Error("value 1 missing after re-insert")
	}
}

func TestSparseSetZeroCapacity(t *testing.T) {
	s := NewSparseSet(0)
	if s.Contains(0) {
		t.Error("empty-universe set contains 0")
	}
}

func BenchmarkSparseSetInsertClear(b *testing.B) {
	s := NewSparseSet(1024)
	for i := 0; i < b.N; i++ {
		for v := uint32(0); v < 1024; v += 3 {
			s.Insert(v)
		}
		s.Clear()
	}
}

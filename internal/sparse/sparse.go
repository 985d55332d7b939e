// Package sparse provides a sparse set of small unsigned integers.
//
// The Pike VM keeps one set per thread list to make sure every program
// counter is closed at most once per input position. A sparse set gives O(1)
// insert, membership and clear without touching memory proportional to the
// universe on clear, and it remembers insertion order.
package sparse

// SparseSet is a set of uint32 values below a fixed capacity.
//
// sparse maps a value to its index in dense; a value is present when that
// index is in range and dense points back at the value. Stale entries in
// sparse are therefore harmless and Clear only resets the length.
type SparseSet struct {
	sparse []uint32
	dense  []uint32
}

// NewSparseSet creates a set that can hold the values [0, capacity).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound on values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Insert adds value and reports whether it was absent.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set. Values at or above the
// capacity are never contained.
func (s *SparseSet) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all values in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of values in the set.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// Values returns the values in insertion order. The slice is valid until
// the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}

package overlay

// DefaultCapacity is the initial capacity of an instance store and the
// increment it grows by.
const DefaultCapacity = 128

// Store is a growable array of instance records with a logical used count.
//
// The backing array's length is the store's capacity. Capacity grows by
// DefaultCapacity elements when an append finds the store full and never
// shrinks, so a steady per-frame load settles on a fixed allocation.
type Store[T any] struct {
	data []T
	used int
}

// NewStore creates a store with the given initial capacity.
// A non-positive capacity selects DefaultCapacity.
func NewStore[T any](capacity int) *Store[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store[T]{data: make([]T, capacity)}
}

// Append stores v after the last used element and returns its index.
func (s *Store[T]) Append(v T) int {
	if s.used >= len(s.data) {
		grown := make([]T, len(s.data)+DefaultCapacity)
		copy(grown, s.data)
		s.data = grown
	}
	i := s.used
	s.data[i] = v
	s.used++
	return i
}

// Reset marks the store empty. Capacity and stored values are retained.
func (s *Store[T]) Reset() {
	s.used = 0
}

// Len returns the number of used elements.
func (s *Store[T]) Len() int {
	return s.used
}

// Cap returns the physical capacity.
func (s *Store[T]) Cap() int {
	return len(s.data)
}

// At returns the element at index i, which must be below Cap.
func (s *Store[T]) At(i int) T {
	return s.data[i]
}

// Used returns the used prefix. The slice aliases the store and is only
// valid until the next Append.
func (s *Store[T]) Used() []T {
	return s.data[:s.used]
}

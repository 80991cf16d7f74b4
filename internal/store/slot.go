package store

import "sync"

// Slot holds the detail of the one entity currently open.
//
// Every Open hands out a new generation. A fetched detail is only kept when it is stored
// with the latest generation, so a slow response for an entity the user already left
// never overwrites what is shown now.
type Slot[K comparable, T any] struct {
	key        K
	open       bool
	generation uint64
	value      *T
	mu         sync.Mutex
}

func NewSlot[K comparable, T any]() *Slot[K, T] {
	return &Slot[K, T]{}
}

// Open marks k as the open entity and returns the generation to store its detail with.
func (s *Slot[K, T]) Open(k K) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if !s.open || s.key != k {
		s.value = nil
	}
	s.key = k
	s.open = true
	return s.generation
}

// Store keeps value when generation is still the latest one.
func (s *Slot[K, T]) Store(generation uint64, value *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || generation != s.generation {
		return ErrStale
	}
	s.value = value
	return nil
}

// Reload returns a new generation for the open entity, if any.
func (s *Slot[K, T]) Reload(k K) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || s.key != k {
		return 0, false
	}
	s.generation++
	return s.generation, true
}

// Current returns the open key and its detail. The detail is nil while it loads.
func (s *Slot[K, T]) Current() (K, *T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, s.value, s.open
}

func (s *Slot[K, T]) IsOpen(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && s.key == k
}

func (s *Slot[K, T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero K
	s.generation++
	s.key = zero
	s.open = false
	s.value = nil
}

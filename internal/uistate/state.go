// Package uistate holds what the user looks at: the cabinet, the selected entity and the
// expanded line items. It does no I/O and is never persisted.
package uistate

import (
	"sort"
	"sync"

	v1 "github.com/supplydesk/desk/api/v1"
)

// Snapshot is a consistent copy of the state.
type Snapshot struct {
	Cabinet     v1.Cabinet
	Selected    int64
	HasSelected bool
	Expanded    []int
	Epoch       uint64
}

type State struct {
	cabinet     v1.Cabinet
	selected    int64
	hasSelected bool
	expanded    map[int]struct{}
	// epoch moves every time the viewed entity changes.
	epoch uint64
	mu    sync.Mutex
}

func New(cabinet v1.Cabinet) *State {
	return &State{
		cabinet:  cabinet,
		expanded: make(map[int]struct{}),
	}
}

func (s *State) Cabinet() v1.Cabinet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cabinet
}

// SwitchCabinet changes the cabinet and resets selection and expand set.
// It returns false when c already is the current cabinet.
func (s *State) SwitchCabinet(c v1.Cabinet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cabinet == c {
		return false
	}
	s.cabinet = c
	s.clear()
	return true
}

func (s *State) Selected() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.hasSelected
}

// Select makes id the viewed entity and returns the new epoch.
func (s *State) Select(id int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.selected = id
	s.hasSelected = true
	return s.epoch
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Toggle flips key in the expand set and returns whether it is expanded now.
func (s *State) Toggle(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.expanded[key]; found {
		delete(s.expanded, key)
		return false
	}
	s.expanded[key] = struct{}{}
	return true
}

func (s *State) IsExpanded(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.expanded[key]
	return found
}

func (s *State) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Current reports whether epoch still is the latest one.
func (s *State) Current(epoch uint64) bool {
	return s.Epoch() == epoch
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	expanded := make([]int, 0, len(s.expanded))
	for key := range s.expanded {
		expanded = append(expanded, key)
	}
	sort.Ints(expanded)
	return Snapshot{
		Cabinet:     s.cabinet,
		Selected:    s.selected,
		HasSelected: s.hasSelected,
		Expanded:    expanded,
		Epoch:       s.epoch,
	}
}

func (s *State) clear() {
	s.selected = 0
	s.hasSelected = false
	s.expanded = make(map[int]struct{})
	s.epoch++
}

// Package selection tracks which leads of a fetched batch are marked for
// import.
package selection

import (
	"sync"

	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/apperr"
)

// State holds per-lead checked flags for one fetched batch, keyed by the
// lead's position in the batch. A new fetch replaces the whole state.
type State struct {
	mu      sync.Mutex
	leads   []transport.RemoteLeadRecord
	checked []bool
}

// NewState starts an all-unchecked selection over the given batch.
func NewState(leads []transport.RemoteLeadRecord) *State {
	return &State{
		leads:   leads,
		checked: make([]bool, len(leads)),
	}
}

// Toggle flips the checked flag at the given batch position. Out-of-range
// indices are rejected rather than ignored.
func (s *State) Toggle(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.checked) {
		return apperr.BadRequest("lead index out of range")
	}
	s.checked[index] = !s.checked[index]
	return nil
}

// SelectAll checks every lead in the batch, regardless of which list each
// belongs to.
func (s *State) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.checked {
		s.checked[i] = true
	}
}

// DeselectAll unchecks every lead.
func (s *State) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.checked {
		s.checked[i] = false
	}
}

// SelectedLeads returns the checked leads in original fetch order. An empty
// selection is a user error: the import action must be blocked before any
// network call is made.
func (s *State) SelectedLeads() ([]transport.RemoteLeadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make([]transport.RemoteLeadRecord, 0)
	for i, checked := range s.checked {
		if checked {
			selected = append(selected, s.leads[i])
		}
	}
	if len(selected) == 0 {
		return nil, apperr.Validation("no leads selected for import")
	}
	return selected, nil
}

// SelectedCount returns how many leads are currently checked.
func (s *State) SelectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, checked := range s.checked {
		if checked {
			count++
		}
	}
	return count
}

// Size returns the batch size.
func (s *State) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

package selection

import (
	"testing"

	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/apperr"
)

func batch(ids ...string) []transport.RemoteLeadRecord {
	leads := make([]transport.RemoteLeadRecord, len(ids))
	for i, id := range ids {
		leads[i] = transport.RemoteLeadRecord{ID: id, ListID: "B", Name: "Lead " + id}
	}
	return leads
}

func TestState_ToggleAndSelectedLeads(t *testing.T) {
	s := NewState(batch("x1", "x2", "x3"))

	if err := s.Toggle(0); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := s.Toggle(2); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	selected, err := s.SelectedLeads()
	if err != nil {
		t.Fatalf("SelectedLeads: %v", err)
	}
	if len(selected) != 2 || selected[0].ID != "x1" || selected[1].ID != "x3" {
		t.Fatalf("expected x1,x3 in fetch order, got %+v", selected)
	}
}

func TestState_ToggleTwiceUnchecks(t *testing.T) {
	s := NewState(batch("x1"))

	s.Toggle(0)
	s.Toggle(0)

	if _, err := s.SelectedLeads(); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected empty selection after double toggle, got %v", err)
	}
}

func TestState_ToggleOutOfRange(t *testing.T) {
	s := NewState(batch("x1"))

	if err := s.Toggle(5); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for out-of-range index, got %v", err)
	}
	if err := s.Toggle(-1); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for negative index, got %v", err)
	}
}

func TestState_SelectAllThenDeselectAll(t *testing.T) {
	s := NewState(batch("x1", "x2", "x3"))

	s.SelectAll()
	selected, err := s.SelectedLeads()
	if err != nil {
		t.Fatalf("SelectedLeads after SelectAll: %v", err)
	}
	if len(selected) != 3 {
		t.Fatalf("expected all 3 selected, got %d", len(selected))
	}
	if got := s.SelectedCount(); got != 3 {
		t.Fatalf("SelectedCount = %d, want 3", got)
	}

	s.DeselectAll()
	if got := s.SelectedCount(); got != 0 {
		t.Fatalf("SelectedCount after DeselectAll = %d, want 0", got)
	}
	if _, err := s.SelectedLeads(); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected user-input error after DeselectAll, got %v", err)
	}
}

func TestState_EmptySelectionIsUserError(t *testing.T) {
	s := NewState(batch("x1", "x2"))

	_, err := s.SelectedLeads()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty selection, got %v", err)
	}
}

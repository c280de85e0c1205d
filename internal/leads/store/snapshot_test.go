package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vanguard_backend/internal/leads/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb), mr
}

func sampleLead(name string) domain.LocalLeadRecord {
	return domain.LocalLeadRecord{
		ID:               uuid.New(),
		ExternalID:       "ext-" + name,
		Name:             name,
		Phone:            "614-555-0134",
		Stage:            domain.StageNew,
		TranscriptStatus: domain.TranscriptNone,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
}

func TestSnapshotStore_LoadMissingKeyReturnsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	snapshot, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot, got %d records", len(snapshot))
	}
}

func TestSnapshotStore_SaveThenLoadRoundTrips(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	want := []domain.LocalLeadRecord{sampleLead("Acme Trucking"), sampleLead("Bulk Haulers")}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name {
			t.Fatalf("record %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSnapshotStore_SaveOverwritesWholeCollection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, []domain.LocalLeadRecord{sampleLead("First"), sampleLead("Second")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, []domain.LocalLeadRecord{sampleLead("Only")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Only" {
		t.Fatalf("expected the second save to replace the first, got %+v", got)
	}
}

func TestSnapshotStore_SaveMirrorsLegacyKey(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	want := []domain.LocalLeadRecord{sampleLead("Acme Trucking")}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := mr.Get(LegacySnapshotKey)
	if err != nil {
		t.Fatalf("legacy key not written: %v", err)
	}
	var mirrored []domain.LocalLeadRecord
	if err := json.Unmarshal([]byte(raw), &mirrored); err != nil {
		t.Fatalf("legacy key holds invalid JSON: %v", err)
	}
	if len(mirrored) != 1 || mirrored[0].ID != want[0].ID {
		t.Fatalf("legacy mirror mismatch: %+v", mirrored)
	}
}

func TestSnapshotStore_SaveNilWritesEmptyArray(t *testing.T) {
	s, mr := newTestStore(t)

	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := mr.Get(SnapshotKey)
	if err != nil {
		t.Fatalf("snapshot key not written: %v", err)
	}
	if raw != "[]" {
		t.Fatalf("expected empty JSON array, got %q", raw)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vanguard_backend/internal/events"
	"vanguard_backend/internal/leads/domain"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	snapshot []domain.LocalLeadRecord
	loadErr  error
	saveErr  error
	saves    int
}

func (f *fakeStore) Load(ctx context.Context) ([]domain.LocalLeadRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]domain.LocalLeadRecord, len(f.snapshot))
	copy(out, f.snapshot)
	return out, nil
}

func (f *fakeStore) Save(ctx context.Context, snapshot []domain.LocalLeadRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshot = snapshot
	f.saves++
	return nil
}

type fakeMirror struct {
	batches [][]domain.LocalLeadRecord
	err     error
}

func (f *fakeMirror) UpsertBatch(ctx context.Context, leads []domain.LocalLeadRecord) error {
	f.batches = append(f.batches, leads)
	return f.err
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func newTestService(store *fakeStore, mirror *fakeMirror, bus *recordingBus) *Service {
	svc := New(store, mirror, bus, logger.New("test"))
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func lead(name string) domain.LocalLeadRecord {
	return domain.LocalLeadRecord{
		ID:               uuid.New(),
		ExternalID:       "ext-" + name,
		Name:             name,
		Stage:            domain.StageNew,
		TranscriptStatus: domain.TranscriptNone,
	}
}

func TestService_PersistSnapshotSavesAndMirrors(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{}
	svc := newTestService(store, mirror, &recordingBus{})

	snapshot := []domain.LocalLeadRecord{lead("Acme"), lead("Bulk")}
	if err := svc.PersistSnapshot(context.Background(), snapshot); err != nil {
		t.Fatalf("PersistSnapshot: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("expected exactly one snapshot save, got %d", store.saves)
	}
	if len(mirror.batches) != 1 || len(mirror.batches[0]) != 2 {
		t.Fatalf("expected one mirrored batch of 2, got %+v", mirror.batches)
	}
}

func TestService_PersistSnapshotIgnoresMirrorFailure(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{err: errors.New("pg down")}
	svc := newTestService(store, mirror, &recordingBus{})

	if err := svc.PersistSnapshot(context.Background(), []domain.LocalLeadRecord{lead("Acme")}); err != nil {
		t.Fatalf("mirror failure must not surface: %v", err)
	}
	if store.saves != 1 {
		t.Fatal("snapshot save should still have happened")
	}
}

func TestService_ChangeStage(t *testing.T) {
	target := lead("Acme")
	store := &fakeStore{snapshot: []domain.LocalLeadRecord{target, lead("Bulk")}}
	bus := &recordingBus{}
	svc := newTestService(store, &fakeMirror{}, bus)

	updated, err := svc.ChangeStage(context.Background(), target.ID, domain.StageQuoting)
	if err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}
	if updated.Stage != domain.StageQuoting {
		t.Fatalf("stage = %s, want %s", updated.Stage, domain.StageQuoting)
	}
	if updated.StageChangedAt == nil {
		t.Fatal("expected StageChangedAt to be stamped")
	}
	if store.saves != 1 {
		t.Fatalf("expected the whole collection to be re-saved once, got %d saves", store.saves)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.LeadStageChanged)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if evt.OldStage != string(domain.StageNew) || evt.NewStage != string(domain.StageQuoting) {
		t.Fatalf("event stages = %s -> %s", evt.OldStage, evt.NewStage)
	}
}

func TestService_ChangeStageRejectsUnknownStage(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeMirror{}, &recordingBus{})

	_, err := svc.ChangeStage(context.Background(), uuid.New(), "Archived")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ChangeStageUnknownLead(t *testing.T) {
	store := &fakeStore{snapshot: []domain.LocalLeadRecord{lead("Acme")}}
	svc := newTestService(store, &fakeMirror{}, &recordingBus{})

	_, err := svc.ChangeStage(context.Background(), uuid.New(), domain.StageContacted)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.saves != 0 {
		t.Fatal("nothing should be persisted for an unknown lead")
	}
}

func TestService_UpdateDetails(t *testing.T) {
	target := lead("Acme")
	target.Notes = "original notes"
	store := &fakeStore{snapshot: []domain.LocalLeadRecord{target}}
	svc := newTestService(store, &fakeMirror{}, &recordingBus{})

	rep := "Dana"
	updated, err := svc.UpdateDetails(context.Background(), target.ID, &rep, nil)
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if updated.AssignedRep != "Dana" {
		t.Fatalf("AssignedRep = %q, want Dana", updated.AssignedRep)
	}
	if updated.Notes != "original notes" {
		t.Fatalf("nil notes must leave the field unchanged, got %q", updated.Notes)
	}
	if store.saves != 1 {
		t.Fatalf("expected one snapshot save, got %d", store.saves)
	}
}

func TestService_UpdateDetailsUnknownLead(t *testing.T) {
	store := &fakeStore{snapshot: []domain.LocalLeadRecord{lead("Acme")}}
	svc := newTestService(store, &fakeMirror{}, &recordingBus{})

	rep := "Dana"
	_, err := svc.UpdateDetails(context.Background(), uuid.New(), &rep, nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.saves != 0 {
		t.Fatal("nothing should be persisted for an unknown lead")
	}
}

func TestService_LogReachOut(t *testing.T) {
	target := lead("Acme")
	store := &fakeStore{snapshot: []domain.LocalLeadRecord{target}}
	svc := newTestService(store, &fakeMirror{}, &recordingBus{})

	updated, err := svc.LogReachOut(context.Background(), target.ID, domain.ReachOutCall)
	if err != nil {
		t.Fatalf("LogReachOut: %v", err)
	}
	if updated.ReachOutCalls != 1 {
		t.Fatalf("ReachOutCalls = %d, want 1", updated.ReachOutCalls)
	}
	if updated.LastReachOutAt == nil {
		t.Fatal("expected LastReachOutAt to be stamped")
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeMirror{}, &recordingBus{})

	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Package service implements lead collection operations on top of the
// snapshot store, with a best-effort Postgres mirror behind it.
package service

import (
	"context"
	"time"

	"vanguard_backend/internal/events"
	"vanguard_backend/internal/leads/domain"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/logger"

	"github.com/google/uuid"
)

// SnapshotStore is the system of record for the lead collection.
type SnapshotStore interface {
	Load(ctx context.Context) ([]domain.LocalLeadRecord, error)
	Save(ctx context.Context, snapshot []domain.LocalLeadRecord) error
}

// Mirror receives best-effort copies of persisted leads. Mirror failures are
// logged and never surfaced to callers.
type Mirror interface {
	UpsertBatch(ctx context.Context, leads []domain.LocalLeadRecord) error
}

type Service struct {
	store  SnapshotStore
	mirror Mirror
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

func New(store SnapshotStore, mirror Mirror, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		mirror: mirror,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// List returns the current lead collection.
func (s *Service) List(ctx context.Context) ([]domain.LocalLeadRecord, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}
	return snapshot, nil
}

// Get returns one lead by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.LocalLeadRecord, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}
	for i := range snapshot {
		if snapshot[i].ID == id {
			return &snapshot[i], nil
		}
	}
	return nil, apperr.NotFound("lead not found")
}

// PersistSnapshot replaces the stored collection with the given one and
// mirrors it to Postgres. The mirror write is best-effort.
func (s *Service) PersistSnapshot(ctx context.Context, snapshot []domain.LocalLeadRecord) error {
	if err := s.store.Save(ctx, snapshot); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to persist leads", err)
	}
	s.mirrorBestEffort(ctx, snapshot)
	return nil
}

// ChangeStage moves a lead to a new pipeline stage and persists the whole
// collection.
func (s *Service) ChangeStage(ctx context.Context, id uuid.UUID, stage domain.PipelineStage) (*domain.LocalLeadRecord, error) {
	if !domain.IsValidStage(stage) {
		return nil, apperr.Validation("unknown pipeline stage")
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}

	lead := findLead(snapshot, id)
	if lead == nil {
		return nil, apperr.NotFound("lead not found")
	}

	previous := lead.Stage
	lead.ChangeStage(stage, s.now())

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist leads", err)
	}
	s.mirrorBestEffort(ctx, snapshot)

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		OldStage:  string(previous),
		NewStage:  string(stage),
	})

	return lead, nil
}

// UpdateDetails edits a lead's CRM-owned fields and persists the collection.
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, assignedRep, notes *string) (*domain.LocalLeadRecord, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}

	lead := findLead(snapshot, id)
	if lead == nil {
		return nil, apperr.NotFound("lead not found")
	}

	lead.UpdateDetails(assignedRep, notes, s.now())

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist leads", err)
	}
	s.mirrorBestEffort(ctx, snapshot)

	return lead, nil
}

// LogReachOut records a contact attempt and persists the collection.
func (s *Service) LogReachOut(ctx context.Context, id uuid.UUID, kind domain.ReachOutKind) (*domain.LocalLeadRecord, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load leads", err)
	}

	lead := findLead(snapshot, id)
	if lead == nil {
		return nil, apperr.NotFound("lead not found")
	}

	lead.LogReachOut(kind, s.now())

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist leads", err)
	}
	s.mirrorBestEffort(ctx, snapshot)

	return lead, nil
}

func (s *Service) mirrorBestEffort(ctx context.Context, snapshot []domain.LocalLeadRecord) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.UpsertBatch(ctx, snapshot); err != nil {
		s.log.Warn("lead mirror write failed", "error", err, "count", len(snapshot))
	}
}

func findLead(snapshot []domain.LocalLeadRecord, id uuid.UUID) *domain.LocalLeadRecord {
	for i := range snapshot {
		if snapshot[i].ID == id {
			return &snapshot[i]
		}
	}
	return nil
}

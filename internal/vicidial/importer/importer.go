// Package importer orchestrates the selective lead import: duplicate
// checking, per-lead enrichment, snapshot persistence, and progress
// reporting.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vanguard_backend/internal/events"
	leadsdomain "vanguard_backend/internal/leads/domain"
	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxConcurrency bounds the worker pool so the transcription backend is
	// never hit with more than a few requests at once.
	MaxConcurrency = 3
)

// Processor is the per-lead enrichment call.
type Processor interface {
	ProcessLead(ctx context.Context, lead transport.RemoteLeadRecord) (*transport.EnrichedLead, error)
}

// Snapshots loads and persists the full lead collection. Persist writes the
// whole snapshot in one go; the importer calls it exactly once per batch.
type Snapshots interface {
	Load(ctx context.Context) ([]leadsdomain.LocalLeadRecord, error)
	Persist(ctx context.Context, snapshot []leadsdomain.LocalLeadRecord) error
}

// Options tunes one import batch.
type Options struct {
	// Concurrency is the number of in-flight processing calls, clamped to
	// [1, MaxConcurrency]. The default of 1 keeps the reference behavior of
	// strictly serial processing.
	Concurrency int

	// Reporter, when set, observes this batch in addition to the
	// orchestrator's own reporter.
	Reporter Reporter

	// Trigger labels the batch-completed event; defaults to "interactive".
	Trigger string
}

func (o Options) trigger() string {
	if o.Trigger == "" {
		return "interactive"
	}
	return o.Trigger
}

func (o Options) workers() int {
	if o.Concurrency <= 1 {
		return 1
	}
	if o.Concurrency > MaxConcurrency {
		return MaxConcurrency
	}
	return o.Concurrency
}

// Orchestrator runs import batches.
type Orchestrator struct {
	processor Processor
	snapshots Snapshots
	reporter  Reporter
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
}

func New(processor Processor, snapshots Snapshots, reporter Reporter, bus events.Bus, log *logger.Logger) *Orchestrator {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Orchestrator{
		processor: processor,
		snapshots: snapshots,
		reporter:  reporter,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
}

// ImportLeads processes the selected leads in selection order. Duplicates
// are skipped; every non-duplicate is imported, degraded if its processing
// call fails. The updated snapshot is persisted once, at the end.
//
// Cancellation is honored between leads only: an in-flight processing call
// runs to completion, and leads committed before the cancellation are still
// persisted.
func (o *Orchestrator) ImportLeads(ctx context.Context, selected []transport.RemoteLeadRecord, opts Options) (transport.ImportSummary, error) {
	var summary transport.ImportSummary

	if len(selected) == 0 {
		return summary, apperr.Validation("no leads selected for import")
	}

	snapshot, err := o.snapshots.Load(ctx)
	if err != nil {
		return summary, apperr.Wrap(apperr.KindInternal, "failed to load lead snapshot", err)
	}
	index := leadsdomain.NewDuplicateIndex(snapshot)

	reporter := o.reporter
	if opts.Reporter != nil {
		reporter = MultiReporter{o.reporter, opts.Reporter}
	}

	batchID := uuid.NewString()
	reporter.Start(batchID, len(selected))

	var cancelled error
	if opts.workers() == 1 {
		snapshot, cancelled = o.runSerial(ctx, batchID, selected, snapshot, index, &summary, reporter)
	} else {
		snapshot, cancelled = o.runPooled(ctx, batchID, selected, snapshot, index, &summary, opts.workers(), reporter)
	}

	// Whatever was committed before a cancellation still gets persisted.
	if err := o.snapshots.Persist(ctx, snapshot); err != nil {
		return summary, apperr.Wrap(apperr.KindInternal, "failed to persist lead snapshot", err)
	}

	o.bus.Publish(ctx, events.ImportBatchCompleted{
		BaseEvent:             events.NewBaseEvent(),
		BatchID:               batchID,
		Trigger:               opts.trigger(),
		SelectedCount:         len(selected),
		ImportedCount:         summary.ImportedCount,
		SkippedDuplicateCount: summary.SkippedDuplicateCount,
		FailedCount:           summary.FailedCount,
	})
	reporter.Finish(batchID, summary)

	return summary, cancelled
}

// runSerial is the reference behavior: one lead at a time, duplicate check
// interleaved with processing.
func (o *Orchestrator) runSerial(
	ctx context.Context,
	batchID string,
	selected []transport.RemoteLeadRecord,
	snapshot []leadsdomain.LocalLeadRecord,
	index *leadsdomain.DuplicateIndex,
	summary *transport.ImportSummary,
	reporter Reporter,
) ([]leadsdomain.LocalLeadRecord, error) {
	for i, lead := range selected {
		if err := ctx.Err(); err != nil {
			return snapshot, err
		}

		if index.IsDuplicate(lead.Phone, lead.DOTNumber, lead.ID) {
			summary.SkippedDuplicateCount++
			reporter.Update(batchID, i, lead.Name, "skipped duplicate")
			continue
		}

		reporter.Update(batchID, i, lead.Name, "transcribing")
		record, failed := o.importOne(ctx, lead)
		if failed {
			summary.FailedCount++
		}

		snapshot = append(snapshot, record)
		index.Add(&record)
		summary.ImportedCount++

		stage := "imported"
		if record.TranscriptStatus == leadsdomain.TranscriptFailed {
			stage = "imported without transcript"
		}
		reporter.Update(batchID, i, lead.Name, stage)
		o.publishImported(ctx, &record)
	}
	return snapshot, nil
}

// runPooled processes leads with a small bounded pool. Duplicate decisions
// are made upfront in selection order so batch-internal duplicates resolve
// the same way they would serially, then the surviving leads are enriched
// concurrently and committed in selection order.
func (o *Orchestrator) runPooled(
	ctx context.Context,
	batchID string,
	selected []transport.RemoteLeadRecord,
	snapshot []leadsdomain.LocalLeadRecord,
	index *leadsdomain.DuplicateIndex,
	summary *transport.ImportSummary,
	workers int,
	reporter Reporter,
) ([]leadsdomain.LocalLeadRecord, error) {
	type slot struct {
		lead      transport.RemoteLeadRecord
		duplicate bool
		record    leadsdomain.LocalLeadRecord
		imported  bool
		failed    bool
	}

	slots := make([]slot, len(selected))
	for i, lead := range selected {
		slots[i].lead = lead
		if index.IsDuplicate(lead.Phone, lead.DOTNumber, lead.ID) {
			slots[i].duplicate = true
			continue
		}
		// Claim the keys now so a same-batch twin further down resolves as
		// a duplicate, exactly as it would serially.
		claim := newLocalRecord(lead, nil, "", o.now())
		index.Add(&claim)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range slots {
		if slots[i].duplicate {
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reporter.Update(batchID, i, slots[i].lead.Name, "transcribing")
			slots[i].record, slots[i].failed = o.importOne(gctx, slots[i].lead)
			slots[i].imported = true
			return nil
		})
	}
	cancelled := g.Wait()

	for i := range slots {
		switch {
		case slots[i].duplicate:
			summary.SkippedDuplicateCount++
			reporter.Update(batchID, i, slots[i].lead.Name, "skipped duplicate")
		case slots[i].imported:
			snapshot = append(snapshot, slots[i].record)
			summary.ImportedCount++
			if slots[i].failed {
				summary.FailedCount++
			}

			stage := "imported"
			if slots[i].record.TranscriptStatus == leadsdomain.TranscriptFailed {
				stage = "imported without transcript"
			}
			reporter.Update(batchID, i, slots[i].lead.Name, stage)
			o.publishImported(ctx, &slots[i].record)
		}
	}
	return snapshot, cancelled
}

// importOne runs the enrichment call and always yields a committable record.
// Processing failures produce a degraded record with a failure note; the
// second return reports the failure for summary accounting.
func (o *Orchestrator) importOne(ctx context.Context, lead transport.RemoteLeadRecord) (leadsdomain.LocalLeadRecord, bool) {
	enriched, err := o.processor.ProcessLead(ctx, lead)
	if err != nil {
		o.log.Warn("lead processing failed, importing degraded",
			"lead_id", lead.ID,
			"lead_name", lead.Name,
			"error", err,
		)
		return newLocalRecord(lead, nil, failureNote(err), o.now()), true
	}
	return newLocalRecord(lead, enriched, "", o.now()), false
}

func (o *Orchestrator) publishImported(ctx context.Context, record *leadsdomain.LocalLeadRecord) {
	o.bus.Publish(ctx, events.LeadImported{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     record.ID,
		ExternalID: record.ExternalID,
		Name:       record.Name,
		Degraded:   record.TranscriptStatus == leadsdomain.TranscriptFailed,
	})
}

// newLocalRecord merges a remote lead and its enrichment into a fresh CRM
// record. A nil enrichment yields the degraded form.
func newLocalRecord(lead transport.RemoteLeadRecord, enriched *transport.EnrichedLead, note string, now time.Time) leadsdomain.LocalLeadRecord {
	record := leadsdomain.LocalLeadRecord{
		ID:               uuid.New(),
		ExternalID:       lead.ID,
		Name:             lead.Name,
		Phone:            lead.Phone,
		Email:            lead.Email,
		DOTNumber:        lead.DOTNumber,
		ListID:           lead.ListID,
		ListName:         lead.ListName,
		SaleDate:         lead.SaleDate,
		Agent:            lead.Agent,
		EstimatedPremium: lead.EstimatedPremium,
		FleetSize:        lead.FleetSize,
		Notes:            lead.Notes,
		Stage:            leadsdomain.StageNew,
		TranscriptStatus: leadsdomain.TranscriptNone,
		FailureNote:      note,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if enriched == nil {
		if note != "" {
			record.TranscriptStatus = leadsdomain.TranscriptFailed
		}
		return record
	}

	if enriched.Transcript != "" {
		record.Transcript = enriched.Transcript
		record.TranscriptStatus = leadsdomain.TranscriptCompleted
	}
	if enriched.Notes != "" {
		record.Notes = enriched.Notes
	}
	if enriched.DOTNumber != "" {
		record.DOTNumber = enriched.DOTNumber
	}
	if enriched.EstimatedPremium > 0 {
		record.EstimatedPremium = enriched.EstimatedPremium
	}
	if enriched.FleetSize > 0 {
		record.FleetSize = enriched.FleetSize
	}
	return record
}

func failureNote(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return fmt.Sprintf("transcription failed: %s", appErr.Message)
	}
	return fmt.Sprintf("transcription failed: %v", err)
}

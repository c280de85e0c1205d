package events

import "github.com/google/uuid"

// LeadImported is published for every lead the import orchestrator commits,
// including degraded imports whose enrichment failed.
type LeadImported struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	ExternalID string    `json:"externalId"`
	Name       string    `json:"name"`
	Degraded   bool      `json:"degraded"`
}

// EventName returns the unique event identifier.
func (e LeadImported) EventName() string { return "leads.imported" }

// ImportBatchCompleted is published once per import batch with the terminal
// summary, regardless of partial per-lead failures.
type ImportBatchCompleted struct {
	BaseEvent
	BatchID               string `json:"batchId"`
	Trigger               string `json:"trigger"` // "interactive" or "background"
	SelectedCount         int    `json:"selectedCount"`
	ImportedCount         int    `json:"importedCount"`
	SkippedDuplicateCount int    `json:"skippedDuplicateCount"`
	FailedCount           int    `json:"failedCount"`
}

// EventName returns the unique event identifier.
func (e ImportBatchCompleted) EventName() string { return "vicidial.import_batch_completed" }

// LeadStageChanged is published when a CRM user moves a lead to a new
// pipeline stage.
type LeadStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
}

// EventName returns the unique event identifier.
func (e LeadStageChanged) EventName() string { return "leads.stage_changed" }

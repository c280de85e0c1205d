// Package domain holds the lead entities and the invariants that govern them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PipelineStage is the CRM pipeline position of a lead.
type PipelineStage string

const (
	StageNew          PipelineStage = "New"
	StageContacted    PipelineStage = "Contacted"
	StageQuoting      PipelineStage = "Quoting"
	StageQuoteSent    PipelineStage = "Quote_Sent"
	StageBound        PipelineStage = "Bound"
	StageLost         PipelineStage = "Lost"
)

// ValidStages lists every pipeline stage in board order.
var ValidStages = []PipelineStage{
	StageNew, StageContacted, StageQuoting, StageQuoteSent, StageBound, StageLost,
}

// IsValidStage reports whether the stage is a known pipeline stage.
func IsValidStage(stage PipelineStage) bool {
	for _, s := range ValidStages {
		if s == stage {
			return true
		}
	}
	return false
}

// TranscriptStatus describes the enrichment outcome for an imported lead.
type TranscriptStatus string

const (
	TranscriptCompleted TranscriptStatus = "completed"
	TranscriptFailed    TranscriptStatus = "failed"
	TranscriptNone      TranscriptStatus = "none"
)

// ReachOutKind is a contact-attempt channel tracked on a lead.
type ReachOutKind string

const (
	ReachOutCall  ReachOutKind = "call"
	ReachOutEmail ReachOutKind = "email"
	ReachOutText  ReachOutKind = "text"
)

// LocalLeadRecord is the persisted CRM entity. It is a superset of the
// remote call-center record plus the CRM-side fields mutated for the rest
// of the lead's life. Records are never deleted by the import subsystem.
type LocalLeadRecord struct {
	ID               uuid.UUID        `json:"id"`
	ExternalID       string           `json:"externalId"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email,omitempty"`
	DOTNumber        string           `json:"dotNumber,omitempty"`
	ListID           string           `json:"listId,omitempty"`
	ListName         string           `json:"listName,omitempty"`
	SaleDate         string           `json:"saleDate,omitempty"`
	Agent            string           `json:"agent,omitempty"`
	EstimatedPremium float64          `json:"estimatedPremium,omitempty"`
	FleetSize        int              `json:"fleetSize,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Stage            PipelineStage    `json:"stage"`
	AssignedRep      string           `json:"assignedRep,omitempty"`
	ReachOutCalls    int              `json:"reachOutCalls"`
	ReachOutEmails   int              `json:"reachOutEmails"`
	ReachOutTexts    int              `json:"reachOutTexts"`
	LastReachOutAt   *time.Time       `json:"lastReachOutAt,omitempty"`
	StageChangedAt   *time.Time       `json:"stageChangedAt,omitempty"`
	Transcript       string           `json:"transcript,omitempty"`
	TranscriptStatus TranscriptStatus `json:"transcriptStatus"`
	FailureNote      string           `json:"failureNote,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ChangeStage moves the lead to a new pipeline stage and stamps the change.
func (l *LocalLeadRecord) ChangeStage(stage PipelineStage, now time.Time) {
	l.Stage = stage
	l.StageChangedAt = &now
	l.UpdatedAt = now
}

// UpdateDetails edits the rep-owned fields. Nil means "leave unchanged".
func (l *LocalLeadRecord) UpdateDetails(assignedRep, notes *string, now time.Time) {
	if assignedRep != nil {
		l.AssignedRep = *assignedRep
	}
	if notes != nil {
		l.Notes = *notes
	}
	l.UpdatedAt = now
}

// LogReachOut increments the counter for the given channel.
func (l *LocalLeadRecord) LogReachOut(kind ReachOutKind, now time.Time) {
	switch kind {
	case ReachOutCall:
		l.ReachOutCalls++
	case ReachOutEmail:
		l.ReachOutEmails++
	case ReachOutText:
		l.ReachOutTexts++
	}
	l.LastReachOutAt = &now
	l.UpdatedAt = now
}

// Package transport defines the wire shapes for the leads API.
package transport

import (
	"time"

	"vanguard_backend/internal/leads/domain"
)

// PersistSnapshotRequest carries the full lead collection to persist. The
// endpoint replaces the stored snapshot wholesale, mirroring how the
// collection is saved everywhere else.
type PersistSnapshotRequest struct {
	Leads []LeadPayload `json:"leads" binding:"required"`
}

// LeadPayload is the client-facing lead shape. Field names follow the JSON
// snapshot format so clients can round-trip records unchanged.
type LeadPayload struct {
	ID               string     `json:"id"`
	ExternalID       string     `json:"externalId"`
	Name             string     `json:"name" binding:"required"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email,omitempty"`
	DOTNumber        string     `json:"dotNumber,omitempty"`
	ListID           string     `json:"listId,omitempty"`
	ListName         string     `json:"listName,omitempty"`
	SaleDate         string     `json:"saleDate,omitempty"`
	Agent            string     `json:"agent,omitempty"`
	EstimatedPremium float64    `json:"estimatedPremium,omitempty"`
	FleetSize        int        `json:"fleetSize,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Stage            string     `json:"stage,omitempty"`
	AssignedRep      string     `json:"assignedRep,omitempty"`
	ReachOutCalls    int        `json:"reachOutCalls,omitempty"`
	ReachOutEmails   int        `json:"reachOutEmails,omitempty"`
	ReachOutTexts    int        `json:"reachOutTexts,omitempty"`
	LastReachOutAt   *time.Time `json:"lastReachOutAt,omitempty"`
	StageChangedAt   *time.Time `json:"stageChangedAt,omitempty"`
	Transcript       string     `json:"transcript,omitempty"`
	TranscriptStatus string     `json:"transcriptStatus,omitempty"`
	FailureNote      string     `json:"failureNote,omitempty"`
	CreatedAt        time.Time  `json:"createdAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt,omitempty"`
}

// UpdateLeadRequest edits a lead's CRM-owned fields. Absent fields stay
// unchanged.
type UpdateLeadRequest struct {
	AssignedRep *string `json:"assignedRep"`
	Notes       *string `json:"notes"`
}

// ChangeStageRequest moves a lead to a new pipeline stage.
type ChangeStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// LogReachOutRequest records a contact attempt on a lead.
type LogReachOutRequest struct {
	Kind string `json:"kind" binding:"required,oneof=call email text"`
}

// LeadResponse returns a single lead.
type LeadResponse struct {
	Lead domain.LocalLeadRecord `json:"lead"`
}

// LeadListResponse returns the full collection.
type LeadListResponse struct {
	Leads []domain.LocalLeadRecord `json:"leads"`
	Count int                      `json:"count"`
}

// PersistSnapshotResponse acknowledges a snapshot write.
type PersistSnapshotResponse struct {
	Saved int `json:"saved"`
}

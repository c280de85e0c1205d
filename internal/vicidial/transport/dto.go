// Package transport defines the wire shapes shared between the call-center
// bridge client and the HTTP handlers.
package transport

// RemoteLeadRecord is a sale lead as reported by the call-center system.
// Records are immutable once fetched.
type RemoteLeadRecord struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email,omitempty"`
	ListID           string  `json:"listId"`
	ListName         string  `json:"listName,omitempty"`
	SaleDate         string  `json:"saleDate,omitempty"`
	Agent            string  `json:"agent,omitempty"`
	EstimatedPremium float64 `json:"estimatedPremium,omitempty"`
	FleetSize        int     `json:"fleetSize,omitempty"`
	DOTNumber        string  `json:"dotNumber,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// ListSummary describes one call-center list, including lists that currently
// hold no sale leads.
type ListSummary struct {
	ListID    string `json:"listId"`
	ListName  string `json:"listName"`
	LeadCount int    `json:"leadCount"`
	SaleCount int    `json:"saleCount"`
	Active    bool   `json:"active"`
}

// CatalogResponse is the bridge's catalog payload.
type CatalogResponse struct {
	Success            bool               `json:"success"`
	TotalListsScanned  int                `json:"totalListsScanned"`
	ListsWithSaleLeads int                `json:"listsWithSaleLeads"`
	TotalSaleLeads     int                `json:"totalSaleLeads"`
	AllListsSummary    []ListSummary      `json:"allListsSummary"`
	SaleLeads          []RemoteLeadRecord `json:"saleLeads"`
	Error              string             `json:"error,omitempty"`
}

// EnrichedLead is the per-lead processing result (transcription plus any
// fields the bridge corrected or filled in).
type EnrichedLead struct {
	Transcript       string  `json:"transcript,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	DOTNumber        string  `json:"dotNumber,omitempty"`
	EstimatedPremium float64 `json:"estimatedPremium,omitempty"`
	FleetSize        int     `json:"fleetSize,omitempty"`
}

// ProcessLeadRequest wraps one lead for the bridge's process endpoint.
type ProcessLeadRequest struct {
	LeadData RemoteLeadRecord `json:"leadData"`
}

// ProcessLeadResponse is the bridge's per-lead processing reply.
type ProcessLeadResponse struct {
	Success bool         `json:"success"`
	Lead    EnrichedLead `json:"lead"`
	Error   string       `json:"error,omitempty"`
}

// ImportSummary is the terminal result of one import batch.
type ImportSummary struct {
	ImportedCount         int `json:"importedCount"`
	SkippedDuplicateCount int `json:"skippedDuplicateCount"`
	FailedCount           int `json:"failedCount"`
}

// ImportRequest selects leads for an interactive import.
type ImportRequest struct {
	SelectedLeads []RemoteLeadRecord `json:"selectedLeads" binding:"required"`
	Concurrency   int                `json:"concurrency,omitempty"`
}

// ToggleSelectionRequest flips one lead's checked flag by batch position.
type ToggleSelectionRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SelectionResponse reports the server-side selection after a mutation.
type SelectionResponse struct {
	Total         int `json:"total"`
	SelectedCount int `json:"selectedCount"`
}

// SyncSalesRequest enqueues a background selective import.
type SyncSalesRequest struct {
	SelectedLeads []RemoteLeadRecord `json:"selectedLeads" binding:"required"`
	Selective     bool               `json:"selective"`
}

// SyncStatus is the polled view of a background import.
type SyncStatus struct {
	Status         string `json:"status"` // running | completed | error
	Percentage     int    `json:"percentage"`
	Message        string `json:"message"`
	ProcessedLeads int    `json:"processedLeads"`
	TotalLeads     int    `json:"totalLeads"`
}

// ProgressUpdate is one step of the interactive import progress stream.
type ProgressUpdate struct {
	BatchID   string `json:"batchId"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	LeadName  string `json:"leadName"`
	StageText string `json:"stageText"`
	Done      bool   `json:"done"`
}

// Package exports builds CSV extracts of the lead collection and archives
// them in object storage.
package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"vanguard_backend/internal/adapters/storage"
	"vanguard_backend/internal/leads/domain"
	leadsservice "vanguard_backend/internal/leads/service"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/logger"
)

var csvHeader = []string{
	"id", "external_id", "name", "phone", "email", "dot_number",
	"list_id", "list_name", "sale_date", "agent", "estimated_premium",
	"fleet_size", "stage", "assigned_rep", "reach_out_calls",
	"reach_out_emails", "reach_out_texts", "transcript_status",
	"failure_note", "created_at",
}

type Service struct {
	leads   *leadsservice.Service
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
	now     func() time.Time
}

// New creates the export service. A nil storage disables archiving; exports
// are then returned inline only.
func New(leads *leadsservice.Service, store storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		leads:   leads,
		storage: store,
		bucket:  bucket,
		log:     log,
		now:     time.Now,
	}
}

// Result describes one finished export.
type Result struct {
	FileName    string                `json:"fileName"`
	RecordCount int                   `json:"recordCount"`
	Download    *storage.PresignedURL `json:"download,omitempty"`
}

// ExportLeads renders the current snapshot as CSV, archives it when storage
// is configured, and returns the CSV bytes plus archive metadata.
func (s *Service) ExportLeads(ctx context.Context) ([]byte, *Result, error) {
	snapshot, err := s.leads.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	data, err := BuildCSV(snapshot)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindInternal, "failed to build export", err)
	}

	result := &Result{
		FileName:    fmt.Sprintf("leads_%s.csv", s.now().Format("2006-01-02")),
		RecordCount: len(snapshot),
	}

	if s.storage != nil {
		fileKey, err := s.storage.UploadFile(ctx, s.bucket, "exports", result.FileName, "text/csv",
			bytes.NewReader(data), int64(len(data)))
		if err != nil {
			// Archive failure is not fatal; the caller still gets the CSV.
			s.log.Warn("export archive upload failed", "error", err)
			return data, result, nil
		}

		download, err := s.storage.GenerateDownloadURL(ctx, s.bucket, fileKey)
		if err != nil {
			s.log.Warn("export presign failed", "file_key", fileKey, "error", err)
			return data, result, nil
		}
		result.Download = download
	}

	return data, result, nil
}

// BuildCSV renders the snapshot as CSV with a fixed header row.
func BuildCSV(snapshot []domain.LocalLeadRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range snapshot {
		lead := &snapshot[i]
		row := []string{
			lead.ID.String(),
			lead.ExternalID,
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.DOTNumber,
			lead.ListID,
			lead.ListName,
			lead.SaleDate,
			lead.Agent,
			strconv.FormatFloat(lead.EstimatedPremium, 'f', 2, 64),
			strconv.Itoa(lead.FleetSize),
			string(lead.Stage),
			lead.AssignedRep,
			strconv.Itoa(lead.ReachOutCalls),
			strconv.Itoa(lead.ReachOutEmails),
			strconv.Itoa(lead.ReachOutTexts),
			string(lead.TranscriptStatus),
			lead.FailureNote,
			lead.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

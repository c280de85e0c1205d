package exports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"vanguard_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestBuildCSV_HeaderOnlyForEmptySnapshot(t *testing.T) {
	data, err := BuildCSV(nil)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header row only, got %d rows", len(rows))
	}
	if rows[0][0] != "id" || rows[0][2] != "name" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
}

func TestBuildCSV_OneRowPerLead(t *testing.T) {
	snapshot := []domain.LocalLeadRecord{
		{
			ID:               uuid.New(),
			ExternalID:       "x1",
			Name:             "Acme Trucking",
			Phone:            "555-0001",
			EstimatedPremium: 12500.50,
			FleetSize:        8,
			Stage:            domain.StageQuoting,
			TranscriptStatus: domain.TranscriptCompleted,
			CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:               uuid.New(),
			ExternalID:       "x2",
			Name:             "Notes, \"quoted\" and commas",
			Stage:            domain.StageNew,
			TranscriptStatus: domain.TranscriptFailed,
			FailureNote:      "transcription failed: no recording found",
			CreatedAt:        time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := BuildCSV(snapshot)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][2] != "Acme Trucking" || rows[1][10] != "12500.50" {
		t.Fatalf("row 1 wrong: %v", rows[1])
	}
	if rows[2][2] != "Notes, \"quoted\" and commas" {
		t.Fatalf("csv escaping broken: %q", rows[2][2])
	}
	if rows[2][18] != "transcription failed: no recording found" {
		t.Fatalf("failure note missing: %v", rows[2])
	}
}

// Package repository mirrors the lead snapshot into Postgres. The snapshot
// store stays the system of record; this mirror exists for reporting and for
// tools that want SQL access, so writes here are best-effort upserts.
package repository

import (
	"context"
	"errors"
	"time"

	"vanguard_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert writes a lead by id, replacing any prior mirrored row.
func (r *Repository) Upsert(ctx context.Context, lead *domain.LocalLeadRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (
			id, external_id, name, phone, email, dot_number,
			list_id, list_name, sale_date, agent, estimated_premium, fleet_size,
			notes, stage, assigned_rep,
			reach_out_calls, reach_out_emails, reach_out_texts,
			last_reach_out_at, stage_changed_at,
			transcript, transcript_status, failure_note,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20,
			$21, $22, $23,
			$24, $25
		)
		ON CONFLICT (id) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			dot_number = EXCLUDED.dot_number,
			list_id = EXCLUDED.list_id,
			list_name = EXCLUDED.list_name,
			sale_date = EXCLUDED.sale_date,
			agent = EXCLUDED.agent,
			estimated_premium = EXCLUDED.estimated_premium,
			fleet_size = EXCLUDED.fleet_size,
			notes = EXCLUDED.notes,
			stage = EXCLUDED.stage,
			assigned_rep = EXCLUDED.assigned_rep,
			reach_out_calls = EXCLUDED.reach_out_calls,
			reach_out_emails = EXCLUDED.reach_out_emails,
			reach_out_texts = EXCLUDED.reach_out_texts,
			last_reach_out_at = EXCLUDED.last_reach_out_at,
			stage_changed_at = EXCLUDED.stage_changed_at,
			transcript = EXCLUDED.transcript,
			transcript_status = EXCLUDED.transcript_status,
			failure_note = EXCLUDED.failure_note,
			updated_at = EXCLUDED.updated_at
	`,
		lead.ID, lead.ExternalID, lead.Name, lead.Phone, nullable(lead.Email), nullable(lead.DOTNumber),
		nullable(lead.ListID), nullable(lead.ListName), nullable(lead.SaleDate), nullable(lead.Agent), lead.EstimatedPremium, lead.FleetSize,
		nullable(lead.Notes), string(lead.Stage), nullable(lead.AssignedRep),
		lead.ReachOutCalls, lead.ReachOutEmails, lead.ReachOutTexts,
		lead.LastReachOutAt, lead.StageChangedAt,
		nullable(lead.Transcript), string(lead.TranscriptStatus), nullable(lead.FailureNote),
		lead.CreatedAt, lead.UpdatedAt,
	)
	return err
}

// UpsertBatch mirrors several leads in one round trip.
func (r *Repository) UpsertBatch(ctx context.Context, leads []domain.LocalLeadRecord) error {
	if len(leads) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range leads {
		lead := &leads[i]
		batch.Queue(`
			INSERT INTO leads (
				id, external_id, name, phone, email, dot_number,
				list_id, list_name, sale_date, agent, estimated_premium, fleet_size,
				notes, stage, assigned_rep,
				reach_out_calls, reach_out_emails, reach_out_texts,
				last_reach_out_at, stage_changed_at,
				transcript, transcript_status, failure_note,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10, $11, $12,
				$13, $14, $15,
				$16, $17, $18,
				$19, $20,
				$21, $22, $23,
				$24, $25
			)
			ON CONFLICT (id) DO UPDATE SET
				stage = EXCLUDED.stage,
				notes = EXCLUDED.notes,
				transcript = EXCLUDED.transcript,
				transcript_status = EXCLUDED.transcript_status,
				failure_note = EXCLUDED.failure_note,
				updated_at = EXCLUDED.updated_at
		`,
			lead.ID, lead.ExternalID, lead.Name, lead.Phone, nullable(lead.Email), nullable(lead.DOTNumber),
			nullable(lead.ListID), nullable(lead.ListName), nullable(lead.SaleDate), nullable(lead.Agent), lead.EstimatedPremium, lead.FleetSize,
			nullable(lead.Notes), string(lead.Stage), nullable(lead.AssignedRep),
			lead.ReachOutCalls, lead.ReachOutEmails, lead.ReachOutTexts,
			lead.LastReachOutAt, lead.StageChangedAt,
			nullable(lead.Transcript), string(lead.TranscriptStatus), nullable(lead.FailureNote),
			lead.CreatedAt, lead.UpdatedAt,
		)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range leads {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetByID loads a single mirrored lead.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LocalLeadRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, external_id, name, phone, email, dot_number,
		       list_id, list_name, sale_date, agent, estimated_premium, fleet_size,
		       notes, stage, assigned_rep,
		       reach_out_calls, reach_out_emails, reach_out_texts,
		       last_reach_out_at, stage_changed_at,
		       transcript, transcript_status, failure_note,
		       created_at, updated_at
		FROM leads
		WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// List returns every mirrored lead, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.LocalLeadRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, external_id, name, phone, email, dot_number,
		       list_id, list_name, sale_date, agent, estimated_premium, fleet_size,
		       notes, stage, assigned_rep,
		       reach_out_calls, reach_out_emails, reach_out_texts,
		       last_reach_out_at, stage_changed_at,
		       transcript, transcript_status, failure_note,
		       created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.LocalLeadRecord, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *lead)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*domain.LocalLeadRecord, error) {
	var (
		lead                                              domain.LocalLeadRecord
		email, dotNumber, listID, listName, saleDate      *string
		agent, notes, assignedRep, transcript, failure    *string
		lastReachOutAt, stageChangedAt                    *time.Time
		stage, transcriptStatus                           string
	)
	err := row.Scan(
		&lead.ID, &lead.ExternalID, &lead.Name, &lead.Phone, &email, &dotNumber,
		&listID, &listName, &saleDate, &agent, &lead.EstimatedPremium, &lead.FleetSize,
		&notes, &stage, &assignedRep,
		&lead.ReachOutCalls, &lead.ReachOutEmails, &lead.ReachOutTexts,
		&lastReachOutAt, &stageChangedAt,
		&transcript, &transcriptStatus, &failure,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Email = deref(email)
	lead.DOTNumber = deref(dotNumber)
	lead.ListID = deref(listID)
	lead.ListName = deref(listName)
	lead.SaleDate = deref(saleDate)
	lead.Agent = deref(agent)
	lead.Notes = deref(notes)
	lead.AssignedRep = deref(assignedRep)
	lead.Transcript = deref(transcript)
	lead.FailureNote = deref(failure)
	lead.Stage = domain.PipelineStage(stage)
	lead.TranscriptStatus = domain.TranscriptStatus(transcriptStatus)
	lead.LastReachOutAt = lastReachOutAt
	lead.StageChangedAt = stageChangedAt
	return &lead, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

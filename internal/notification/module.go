// Package notification reacts to domain events with outbound notifications,
// so the import workflow never has to know about SMTP or recipients.
package notification

import (
	"context"
	"fmt"

	"vanguard_backend/internal/email"
	"vanguard_backend/internal/events"
	"vanguard_backend/platform/config"
	"vanguard_backend/platform/logger"
)

type Module struct {
	sender    email.Sender
	recipient string
	log       *logger.Logger
}

// NewModule wires the event subscriptions. With email disabled or no
// recipient configured, events are still consumed but only logged.
func NewModule(cfg config.EmailConfig, bus events.Bus, log *logger.Logger) *Module {
	var sender email.Sender = email.NopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
	}

	m := &Module{
		sender:    sender,
		recipient: cfg.GetImportSummaryRecipient(),
		log:       log,
	}

	bus.Subscribe(events.ImportBatchCompleted{}.EventName(), m)
	bus.Subscribe(events.LeadImported{}.EventName(), m)

	return m
}

// Handle dispatches subscribed events.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ImportBatchCompleted:
		return m.handleImportBatchCompleted(ctx, e)
	case events.LeadImported:
		m.handleLeadImported(e)
		return nil
	default:
		return fmt.Errorf("unexpected event type %T", event)
	}
}

func (m *Module) handleImportBatchCompleted(ctx context.Context, e events.ImportBatchCompleted) error {
	m.log.Info("import batch completed",
		"batch_id", e.BatchID,
		"trigger", e.Trigger,
		"selected", e.SelectedCount,
		"imported", e.ImportedCount,
		"skipped_duplicates", e.SkippedDuplicateCount,
		"failed", e.FailedCount,
	)

	if m.recipient == "" {
		return nil
	}

	err := m.sender.SendImportSummary(ctx, m.recipient, email.ImportSummaryData{
		BatchID:               e.BatchID,
		Trigger:               e.Trigger,
		SelectedCount:         e.SelectedCount,
		ImportedCount:         e.ImportedCount,
		SkippedDuplicateCount: e.SkippedDuplicateCount,
		FailedCount:           e.FailedCount,
	})
	if err != nil {
		m.log.Warn("import summary email failed", "batch_id", e.BatchID, "error", err)
	}
	return nil
}

func (m *Module) handleLeadImported(e events.LeadImported) {
	if e.Degraded {
		m.log.Warn("lead imported without transcript", "lead_id", e.LeadID, "name", e.Name)
	}
}

package scheduler

import (
	"encoding/json"

	"vanguard_backend/internal/vicidial/transport"

	"github.com/hibiken/asynq"
)

const TaskSyncSales = "vicidial:sync_sales"

// SyncSalesPayload carries one selective background import.
type SyncSalesPayload struct {
	SelectedLeads []transport.RemoteLeadRecord `json:"selectedLeads"`
	Selective     bool                         `json:"selective"`
	Concurrency   int                          `json:"concurrency,omitempty"`
}

func NewSyncSalesTask(payload SyncSalesPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// One retry at most: a re-run only skips duplicates, but the operator
	// should not wait through repeated transcription passes.
	return asynq.NewTask(TaskSyncSales, data, asynq.MaxRetry(1)), nil
}

func ParseSyncSalesPayload(task *asynq.Task) (SyncSalesPayload, error) {
	var payload SyncSalesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SyncSalesPayload{}, err
	}
	return payload, nil
}

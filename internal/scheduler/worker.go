package scheduler

import (
	"context"
	"fmt"

	"vanguard_backend/internal/vicidial/importer"
	"vanguard_backend/internal/vicidial/status"
	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/config"
	"vanguard_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	orchestrator *importer.Orchestrator
	statuses     *status.Store
	log          *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, orchestrator *importer.Orchestrator, statuses *status.Store, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		orchestrator: orchestrator,
		statuses:     statuses,
		log:          log,
	}

	mux.HandleFunc(TaskSyncSales, w.handleSyncSales)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleSyncSales runs a selective import in the background, publishing its
// progress to the polled status store.
func (w *Worker) handleSyncSales(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSyncSalesPayload(task)
	if err != nil {
		return err
	}
	if len(payload.SelectedLeads) == 0 {
		w.log.Warn("sync sales task with empty selection dropped")
		return nil
	}

	total := len(payload.SelectedLeads)
	if err := w.statuses.Progress(ctx, 0, total, "starting import"); err != nil {
		w.log.Warn("sync status write failed", "error", err)
	}

	summary, err := w.orchestrator.ImportLeads(ctx, payload.SelectedLeads, importer.Options{
		Concurrency: payload.Concurrency,
		Reporter:    &statusReporter{statuses: w.statuses, total: total, log: w.log},
		Trigger:     "background",
	})
	if err != nil {
		if failErr := w.statuses.Fail(context.WithoutCancel(ctx), err.Error()); failErr != nil {
			w.log.Warn("sync status write failed", "error", failErr)
		}
		return err
	}

	message := fmt.Sprintf("imported %d, skipped %d duplicates, %d without transcript",
		summary.ImportedCount, summary.SkippedDuplicateCount, summary.FailedCount)
	if err := w.statuses.Complete(ctx, total, message); err != nil {
		w.log.Warn("sync status write failed", "error", err)
	}

	return nil
}

// statusReporter adapts the import progress stream onto the status store.
type statusReporter struct {
	statuses *status.Store
	total    int
	log      *logger.Logger
}

func (r *statusReporter) Start(batchID string, total int) {
	r.total = total
}

func (r *statusReporter) Update(batchID string, index int, leadName, stageText string) {
	message := fmt.Sprintf("%s: %s", leadName, stageText)
	if err := r.statuses.Progress(context.Background(), index+1, r.total, message); err != nil {
		r.log.Warn("sync status write failed", "error", err)
	}
}

func (r *statusReporter) Finish(batchID string, summary transport.ImportSummary) {}

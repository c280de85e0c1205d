package importer

import (
	"sync"

	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/logger"
)

// Reporter observes the import loop. It is a rendering sink, not a state
// machine: the orchestrator drives it through start, one update per lead,
// and a terminal finish.
type Reporter interface {
	Start(batchID string, total int)
	Update(batchID string, index int, leadName, stageText string)
	Finish(batchID string, summary transport.ImportSummary)
}

// NopReporter discards all progress.
type NopReporter struct{}

func (NopReporter) Start(string, int)                      {}
func (NopReporter) Update(string, int, string, string)     {}
func (NopReporter) Finish(string, transport.ImportSummary) {}

// LogReporter writes progress to the structured log.
type LogReporter struct {
	Log *logger.Logger
}

func (r LogReporter) Start(batchID string, total int) {
	r.Log.ImportEvent("batch_started", batchID, total, "", "")
}

func (r LogReporter) Update(batchID string, index int, leadName, stageText string) {
	r.Log.ImportEvent("lead_progress", batchID, index, leadName, stageText)
}

func (r LogReporter) Finish(batchID string, summary transport.ImportSummary) {
	r.Log.Info("import_batch_finished",
		"batch_id", batchID,
		"imported", summary.ImportedCount,
		"skipped_duplicates", summary.SkippedDuplicateCount,
		"failed", summary.FailedCount,
	)
}

// Hub fans progress updates out to live subscribers, one buffered channel
// per subscriber. Slow subscribers drop updates instead of blocking the
// import loop.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan transport.ProgressUpdate]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan transport.ProgressUpdate]struct{})}
}

// Subscribe returns a channel of progress updates and a cancel func that
// must be called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan transport.ProgressUpdate, func()) {
	ch := make(chan transport.ProgressUpdate, 64)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) broadcast(update transport.ProgressUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

func (h *Hub) Start(batchID string, total int) {
	h.broadcast(transport.ProgressUpdate{BatchID: batchID, Total: total, StageText: "starting"})
}

func (h *Hub) Update(batchID string, index int, leadName, stageText string) {
	h.broadcast(transport.ProgressUpdate{BatchID: batchID, Index: index, LeadName: leadName, StageText: stageText})
}

func (h *Hub) Finish(batchID string, summary transport.ImportSummary) {
	h.broadcast(transport.ProgressUpdate{BatchID: batchID, StageText: "finished", Done: true})
}

// MultiReporter drives several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Start(batchID string, total int) {
	for _, r := range m {
		r.Start(batchID, total)
	}
}

func (m MultiReporter) Update(batchID string, index int, leadName, stageText string) {
	for _, r := range m {
		r.Update(batchID, index, leadName, stageText)
	}
}

func (m MultiReporter) Finish(batchID string, summary transport.ImportSummary) {
	for _, r := range m {
		r.Finish(batchID, summary)
	}
}

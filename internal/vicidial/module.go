// Package vicidial wires the call-center import workflow: bridge client,
// import orchestrator, background sync status, and the progress stream.
package vicidial

import (
	"context"

	apphttp "vanguard_backend/internal/http"
	leadsdomain "vanguard_backend/internal/leads/domain"
	leadsservice "vanguard_backend/internal/leads/service"
	"vanguard_backend/internal/scheduler"
	"vanguard_backend/internal/vicidial/client"
	"vanguard_backend/internal/vicidial/handler"
	"vanguard_backend/internal/vicidial/importer"
	"vanguard_backend/internal/vicidial/status"
	"vanguard_backend/platform/config"
	"vanguard_backend/platform/events"
	"vanguard_backend/platform/logger"
	"vanguard_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

type Module struct {
	orchestrator *importer.Orchestrator
	statuses     *status.Store
	hub          *importer.Hub
	handler      *handler.Handler
}

// snapshotAdapter bridges the lead service onto the importer's persistence
// contract, so imports flow through the same save path as every other lead
// mutation (snapshot write plus best-effort mirror).
type snapshotAdapter struct {
	svc *leadsservice.Service
}

func (a snapshotAdapter) Load(ctx context.Context) ([]leadsdomain.LocalLeadRecord, error) {
	return a.svc.List(ctx)
}

func (a snapshotAdapter) Persist(ctx context.Context, snapshot []leadsdomain.LocalLeadRecord) error {
	return a.svc.PersistSnapshot(ctx, snapshot)
}

// NewModule assembles the import workflow on top of the leads module.
func NewModule(
	cfg *config.Config,
	rdb redis.UniversalClient,
	leadsSvc *leadsservice.Service,
	enqueuer scheduler.SyncEnqueuer,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	bridgeClient := client.New(cfg, log)
	hub := importer.NewHub()
	statuses := status.New(rdb, cfg.GetSyncStatusTTL())

	orchestrator := importer.New(
		bridgeClient,
		snapshotAdapter{svc: leadsSvc},
		importer.MultiReporter{importer.LogReporter{Log: log}, hub},
		bus,
		log,
	)

	return &Module{
		orchestrator: orchestrator,
		statuses:     statuses,
		hub:          hub,
		handler:      handler.New(bridgeClient, orchestrator, enqueuer, statuses, hub, cfg, val, log),
	}
}

func (m *Module) Name() string { return "vicidial" }

// Orchestrator exposes the import orchestrator to the background worker.
func (m *Module) Orchestrator() *importer.Orchestrator { return m.orchestrator }

// Statuses exposes the sync-status store to the background worker.
func (m *Module) Statuses() *status.Store { return m.statuses }

// RegisterRoutes mounts the workflow on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/vicidial")
	group.GET("/data", m.handler.FetchData)
	group.POST("/selection/toggle", m.handler.ToggleSelection)
	group.POST("/selection/select-all", m.handler.SelectAll)
	group.POST("/selection/deselect-all", m.handler.DeselectAll)
	group.POST("/import", m.handler.Import)
	group.POST("/import-selected", m.handler.ImportSelected)
	group.POST("/sync-sales", m.handler.SyncSales)
	group.GET("/sync-status", m.handler.SyncStatus)
	group.GET("/progress/stream", m.handler.ProgressStream)
}

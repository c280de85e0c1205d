// Package leads wires the lead collection module: snapshot store, Postgres
// mirror, service, and HTTP handlers.
package leads

import (
	apphttp "vanguard_backend/internal/http"
	"vanguard_backend/internal/leads/handler"
	"vanguard_backend/internal/leads/repository"
	"vanguard_backend/internal/leads/service"
	"vanguard_backend/internal/leads/store"
	"vanguard_backend/platform/events"
	"vanguard_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

// NewModule assembles the leads module. The pool may be nil when no database
// is configured; the snapshot store then runs without a mirror.
func NewModule(rdb redis.UniversalClient, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	snapshots := store.New(rdb)

	var mirror service.Mirror
	if pool != nil {
		mirror = repository.New(pool)
	}

	svc := service.New(snapshots, mirror, bus, log)
	return &Module{
		svc:     svc,
		handler: handler.New(svc, log),
	}
}

func (m *Module) Name() string { return "leads" }

// Service exposes the lead service to sibling modules (the importer persists
// batches through it).
func (m *Module) Service() *service.Service { return m.svc }

// RegisterRoutes mounts the leads API on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.GET("", m.handler.List)
	group.POST("", m.handler.PersistSnapshot)
	group.GET("/:id", m.handler.Get)
	group.PATCH("/:id", m.handler.Update)
	group.PATCH("/:id/stage", m.handler.ChangeStage)
	group.POST("/:id/reach-outs", m.handler.LogReachOut)
}

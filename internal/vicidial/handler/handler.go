// Package handler exposes the call-center import workflow over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"vanguard_backend/internal/scheduler"
	"vanguard_backend/internal/vicidial/client"
	"vanguard_backend/internal/vicidial/importer"
	"vanguard_backend/internal/vicidial/selection"
	"vanguard_backend/internal/vicidial/status"
	"vanguard_backend/internal/vicidial/summarizer"
	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/config"
	"vanguard_backend/platform/httpkit"
	"vanguard_backend/platform/logger"
	"vanguard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	client       *client.Client
	orchestrator *importer.Orchestrator
	enqueuer     scheduler.SyncEnqueuer
	statuses     *status.Store
	hub          *importer.Hub
	cfg          config.ImportConfig
	validate     *validator.Validator
	log          *logger.Logger

	selMu sync.RWMutex
	sel   *selection.State
}

func New(
	c *client.Client,
	orchestrator *importer.Orchestrator,
	enqueuer scheduler.SyncEnqueuer,
	statuses *status.Store,
	hub *importer.Hub,
	cfg config.ImportConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Handler {
	return &Handler{
		client:       c,
		orchestrator: orchestrator,
		enqueuer:     enqueuer,
		statuses:     statuses,
		hub:          hub,
		cfg:          cfg,
		validate:     val,
		log:          log,
	}
}

func (h *Handler) currentSelection() *selection.State {
	h.selMu.RLock()
	defer h.selMu.RUnlock()
	return h.sel
}

func (h *Handler) replaceSelection(leads []transport.RemoteLeadRecord) {
	h.selMu.Lock()
	defer h.selMu.Unlock()
	h.sel = selection.NewState(leads)
}

type catalogResponse struct {
	transport.CatalogResponse
	Lists []summarizer.ListGroup `json:"lists"`
}

// FetchData proxies the bridge catalog and attaches the grouped selection
// view, one entry per list in lexicographic list-id order.
func (h *Handler) FetchData(c *gin.Context) {
	countsOnly := c.Query("countsOnly") == "true"

	catalog, err := h.client.FetchCatalog(c.Request.Context(), countsOnly)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := catalogResponse{CatalogResponse: *catalog}
	if !countsOnly {
		resp.Lists = summarizer.SortListsLexicographic(catalog.AllListsSummary, catalog.SaleLeads)
		// Each full fetch starts a fresh all-unchecked selection.
		h.replaceSelection(catalog.SaleLeads)
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleSelection flips one lead's checked flag in the current batch.
func (h *Handler) ToggleSelection(c *gin.Context) {
	var req transport.ToggleSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}

	sel := h.currentSelection()
	if sel == nil {
		httpkit.HandleError(c, apperr.Validation("no lead batch fetched yet"))
		return
	}
	if err := sel.Toggle(*req.Index); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.SelectionResponse{
		Total:         sel.Size(),
		SelectedCount: sel.SelectedCount(),
	})
}

// SelectAll checks every lead in the current batch.
func (h *Handler) SelectAll(c *gin.Context) {
	sel := h.currentSelection()
	if sel == nil {
		httpkit.HandleError(c, apperr.Validation("no lead batch fetched yet"))
		return
	}
	sel.SelectAll()
	c.JSON(http.StatusOK, transport.SelectionResponse{
		Total:         sel.Size(),
		SelectedCount: sel.SelectedCount(),
	})
}

// DeselectAll unchecks every lead in the current batch.
func (h *Handler) DeselectAll(c *gin.Context) {
	sel := h.currentSelection()
	if sel == nil {
		httpkit.HandleError(c, apperr.Validation("no lead batch fetched yet"))
		return
	}
	sel.DeselectAll()
	c.JSON(http.StatusOK, transport.SelectionResponse{
		Total:         sel.Size(),
		SelectedCount: sel.SelectedCount(),
	})
}

// ImportSelected imports the server-side selection. The selection clears on
// success so a repeated click cannot double-import.
func (h *Handler) ImportSelected(c *gin.Context) {
	sel := h.currentSelection()
	if sel == nil {
		httpkit.HandleError(c, apperr.Validation("no lead batch fetched yet"))
		return
	}
	selected, err := sel.SelectedLeads()
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	summary, err := h.orchestrator.ImportLeads(c.Request.Context(), selected, importer.Options{
		Concurrency: h.cfg.GetImportConcurrency(),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	sel.DeselectAll()
	c.JSON(http.StatusOK, summary)
}

// Import runs an interactive import of the posted selection and returns the
// terminal summary.
func (h *Handler) Import(c *gin.Context) {
	var req transport.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}
	if len(req.SelectedLeads) == 0 {
		httpkit.HandleError(c, apperr.Validation("no leads selected for import"))
		return
	}
	if err := h.validate.Var(req.Concurrency, "gte=0,lte=3"); err != nil {
		httpkit.HandleError(c, apperr.Validation("concurrency must be between 0 and 3"))
		return
	}

	concurrency := req.Concurrency
	if concurrency == 0 {
		concurrency = h.cfg.GetImportConcurrency()
	}

	summary, err := h.orchestrator.ImportLeads(c.Request.Context(), req.SelectedLeads, importer.Options{
		Concurrency: concurrency,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SyncSales hands the selection off to the background worker and primes the
// polled status object.
func (h *Handler) SyncSales(c *gin.Context) {
	var req transport.SyncSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}
	if len(req.SelectedLeads) == 0 {
		httpkit.HandleError(c, apperr.Validation("no leads selected for import"))
		return
	}

	ctx := c.Request.Context()
	if err := h.statuses.Progress(ctx, 0, len(req.SelectedLeads), "queued"); err != nil {
		h.log.Warn("sync status write failed", "error", err)
	}

	err := h.enqueuer.EnqueueSyncSales(ctx, scheduler.SyncSalesPayload{
		SelectedLeads: req.SelectedLeads,
		Selective:     req.Selective,
		Concurrency:   h.cfg.GetImportConcurrency(),
	})
	if err != nil {
		if failErr := h.statuses.Fail(ctx, "failed to queue sync"); failErr != nil {
			h.log.Warn("sync status write failed", "error", failErr)
		}
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to queue sync", err))
		return
	}

	c.JSON(http.StatusAccepted, transport.SyncStatus{
		Status:     status.StatusRunning,
		Message:    fmt.Sprintf("sync of %d leads queued", len(req.SelectedLeads)),
		TotalLeads: len(req.SelectedLeads),
	})
}

// SyncStatus returns the current background sync status for polling clients.
func (h *Handler) SyncStatus(c *gin.Context) {
	current, err := h.statuses.Get(c.Request.Context())
	if errors.Is(err, status.ErrNoSync) {
		httpkit.HandleError(c, apperr.NotFound("no sync in progress"))
		return
	}
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to load sync status", err))
		return
	}
	c.JSON(http.StatusOK, current)
}

// ProgressStream pushes import progress over server-sent events, the
// preferred alternative to polling the status object.
func (h *Handler) ProgressStream(c *gin.Context) {
	updates, cancel := h.hub.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case update, ok := <-updates:
			if !ok {
				return false
			}
			data, err := json.Marshal(update)
			if err != nil {
				return false
			}
			c.SSEvent("progress", string(data))
			return !update.Done
		}
	})
}

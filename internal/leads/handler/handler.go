// Package handler exposes the leads API over HTTP.
package handler

import (
	"net/http"
	"time"

	"vanguard_backend/internal/leads/domain"
	"vanguard_backend/internal/leads/service"
	"vanguard_backend/internal/leads/transport"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/httpkit"
	"vanguard_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	log *logger.Logger
}

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// List returns the full lead collection.
func (h *Handler) List(c *gin.Context) {
	leads, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.LeadListResponse{Leads: leads, Count: len(leads)})
}

// Get returns one lead by id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid lead id"))
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.LeadResponse{Lead: *lead})
}

// PersistSnapshot replaces the stored collection with the posted one.
func (h *Handler) PersistSnapshot(c *gin.Context) {
	var req transport.PersistSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}

	snapshot := make([]domain.LocalLeadRecord, 0, len(req.Leads))
	for i := range req.Leads {
		record, err := payloadToRecord(&req.Leads[i])
		if err != nil {
			httpkit.HandleError(c, err)
			return
		}
		snapshot = append(snapshot, *record)
	}

	if err := h.svc.PersistSnapshot(c.Request.Context(), snapshot); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.PersistSnapshotResponse{Saved: len(snapshot)})
}

// Update edits a lead's CRM-owned fields.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid lead id"))
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}

	lead, err := h.svc.UpdateDetails(c.Request.Context(), id, req.AssignedRep, req.Notes)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.LeadResponse{Lead: *lead})
}

// ChangeStage moves a lead to a new pipeline stage.
func (h *Handler) ChangeStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid lead id"))
		return
	}

	var req transport.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}

	lead, err := h.svc.ChangeStage(c.Request.Context(), id, domain.PipelineStage(req.Stage))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.LeadResponse{Lead: *lead})
}

// LogReachOut records a contact attempt on a lead.
func (h *Handler) LogReachOut(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid lead id"))
		return
	}

	var req transport.LogReachOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
		return
	}

	lead, err := h.svc.LogReachOut(c.Request.Context(), id, domain.ReachOutKind(req.Kind))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, transport.LeadResponse{Lead: *lead})
}

func payloadToRecord(p *transport.LeadPayload) (*domain.LocalLeadRecord, error) {
	record := &domain.LocalLeadRecord{
		ExternalID:       p.ExternalID,
		Name:             p.Name,
		Phone:            p.Phone,
		Email:            p.Email,
		DOTNumber:        p.DOTNumber,
		ListID:           p.ListID,
		ListName:         p.ListName,
		SaleDate:         p.SaleDate,
		Agent:            p.Agent,
		EstimatedPremium: p.EstimatedPremium,
		FleetSize:        p.FleetSize,
		Notes:            p.Notes,
		Stage:            domain.StageNew,
		AssignedRep:      p.AssignedRep,
		ReachOutCalls:    p.ReachOutCalls,
		ReachOutEmails:   p.ReachOutEmails,
		ReachOutTexts:    p.ReachOutTexts,
		LastReachOutAt:   p.LastReachOutAt,
		StageChangedAt:   p.StageChangedAt,
		Transcript:       p.Transcript,
		TranscriptStatus: domain.TranscriptNone,
		FailureNote:      p.FailureNote,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}

	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, apperr.BadRequest("invalid lead id in payload")
		}
		record.ID = id
	} else {
		record.ID = uuid.New()
	}

	if p.Stage != "" {
		stage := domain.PipelineStage(p.Stage)
		if !domain.IsValidStage(stage) {
			return nil, apperr.Validation("unknown pipeline stage")
		}
		record.Stage = stage
	}

	if p.TranscriptStatus != "" {
		record.TranscriptStatus = domain.TranscriptStatus(p.TranscriptStatus)
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	return record, nil
}

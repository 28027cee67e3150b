package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/periodclose"
	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/interfaces/http/dto"
)

// ReportRenderer renders a finalized period close into a PDF document
type ReportRenderer interface {
	RenderCloseReport(ctx context.Context, close ledger.PeriodClose) ([]byte, error)
}

// PeriodCloseHandler serves the monthly close workflow
type PeriodCloseHandler struct {
	BaseHandler
	closes   *periodclose.Service
	renderer ReportRenderer
}

// NewPeriodCloseHandler creates a new period close handler. renderer may be
// nil when report rendering is not configured.
func NewPeriodCloseHandler(closes *periodclose.Service, renderer ReportRenderer) *PeriodCloseHandler {
	return &PeriodCloseHandler{closes: closes, renderer: renderer}
}

// PreviewRequest is the body for generating a close preview
// @name HandlerPreviewRequest
type PreviewRequest struct {
	PeriodDate string `json:"periodDate" binding:"required" example:"2026-07-31"`
}

// AcknowledgeRequest is the body for acknowledging a preview anomaly
// @name HandlerAcknowledgeRequest
type AcknowledgeRequest struct {
	PreviewID      string `json:"previewId" binding:"required"`
	AnomalyID      string `json:"anomalyId" binding:"required"`
	AcknowledgedBy string `json:"acknowledgedBy" binding:"required"`
}

// FinalizeRequest is the body for finalizing a previewed close
// @name HandlerFinalizeRequest
type FinalizeRequest struct {
	PreviewID   string `json:"previewId" binding:"required"`
	FinalizedBy string `json:"finalizedBy" binding:"required"`
}

// Preview godoc
// @ID           previewPeriodClose
// @Summary      Generate a period close preview
// @Tags         period-close
// @Accept       json
// @Produce      json
// @Param        request body PreviewRequest true "Preview parameters"
// @Success      200 {object} ledger.PeriodClosePreview
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /period-close/preview [post]
func (h *PeriodCloseHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "periodDate is required")
		return
	}

	preview, err := h.closes.Preview(c.Request.Context(), req.PeriodDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Acknowledge godoc
// @ID           acknowledgePeriodCloseAnomaly
// @Summary      Acknowledge a close preview anomaly
// @Tags         period-close
// @Accept       json
// @Produce      json
// @Param        request body AcknowledgeRequest true "Acknowledgement"
// @Success      200 {object} ledger.PeriodClosePreview
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /period-close/acknowledge-anomaly [post]
func (h *PeriodCloseHandler) Acknowledge(c *gin.Context) {
	var req AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "previewId, anomalyId and acknowledgedBy are required")
		return
	}

	preview, err := h.closes.Acknowledge(c.Request.Context(), req.PreviewID, req.AnomalyID, req.AcknowledgedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Finalize godoc
// @ID           finalizePeriodClose
// @Summary      Finalize a previewed period close
// @Description  Finalization is terminal per period; repeating it yields 409.
// @Tags         period-close
// @Accept       json
// @Produce      json
// @Param        request body FinalizeRequest true "Finalization"
// @Success      200 {object} ledger.PeriodClose
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /period-close/finalize [post]
func (h *PeriodCloseHandler) Finalize(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "previewId and finalizedBy are required")
		return
	}

	closed, err := h.closes.Finalize(c.Request.Context(), req.PreviewID, req.FinalizedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, closed)
}

// History godoc
// @ID           getPeriodCloseHistory
// @Summary      List finalized periods
// @Description  Yields an empty list, never an error status, while the ledger cannot serve history.
// @Tags         period-close
// @Produce      json
// @Param        limit query int false "Maximum periods" default(12)
// @Success      200 {object} ledger.ClosedPeriods
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /period-close/history [get]
func (h *PeriodCloseHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "limit must be an integer")
			return
		}
		limit = parsed
	}

	periods, err := h.closes.History(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periods)
}

// Get godoc
// @ID           getPeriodClose
// @Summary      Get a single finalized period
// @Tags         period-close
// @Produce      json
// @Param        periodDate path string true "Period date (YYYY-MM-DD)"
// @Success      200 {object} ledger.PeriodClose
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /period-close/{periodDate} [get]
func (h *PeriodCloseHandler) Get(c *gin.Context) {
	closed, err := h.closes.Get(c.Request.Context(), c.Param("periodDate"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, closed)
}

// Report godoc
// @ID           getPeriodCloseReport
// @Summary      Download the journal report for a finalized period
// @Tags         period-close
// @Produce      application/pdf
// @Param        periodDate path string true "Period date (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Failure      404 {object} dto.ErrorResponse
// @Failure      501 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /period-close/{periodDate}/report [get]
func (h *PeriodCloseHandler) Report(c *gin.Context) {
	if h.renderer == nil {
		c.JSON(http.StatusNotImplemented, dto.NewErrorResponse("report rendering is not configured"))
		return
	}

	closed, err := h.closes.Get(c.Request.Context(), c.Param("periodDate"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	pdf, err := h.renderer.RenderCloseReport(c.Request.Context(), closed)
	if err != nil {
		h.InternalError(c, err.Error())
		return
	}

	filename := fmt.Sprintf("period-close-%s.pdf", closed.PeriodDate)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

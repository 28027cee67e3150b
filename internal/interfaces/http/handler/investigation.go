package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/investigation"
	"github.com/billie-crm/backend/internal/domain/ledger"
)

// InvestigationHandler serves account search, sampling, and provenance traces
type InvestigationHandler struct {
	BaseHandler
	investigations *investigation.Service
}

// NewInvestigationHandler creates a new investigation handler
func NewInvestigationHandler(investigations *investigation.Service) *InvestigationHandler {
	return &InvestigationHandler{investigations: investigations}
}

// SampleRequest is the body for a randomized sample draw
// @name HandlerSampleRequest
type SampleRequest struct {
	Size    int               `json:"size" binding:"required" example:"50"`
	Seed    string            `json:"seed,omitempty" example:"audit-2026-08"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Search godoc
// @ID           searchInvestigationAccounts
// @Summary      Search loan accounts
// @Description  Free-text account search. Degrades to an empty result with _fallback true while the ledger is unreachable.
// @Tags         investigation
// @Produce      json
// @Param        q query string true "Search query"
// @Param        limit query int false "Maximum results" default(20)
// @Success      200 {object} ledger.SearchResult
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /investigation/search [get]
func (h *InvestigationHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "limit must be an integer")
			return
		}
		limit = parsed
	}

	result, err := h.investigations.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Sample godoc
// @ID           generateInvestigationSample
// @Summary      Draw a randomized account sample
// @Description  Seedable and filterable; an omitted seed is generated so the draw stays reproducible.
// @Tags         investigation
// @Accept       json
// @Produce      json
// @Param        request body SampleRequest true "Sample parameters"
// @Success      200 {object} ledger.SampleBatch
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /investigation/sample [post]
func (h *InvestigationHandler) Sample(c *gin.Context) {
	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "size is required")
		return
	}

	batch, err := h.investigations.Sample(c.Request.Context(), ledger.SampleRequest{
		Size:    req.Size,
		Seed:    req.Seed,
		Filters: req.Filters,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// TraceECL godoc
// @ID           traceInvestigationECL
// @Summary      Trace an ECL figure back to source events
// @Tags         investigation
// @Produce      json
// @Param        accountId path string true "Loan account ID"
// @Success      200 {object} ledger.CalculationTrace
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /investigation/trace/ecl/{accountId} [get]
func (h *InvestigationHandler) TraceECL(c *gin.Context) {
	trace, err := h.investigations.TraceECL(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trace)
}

// TraceAccrual godoc
// @ID           traceInvestigationAccrual
// @Summary      Trace an accrued-yield figure back to source events
// @Tags         investigation
// @Produce      json
// @Param        accountId path string true "Loan account ID"
// @Success      200 {object} ledger.CalculationTrace
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /investigation/trace/accrual/{accountId} [get]
func (h *InvestigationHandler) TraceAccrual(c *gin.Context) {
	trace, err := h.investigations.TraceAccrual(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trace)
}

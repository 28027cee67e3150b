package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/ledgerquery"
)

// LedgerHandler serves per-account and portfolio ledger projections
type LedgerHandler struct {
	BaseHandler
	queries *ledgerquery.Service
}

// NewLedgerHandler creates a new ledger projection handler
func NewLedgerHandler(queries *ledgerquery.Service) *LedgerHandler {
	return &LedgerHandler{queries: queries}
}

// GetAccrual godoc
// @ID           getLedgerAccrual
// @Summary      Get accrued yield for a loan account
// @Description  Returns the accrual projection. Accounts without a computed projection yield a zero-valued body with _notFound true.
// @Tags         ledger
// @Produce      json
// @Param        accountId path string true "Loan account ID"
// @Success      200 {object} ledger.AccrualState
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/accrual/{accountId} [get]
func (h *LedgerHandler) GetAccrual(c *gin.Context) {
	state, err := h.queries.GetAccrual(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, state)
}

// GetECL godoc
// @ID           getLedgerECL
// @Summary      Get ECL allowance for a loan account
// @Tags         ledger
// @Produce      json
// @Param        accountId path string true "Loan account ID"
// @Success      200 {object} ledger.ECLAllowance
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/ecl/{accountId} [get]
func (h *LedgerHandler) GetECL(c *gin.Context) {
	allowance, err := h.queries.GetECL(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, allowance)
}

// GetPortfolioECL godoc
// @ID           getLedgerPortfolioECL
// @Summary      Get portfolio-wide ECL summary
// @Description  Degrades to a zeroed summary with _fallback true while the ledger is unreachable.
// @Tags         ledger
// @Produce      json
// @Success      200 {object} ledger.PortfolioECLSummary
// @Security     BearerAuth
// @Router       /ledger/ecl/portfolio [get]
func (h *LedgerHandler) GetPortfolioECL(c *gin.Context) {
	summary, err := h.queries.GetPortfolioECL(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// GetSchedule godoc
// @ID           getLedgerSchedule
// @Summary      Get repayment schedule with instalment status
// @Description  Staleness is unacceptable here, so ledger unavailability surfaces as 503.
// @Tags         ledger
// @Produce      json
// @Param        accountId path string true "Loan account ID"
// @Success      200 {object} ledger.ScheduleWithStatus
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/schedule/{accountId} [get]
func (h *LedgerHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.queries.GetSchedule(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schedule)
}

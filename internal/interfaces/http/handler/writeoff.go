package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/writeoff"
)

// WriteOffHandler serves the asynchronous write-off cancel command flow
type WriteOffHandler struct {
	BaseHandler
	writeoffs *writeoff.Service
}

// NewWriteOffHandler creates a new write-off handler
func NewWriteOffHandler(writeoffs *writeoff.Service) *WriteOffHandler {
	return &WriteOffHandler{writeoffs: writeoffs}
}

// CancelRequest is the body for cancelling a pending write-off
// @name HandlerWriteOffCancelRequest
type CancelRequest struct {
	RequestID      string `json:"requestId" binding:"required"`
	LoanAccountID  string `json:"loanAccountId" binding:"required"`
	Reason         string `json:"reason,omitempty"`
	RequestedBy    string `json:"requestedBy" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
}

// Cancel godoc
// @ID           cancelWriteOff
// @Summary      Request cancellation of a pending write-off
// @Description  Publishes a command to the event pipeline. Returns 202 with a commandId; clients poll the request projection for the effect.
// @Tags         write-off
// @Accept       json
// @Produce      json
// @Param        request body CancelRequest true "Cancel command"
// @Success      202 {object} dto.AcceptedResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /write-off/cancel [post]
func (h *WriteOffHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "requestId, loanAccountId, requestedBy and idempotencyKey are required")
		return
	}

	accepted, err := h.writeoffs.Cancel(c.Request.Context(), writeoff.CancelCommand{
		RequestID:      req.RequestID,
		LoanAccountID:  req.LoanAccountID,
		Reason:         req.Reason,
		RequestedBy:    req.RequestedBy,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, accepted.CommandID, accepted.RequestID)
}

// RequestStatus godoc
// @ID           getWriteOffRequestStatus
// @Summary      Get the projected state of a write-off request
// @Tags         write-off
// @Produce      json
// @Param        requestId path string true "Write-off request ID"
// @Success      200 {object} ledger.WriteOffRequestStatus
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /write-off/requests/{requestId} [get]
func (h *WriteOffHandler) RequestStatus(c *gin.Context) {
	status, err := h.writeoffs.Status(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

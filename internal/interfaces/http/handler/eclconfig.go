package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/eclconfig"
)

// ECLConfigHandler serves scheduled ECL configuration changes
type ECLConfigHandler struct {
	BaseHandler
	configs *eclconfig.Service
}

// NewECLConfigHandler creates a new ECL config handler
func NewECLConfigHandler(configs *eclconfig.Service) *ECLConfigHandler {
	return &ECLConfigHandler{configs: configs}
}

// GetPending godoc
// @ID           getPendingECLConfigChange
// @Summary      Get a pending ECL configuration change
// @Tags         ecl-config
// @Produce      json
// @Param        changeId path string true "Change ID"
// @Success      200 {object} ledger.PendingConfigChange
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /ecl-config/pending/{changeId} [get]
func (h *ECLConfigHandler) GetPending(c *gin.Context) {
	change, err := h.configs.Get(c.Request.Context(), c.Param("changeId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, change)
}

// CancelPending godoc
// @ID           cancelPendingECLConfigChange
// @Summary      Cancel a pending ECL configuration change
// @Description  Only possible before the change's effective date; afterwards yields 422.
// @Tags         ecl-config
// @Produce      json
// @Param        changeId path string true "Change ID"
// @Param        cancelledBy query string true "Cancelling user"
// @Success      200 {object} ledger.PendingConfigChange
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /ecl-config/pending/{changeId} [delete]
func (h *ECLConfigHandler) CancelPending(c *gin.Context) {
	change, err := h.configs.Cancel(c.Request.Context(), c.Param("changeId"), c.Query("cancelledBy"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, change)
}

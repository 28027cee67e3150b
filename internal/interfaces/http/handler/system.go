package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/system"
)

// SystemHandler serves operational status endpoints
type SystemHandler struct {
	BaseHandler
	statuses  *system.Service
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(statuses *system.Service) *SystemHandler {
	return &SystemHandler{
		statuses:  statuses,
		startTime: time.Now(),
	}
}

// Status godoc
// @ID           getSystemStatus
// @Summary      Get event-processing health
// @Description  An unreachable ledger yields 200 with a degraded payload and warning, not an error.
// @Tags         system
// @Produce      json
// @Success      200 {object} ledger.EventProcessingStatus
// @Security     BearerAuth
// @Router       /system/status [get]
func (h *SystemHandler) Status(c *gin.Context) {
	status, err := h.statuses.EventStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Healthz reports process liveness
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz reports readiness to serve traffic
func (h *SystemHandler) Readyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/application/exportjob"
)

// ExportHandler serves the asynchronous export job lifecycle
type ExportHandler struct {
	BaseHandler
	exports *exportjob.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *exportjob.Service) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Status godoc
// @ID           getExportJobStatus
// @Summary      Get export job status
// @Tags         export
// @Produce      json
// @Param        jobId path string true "Export job ID"
// @Success      200 {object} ledger.ExportJob
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /export/jobs/{jobId} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.exports.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// Retry godoc
// @ID           retryExportJob
// @Summary      Retry a failed export job
// @Description  The backend assigns a fresh attempt under the same job ID.
// @Tags         export
// @Produce      json
// @Param        jobId path string true "Export job ID"
// @Success      200 {object} ledger.ExportJob
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /export/jobs/{jobId}/retry [post]
func (h *ExportHandler) Retry(c *gin.Context) {
	job, err := h.exports.Retry(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// Result godoc
// @ID           getExportJobResult
// @Summary      Download the result of a completed export job
// @Description  Serves the payload inline, or a redirect body with artifactUrl when archived to object storage.
// @Tags         export
// @Produce      json
// @Param        jobId path string true "Export job ID"
// @Success      200 {object} ledger.ExportResult
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /export/jobs/{jobId}/result [get]
func (h *ExportHandler) Result(c *gin.Context) {
	result, err := h.exports.Result(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.ArtifactURL == "" && len(result.Data) > 0 && result.ContentType != "" {
		c.Header("Content-Disposition", "attachment; filename="+result.Filename)
		c.Data(http.StatusOK, result.ContentType, result.Data)
		return
	}
	h.Success(c, result)
}

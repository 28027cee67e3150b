package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
	"github.com/billie-crm/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities. Every handler converts its
// own failures at the boundary; nothing propagates to gin's default handler.
type BaseHandler struct{}

// Success sends the payload through as the JSON body with status 200
func (h *BaseHandler) Success(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Accepted sends a 202 acknowledgement for an asynchronously applied command
func (h *BaseHandler) Accepted(c *gin.Context, commandID, requestID string) {
	c.JSON(http.StatusAccepted, dto.AcceptedResponse{
		CommandID: commandID,
		RequestID: requestID,
		Status:    "submitted",
	})
}

// BadRequest sends a 400 with an error body, used for failures detected
// before any backend call.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message))
}

// NotFound sends a 404 error body
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(message))
}

// Unavailable sends a 503 flagged as a fallback, for endpoints where
// proceeding on stale or missing data is unacceptable.
func (h *BaseHandler) Unavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, dto.NewFallbackErrorResponse(message))
}

// InternalError sends a 500 with diagnostic detail
func (h *BaseHandler) InternalError(c *gin.Context, details string) {
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithDetails("An unexpected error occurred", details))
}

// HandleError converts application and ledger errors into the HTTP error
// taxonomy: 400 invalid input, 404 identity miss, 409/422 state conflicts,
// 503 unavailability, 500 everything else.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status == http.StatusServiceUnavailable {
			c.JSON(status, dto.NewFallbackErrorResponse(domainErr.Message))
			return
		}
		c.JSON(status, dto.NewErrorResponse(domainErr.Message))
		return
	}

	var ledgerErr *ledger.Error
	if errors.As(err, &ledgerErr) {
		switch ledgerErr.Kind {
		case ledger.KindNotFound:
			h.NotFound(c, ledgerErr.Message)
		case ledger.KindInvalidArgument:
			h.BadRequest(c, ledgerErr.Message)
		case ledger.KindFailedPrecondition:
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(ledgerErr.Message))
		case ledger.KindUnavailable:
			h.Unavailable(c, "accounting ledger service is unavailable")
		case ledger.KindUnimplemented:
			c.JSON(http.StatusNotImplemented, dto.NewErrorResponse(ledgerErr.Message))
		default:
			h.InternalError(c, ledgerErr.Message)
		}
		return
	}

	h.InternalError(c, err.Error())
}

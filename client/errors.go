package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorCategory is the closed set of failure classes surfaced to callers.
// Every error leaving this package maps to exactly one category.
type ErrorCategory string

const (
	ErrorPermission  ErrorCategory = "permission"
	ErrorConflict    ErrorCategory = "conflict"
	ErrorUnavailable ErrorCategory = "unavailable"
	ErrorValidation  ErrorCategory = "validation"
	ErrorNotFound    ErrorCategory = "not_found"
	ErrorSelfAction  ErrorCategory = "self_action"
	ErrorNetwork     ErrorCategory = "network"
	ErrorTimeout     ErrorCategory = "timeout"
	ErrorUnknown     ErrorCategory = "unknown"
)

// ErrorMessages maps each category to the text shown to an agent. Callers
// render from this table rather than raw error strings so wording stays
// consistent across screens.
var ErrorMessages = map[ErrorCategory]string{
	ErrorPermission:  "You do not have permission to perform this action.",
	ErrorConflict:    "This record changed since you loaded it. Refresh and try again.",
	ErrorUnavailable: "The accounting ledger is temporarily unavailable. Showing last known data where possible.",
	ErrorValidation:  "The request was rejected. Check the entered values and try again.",
	ErrorNotFound:    "The requested record could not be found.",
	ErrorSelfAction:  "You cannot act on your own request.",
	ErrorNetwork:     "Could not reach the server. Check your connection and try again.",
	ErrorTimeout:     "The operation did not confirm in time. It may still complete; check its status before retrying.",
	ErrorUnknown:     "Something went wrong. Try again, and contact support if it persists.",
}

// APIError is a non-2xx gateway response
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// ClassifyError maps an error from any client operation onto the closed
// category set. The gateway's own error message is classified, never shown;
// details ride along on the APIError for callers that need them.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorUnknown
	}

	if errors.Is(err, ErrConfirmTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	if errors.Is(err, ErrSelfAction) {
		return ErrorSelfAction
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			if strings.Contains(strings.ToLower(apiErr.Message), "own request") {
				return ErrorSelfAction
			}
			return ErrorPermission
		case http.StatusConflict:
			return ErrorConflict
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return ErrorValidation
		case http.StatusNotFound:
			return ErrorNotFound
		case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
			return ErrorUnavailable
		default:
			return ErrorUnknown
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorTimeout
		}
		return ErrorNetwork
	}

	return ErrorUnknown
}

// UserMessage returns the display text for an error
func UserMessage(err error) string {
	return ErrorMessages[ClassifyError(err)]
}

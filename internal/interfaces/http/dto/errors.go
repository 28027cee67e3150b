package dto

import "net/http"

// Domain error codes surfaced by the application layer.
// These match shared.DomainError codes one to one.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidState       = "INVALID_STATE"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeLedgerUnavailable  = "LEDGER_UNAVAILABLE"
	CodePeriodFinalized    = "PERIOD_FINALIZED"
	CodePreviewRequired    = "PREVIEW_REQUIRED"
	CodeCommandNotAccepted = "COMMAND_NOT_ACCEPTED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	CodeNotFound:           http.StatusNotFound,
	CodeInvalidInput:       http.StatusBadRequest,
	CodeInvalidState:       http.StatusUnprocessableEntity,
	CodeConflict:           http.StatusConflict,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeLedgerUnavailable:  http.StatusServiceUnavailable,
	CodePeriodFinalized:    http.StatusConflict,
	CodePreviewRequired:    http.StatusUnprocessableEntity,
	CodeCommandNotAccepted: http.StatusServiceUnavailable,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeInternal:           http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes default to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

package dto

// ErrorResponse is the uniform error body. Successful responses carry the
// domain payload directly; only failures are wrapped.
type ErrorResponse struct {
	Error    string `json:"error"`
	Details  string `json:"details,omitempty"`
	Fallback bool   `json:"_fallback,omitempty"`
}

// NewErrorResponse creates an error body
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewErrorResponseWithDetails creates an error body with diagnostic detail
func NewErrorResponseWithDetails(message, details string) ErrorResponse {
	return ErrorResponse{Error: message, Details: details}
}

// NewFallbackErrorResponse creates an error body flagged as a degraded
// response, used for 503s where staleness is unacceptable.
func NewFallbackErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message, Fallback: true}
}

// AcceptedResponse acknowledges an asynchronously processed command
type AcceptedResponse struct {
	CommandID string `json:"commandId"`
	RequestID string `json:"requestId,omitempty"`
	Status    string `json:"status"`
}

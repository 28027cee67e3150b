package ledgerrpc

import (
	"context"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

// Request payloads, one per RPC method. Field names follow the ledger
// service's wire contract.

type accountRequest struct {
	LoanAccountID string `json:"loanAccountId"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type previewRequest struct {
	PeriodDate string `json:"periodDate"`
}

type acknowledgeRequest struct {
	PreviewID      string `json:"previewId"`
	AnomalyID      string `json:"anomalyId"`
	AcknowledgedBy string `json:"acknowledgedBy"`
}

type finalizeRequest struct {
	PreviewID   string `json:"previewId"`
	FinalizedBy string `json:"finalizedBy"`
}

type closedPeriodsRequest struct {
	Limit int `json:"limit"`
}

type periodRequest struct {
	PeriodDate string `json:"periodDate"`
}

type configChangeRequest struct {
	ChangeID    string `json:"changeId"`
	CancelledBy string `json:"cancelledBy,omitempty"`
}

type exportJobRequest struct {
	JobID string `json:"jobId"`
}

type writeOffRequest struct {
	RequestID string `json:"requestId"`
}

// GetAccruedYield fetches the accrued yield projection for a loan account
func (c *Client) GetAccruedYield(ctx context.Context, loanAccountID string) (ledger.AccrualState, error) {
	var out ledger.AccrualState
	err := c.call(ctx, "getAccruedYield", accountRequest{LoanAccountID: loanAccountID}, &out)
	return out, err
}

// GetECLAllowance fetches the ECL allowance projection for a loan account
func (c *Client) GetECLAllowance(ctx context.Context, loanAccountID string) (ledger.ECLAllowance, error) {
	var out ledger.ECLAllowance
	err := c.call(ctx, "getECLAllowance", accountRequest{LoanAccountID: loanAccountID}, &out)
	return out, err
}

// GetPortfolioECL fetches the portfolio-wide ECL summary
func (c *Client) GetPortfolioECL(ctx context.Context) (ledger.PortfolioECLSummary, error) {
	var out ledger.PortfolioECLSummary
	err := c.call(ctx, "getPortfolioECL", struct{}{}, &out)
	return out, err
}

// GetScheduleWithStatus fetches the repayment schedule with instalment status
func (c *Client) GetScheduleWithStatus(ctx context.Context, loanAccountID string) (ledger.ScheduleWithStatus, error) {
	var out ledger.ScheduleWithStatus
	err := c.call(ctx, "getScheduleWithStatus", accountRequest{LoanAccountID: loanAccountID}, &out)
	return out, err
}

// SearchAccounts searches loan accounts by free text
func (c *Client) SearchAccounts(ctx context.Context, query string, limit int) (ledger.SearchResult, error) {
	var out ledger.SearchResult
	err := c.call(ctx, "searchAccounts", searchRequest{Query: query, Limit: limit}, &out)
	return out, err
}

// GenerateRandomSample draws a reproducible random account sample
func (c *Client) GenerateRandomSample(ctx context.Context, req ledger.SampleRequest) (ledger.SampleBatch, error) {
	var out ledger.SampleBatch
	err := c.call(ctx, "generateRandomSample", req, &out)
	return out, err
}

// TraceECLToSource fetches ECL calculation provenance
func (c *Client) TraceECLToSource(ctx context.Context, loanAccountID string) (ledger.CalculationTrace, error) {
	var out ledger.CalculationTrace
	err := c.call(ctx, "traceECLToSource", accountRequest{LoanAccountID: loanAccountID}, &out)
	return out, err
}

// TraceAccruedYieldToSource fetches accrual calculation provenance
func (c *Client) TraceAccruedYieldToSource(ctx context.Context, loanAccountID string) (ledger.CalculationTrace, error) {
	var out ledger.CalculationTrace
	err := c.call(ctx, "traceAccruedYieldToSource", accountRequest{LoanAccountID: loanAccountID}, &out)
	return out, err
}

// PreviewPeriodClose generates a close preview for a period
func (c *Client) PreviewPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClosePreview, error) {
	var out ledger.PeriodClosePreview
	err := c.call(ctx, "previewPeriodClose", previewRequest{PeriodDate: periodDate}, &out)
	return out, err
}

// AcknowledgeAnomaly acknowledges a preview anomaly
func (c *Client) AcknowledgeAnomaly(ctx context.Context, previewID, anomalyID, acknowledgedBy string) (ledger.PeriodClosePreview, error) {
	var out ledger.PeriodClosePreview
	err := c.call(ctx, "acknowledgeAnomaly", acknowledgeRequest{
		PreviewID:      previewID,
		AnomalyID:      anomalyID,
		AcknowledgedBy: acknowledgedBy,
	}, &out)
	return out, err
}

// FinalizePeriodClose finalizes a previewed period close
func (c *Client) FinalizePeriodClose(ctx context.Context, previewID, finalizedBy string) (ledger.PeriodClose, error) {
	var out ledger.PeriodClose
	err := c.call(ctx, "finalizePeriodClose", finalizeRequest{
		PreviewID:   previewID,
		FinalizedBy: finalizedBy,
	}, &out)
	return out, err
}

// GetClosedPeriods lists historical finalized periods
func (c *Client) GetClosedPeriods(ctx context.Context, limit int) (ledger.ClosedPeriods, error) {
	var out ledger.ClosedPeriods
	err := c.call(ctx, "getClosedPeriods", closedPeriodsRequest{Limit: limit}, &out)
	return out, err
}

// GetPeriodClose fetches a single finalized period
func (c *Client) GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, error) {
	var out ledger.PeriodClose
	err := c.call(ctx, "getPeriodClose", periodRequest{PeriodDate: periodDate}, &out)
	return out, err
}

// GetPendingConfigChange fetches a scheduled ECL config change
func (c *Client) GetPendingConfigChange(ctx context.Context, changeID string) (ledger.PendingConfigChange, error) {
	var out ledger.PendingConfigChange
	err := c.call(ctx, "getPendingConfigChange", configChangeRequest{ChangeID: changeID}, &out)
	return out, err
}

// CancelPendingConfigChange cancels a scheduled ECL config change
func (c *Client) CancelPendingConfigChange(ctx context.Context, changeID, cancelledBy string) (ledger.PendingConfigChange, error) {
	var out ledger.PendingConfigChange
	err := c.call(ctx, "cancelPendingConfigChange", configChangeRequest{
		ChangeID:    changeID,
		CancelledBy: cancelledBy,
	}, &out)
	return out, err
}

// GetExportStatus fetches the state of an export job
func (c *Client) GetExportStatus(ctx context.Context, jobID string) (ledger.ExportJob, error) {
	var out ledger.ExportJob
	err := c.call(ctx, "getExportStatus", exportJobRequest{JobID: jobID}, &out)
	return out, err
}

// RetryExport retries a failed export job under the same job ID
func (c *Client) RetryExport(ctx context.Context, jobID string) (ledger.ExportJob, error) {
	var out ledger.ExportJob
	err := c.call(ctx, "retryExport", exportJobRequest{JobID: jobID}, &out)
	return out, err
}

// GetExportResult fetches the payload of a completed export job
func (c *Client) GetExportResult(ctx context.Context, jobID string) (ledger.ExportResult, error) {
	var out ledger.ExportResult
	err := c.call(ctx, "getExportResult", exportJobRequest{JobID: jobID}, &out)
	return out, err
}

// GetEventProcessingStatus fetches the ledger's event pipeline health
func (c *Client) GetEventProcessingStatus(ctx context.Context) (ledger.EventProcessingStatus, error) {
	var out ledger.EventProcessingStatus
	err := c.call(ctx, "getEventProcessingStatus", struct{}{}, &out)
	return out, err
}

// GetWriteOffRequest fetches the projected state of a write-off request
func (c *Client) GetWriteOffRequest(ctx context.Context, requestID string) (ledger.WriteOffRequestStatus, error) {
	var out ledger.WriteOffRequestStatus
	err := c.call(ctx, "getWriteOffRequest", writeOffRequest{RequestID: requestID}, &out)
	return out, err
}

type cancelWriteOffRequest struct {
	RequestID      string `json:"requestId"`
	Reason         string `json:"reason,omitempty"`
	CancelledBy    string `json:"cancelledBy"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// CancelWriteOffRequest asks the ledger to cancel a pending write-off request
func (c *Client) CancelWriteOffRequest(ctx context.Context, requestID, reason, cancelledBy, idempotencyKey string) (ledger.WriteOffRequestStatus, error) {
	var out ledger.WriteOffRequestStatus
	err := c.call(ctx, "cancelWriteOffRequest", cancelWriteOffRequest{
		RequestID:      requestID,
		Reason:         reason,
		CancelledBy:    cancelledBy,
		IdempotencyKey: idempotencyKey,
	}, &out)
	return out, err
}

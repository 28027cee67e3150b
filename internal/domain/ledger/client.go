package ledger

import "context"

// Client is the RPC surface of the external AccountingLedgerService.
// Every method either returns a response or a *Error whose Kind is one of
// the closed ErrorKind values; callers branch on kind, never on message.
type Client interface {
	// Read-side projections
	GetAccruedYield(ctx context.Context, loanAccountID string) (AccrualState, error)
	GetECLAllowance(ctx context.Context, loanAccountID string) (ECLAllowance, error)
	GetPortfolioECL(ctx context.Context) (PortfolioECLSummary, error)
	GetScheduleWithStatus(ctx context.Context, loanAccountID string) (ScheduleWithStatus, error)

	// Investigation
	SearchAccounts(ctx context.Context, query string, limit int) (SearchResult, error)
	GenerateRandomSample(ctx context.Context, req SampleRequest) (SampleBatch, error)
	TraceECLToSource(ctx context.Context, loanAccountID string) (CalculationTrace, error)
	TraceAccruedYieldToSource(ctx context.Context, loanAccountID string) (CalculationTrace, error)

	// Period close
	PreviewPeriodClose(ctx context.Context, periodDate string) (PeriodClosePreview, error)
	AcknowledgeAnomaly(ctx context.Context, previewID, anomalyID, acknowledgedBy string) (PeriodClosePreview, error)
	FinalizePeriodClose(ctx context.Context, previewID, finalizedBy string) (PeriodClose, error)
	GetClosedPeriods(ctx context.Context, limit int) (ClosedPeriods, error)
	GetPeriodClose(ctx context.Context, periodDate string) (PeriodClose, error)

	// ECL configuration
	GetPendingConfigChange(ctx context.Context, changeID string) (PendingConfigChange, error)
	CancelPendingConfigChange(ctx context.Context, changeID, cancelledBy string) (PendingConfigChange, error)

	// Export jobs
	GetExportStatus(ctx context.Context, jobID string) (ExportJob, error)
	RetryExport(ctx context.Context, jobID string) (ExportJob, error)
	GetExportResult(ctx context.Context, jobID string) (ExportResult, error)

	// System
	GetEventProcessingStatus(ctx context.Context) (EventProcessingStatus, error)
	GetWriteOffRequest(ctx context.Context, requestID string) (WriteOffRequestStatus, error)
}

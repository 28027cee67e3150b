package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccrualState is the accrued-yield projection for a single loan account.
// The ledger may legitimately not have computed it yet; that case is carried
// as a zero-valued state with NotFound set, never as an error.
type AccrualState struct {
	LoanAccountID   string          `json:"loanAccountId"`
	AccruedYield    decimal.Decimal `json:"accruedYield"`
	DailyAccrual    decimal.Decimal `json:"dailyAccrual"`
	EffectiveRate   decimal.Decimal `json:"effectiveRate"`
	LastAccruedDate string          `json:"lastAccruedDate,omitempty"`
	AsOf            time.Time       `json:"asOf,omitempty"`
	NotFound        bool            `json:"_notFound,omitempty"`
}

// ZeroAccrualState returns the placeholder served when the ledger has no
// accrual projection for the account yet.
func ZeroAccrualState(loanAccountID string) AccrualState {
	return AccrualState{
		LoanAccountID: loanAccountID,
		AccruedYield:  decimal.Zero,
		DailyAccrual:  decimal.Zero,
		EffectiveRate: decimal.Zero,
		NotFound:      true,
	}
}

// ECLStage identifies the IFRS 9 staging bucket of an account
type ECLStage int

const (
	ECLStagePerforming      ECLStage = 1
	ECLStageUnderperforming ECLStage = 2
	ECLStageImpaired        ECLStage = 3
)

// ECLAllowance is the expected-credit-loss projection for a single account
type ECLAllowance struct {
	LoanAccountID    string          `json:"loanAccountId"`
	Stage            ECLStage        `json:"stage,omitempty"`
	Allowance        decimal.Decimal `json:"allowance"`
	GrossExposure    decimal.Decimal `json:"grossExposure"`
	ProbabilityOfDefault decimal.Decimal `json:"probabilityOfDefault"`
	LossGivenDefault decimal.Decimal `json:"lossGivenDefault"`
	OverlayMultiplier decimal.Decimal `json:"overlayMultiplier"`
	CalculatedAt     time.Time       `json:"calculatedAt,omitempty"`
	NotFound         bool            `json:"_notFound,omitempty"`
}

// ZeroECLAllowance returns the placeholder served when ECL has not been
// computed for the account yet.
func ZeroECLAllowance(loanAccountID string) ECLAllowance {
	return ECLAllowance{
		LoanAccountID:        loanAccountID,
		Allowance:            decimal.Zero,
		GrossExposure:        decimal.Zero,
		ProbabilityOfDefault: decimal.Zero,
		LossGivenDefault:     decimal.Zero,
		OverlayMultiplier:    decimal.Zero,
		NotFound:             true,
	}
}

// PortfolioECLSummary aggregates ECL across the whole loan book
type PortfolioECLSummary struct {
	TotalAllowance decimal.Decimal `json:"totalAllowance"`
	TotalExposure  decimal.Decimal `json:"totalExposure"`
	CoverageRatio  decimal.Decimal `json:"coverageRatio"`
	AccountCount   int             `json:"accountCount"`
	StageBreakdown map[string]decimal.Decimal `json:"stageBreakdown,omitempty"`
	AsOf           time.Time       `json:"asOf,omitempty"`
	Fallback       bool            `json:"_fallback,omitempty"`
}

// ZeroPortfolioECLSummary is the degraded payload served while the ledger is
// unreachable.
func ZeroPortfolioECLSummary() PortfolioECLSummary {
	return PortfolioECLSummary{
		TotalAllowance: decimal.Zero,
		TotalExposure:  decimal.Zero,
		CoverageRatio:  decimal.Zero,
		Fallback:       true,
	}
}

// InstalmentStatus is the state of a single schedule instalment
type InstalmentStatus string

const (
	InstalmentStatusUpcoming InstalmentStatus = "UPCOMING"
	InstalmentStatusDue      InstalmentStatus = "DUE"
	InstalmentStatusPaid     InstalmentStatus = "PAID"
	InstalmentStatusPartial  InstalmentStatus = "PARTIALLY_PAID"
	InstalmentStatusOverdue  InstalmentStatus = "OVERDUE"
	InstalmentStatusWrittenOff InstalmentStatus = "WRITTEN_OFF"
)

// Instalment is a single row of a repayment schedule
type Instalment struct {
	Sequence    int              `json:"sequence"`
	DueDate     string           `json:"dueDate"`
	Principal   decimal.Decimal  `json:"principal"`
	Interest    decimal.Decimal  `json:"interest"`
	Fees        decimal.Decimal  `json:"fees"`
	TotalDue    decimal.Decimal  `json:"totalDue"`
	PaidAmount  decimal.Decimal  `json:"paidAmount"`
	Status      InstalmentStatus `json:"status"`
	SettledDate string           `json:"settledDate,omitempty"`
}

// ScheduleWithStatus is the full repayment schedule with per-instalment status
type ScheduleWithStatus struct {
	LoanAccountID string       `json:"loanAccountId"`
	Currency      string       `json:"currency"`
	Instalments   []Instalment `json:"instalments"`
	NextDueDate   string       `json:"nextDueDate,omitempty"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}

// AccountSummary is a search hit for a loan account
type AccountSummary struct {
	LoanAccountID  string          `json:"loanAccountId"`
	CustomerName   string          `json:"customerName"`
	ProductCode    string          `json:"productCode"`
	Status         string          `json:"status"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	OpenedDate     string          `json:"openedDate,omitempty"`
}

// SearchResult is the result set of an account search
type SearchResult struct {
	Results    []AccountSummary `json:"results"`
	TotalCount int              `json:"totalCount"`
	Fallback   bool             `json:"_fallback,omitempty"`
}

// EmptySearchResult is the degraded payload served while the ledger is
// unreachable; search degrades to no hits rather than an error.
func EmptySearchResult() SearchResult {
	return SearchResult{
		Results:    []AccountSummary{},
		TotalCount: 0,
		Fallback:   true,
	}
}

// SampleRequest describes a randomized account sample draw
type SampleRequest struct {
	Size    int               `json:"size"`
	Seed    string            `json:"seed,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// SampleBatch is a reproducible randomized sample of accounts
type SampleBatch struct {
	Seed     string           `json:"seed"`
	Size     int              `json:"size"`
	Accounts []AccountSummary `json:"accounts"`
	DrawnAt  time.Time        `json:"drawnAt"`
}

// TraceStep is a single step of a calculation provenance chain
type TraceStep struct {
	Order       int             `json:"order"`
	Description string          `json:"description"`
	Input       decimal.Decimal `json:"input"`
	Output      decimal.Decimal `json:"output"`
	SourceEvent string          `json:"sourceEvent,omitempty"`
}

// CalculationTrace explains how a projected figure was derived, back to the
// source events in the ledger's event log.
type CalculationTrace struct {
	LoanAccountID string      `json:"loanAccountId"`
	Calculation   string      `json:"calculation"`
	Result        decimal.Decimal `json:"result"`
	Steps         []TraceStep `json:"steps"`
	SourceEvents  []string    `json:"sourceEvents"`
	TracedAt      time.Time   `json:"tracedAt"`
}

// AnomalySeverity classifies a close-preview anomaly
type AnomalySeverity string

const (
	AnomalySeverityInfo     AnomalySeverity = "INFO"
	AnomalySeverityWarning  AnomalySeverity = "WARNING"
	AnomalySeverityBlocking AnomalySeverity = "BLOCKING"
)

// Anomaly is an irregularity detected during close preview; blocking
// anomalies must be acknowledged before the period can be finalized.
type Anomaly struct {
	AnomalyID      string          `json:"anomalyId"`
	Severity       AnomalySeverity `json:"severity"`
	Description    string          `json:"description"`
	LoanAccountID  string          `json:"loanAccountId,omitempty"`
	Acknowledged   bool            `json:"acknowledged"`
	AcknowledgedBy string          `json:"acknowledgedBy,omitempty"`
}

// PeriodClosePreview is the mutable preview phase of a period close
type PeriodClosePreview struct {
	PreviewID      string          `json:"previewId"`
	PeriodDate     string          `json:"periodDate"`
	TotalAccrued   decimal.Decimal `json:"totalAccrued"`
	TotalECLDelta  decimal.Decimal `json:"totalEclDelta"`
	Anomalies      []Anomaly       `json:"anomalies"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}

// JournalEntry is a double-entry line produced by finalization
type JournalEntry struct {
	EntryID     string          `json:"entryId"`
	AccountCode string          `json:"accountCode"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// PeriodClose is the finalize-once aggregate for a single accounting period
type PeriodClose struct {
	PeriodDate     string         `json:"periodDate"`
	PreviewID      string         `json:"previewId"`
	FinalizedBy    string         `json:"finalizedBy"`
	FinalizedAt    time.Time      `json:"finalizedAt"`
	JournalEntries []JournalEntry `json:"journalEntries"`
}

// ClosedPeriods lists historical finalized periods
type ClosedPeriods struct {
	Periods          []PeriodClose `json:"periods"`
	LastClosedPeriod *PeriodClose  `json:"lastClosedPeriod"`
	Fallback         bool          `json:"_fallback,omitempty"`
}

// EmptyClosedPeriods is served when the ledger cannot list history; an empty
// list is always preferable to an error for this read.
func EmptyClosedPeriods() ClosedPeriods {
	return ClosedPeriods{
		Periods:          []PeriodClose{},
		LastClosedPeriod: nil,
		Fallback:         true,
	}
}

// ExportJobState is the lifecycle state of an asynchronous export job
type ExportJobState string

const (
	ExportJobPending    ExportJobState = "pending"
	ExportJobProcessing ExportJobState = "processing"
	ExportJobCompleted  ExportJobState = "completed"
	ExportJobFailed     ExportJobState = "failed"
)

// ExportJob is an asynchronous export tracked by the ledger service.
// Failed jobs may be retried, producing a new attempt under the same JobID.
type ExportJob struct {
	JobID       string         `json:"jobId"`
	Kind        string         `json:"kind"`
	State       ExportJobState `json:"state"`
	Attempt     int            `json:"attempt"`
	RequestedBy string         `json:"requestedBy,omitempty"`
	RequestedAt time.Time      `json:"requestedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	FailureReason string       `json:"failureReason,omitempty"`
}

// ExportResult is the payload of a completed export job
type ExportResult struct {
	JobID       string `json:"jobId"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	Data        []byte `json:"data,omitempty"`
	ArtifactURL string `json:"artifactUrl,omitempty"`
}

// PendingConfigChange is a scheduled future mutation to ECL configuration,
// cancellable before its effective date.
type PendingConfigChange struct {
	ChangeID      string          `json:"changeId"`
	Parameter     string          `json:"parameter"`
	Bucket        string          `json:"bucket,omitempty"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	NewValue      decimal.Decimal `json:"newValue"`
	EffectiveDate string          `json:"effectiveDate"`
	ScheduledBy   string          `json:"scheduledBy"`
	Cancelled     bool            `json:"cancelled"`
}

// EventProcessingStatus reports the health of the ledger's event pipeline
type EventProcessingStatus struct {
	Healthy          bool      `json:"healthy"`
	LagEvents        int64     `json:"lagEvents"`
	LastProcessedAt  time.Time `json:"lastProcessedAt,omitempty"`
	ProjectionsFresh bool      `json:"projectionsFresh"`
	Warning          string    `json:"warning,omitempty"`
}

// WriteOffRequestStatus is the projected state of a write-off request as
// observed through the read side; used by clients polling for command effect.
type WriteOffRequestStatus struct {
	RequestID     string    `json:"requestId"`
	LoanAccountID string    `json:"loanAccountId"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

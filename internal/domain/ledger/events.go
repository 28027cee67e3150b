package ledger

import "github.com/billie-crm/backend/internal/domain/shared"

// Event types published to the command pipeline
const (
	EventTypeWriteOffCancelRequested = "writeoff.cancel.requested"
)

// AggregateTypeWriteOffRequest names the ledger-owned aggregate the cancel
// command targets.
const AggregateTypeWriteOffRequest = "WriteOffRequest"

// WriteOffCancelRequested is the command published when an agent asks to
// cancel a pending write-off. The ledger applies it asynchronously; clients
// poll the write-off request projection until the effect is visible.
type WriteOffCancelRequested struct {
	shared.BaseDomainEvent
	RequestID      string `json:"request_id"`
	LoanAccountID  string `json:"loan_account_id"`
	Reason         string `json:"reason,omitempty"`
	RequestedBy    string `json:"requested_by"`
	IdempotencyKey string `json:"idempotency_key"`
}

// NewWriteOffCancelRequested creates the cancel command event
func NewWriteOffCancelRequested(requestID, loanAccountID, reason, requestedBy, idempotencyKey string) *WriteOffCancelRequested {
	return &WriteOffCancelRequested{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeWriteOffCancelRequested,
			AggregateTypeWriteOffRequest,
			requestID,
		),
		RequestID:      requestID,
		LoanAccountID:  loanAccountID,
		Reason:         reason,
		RequestedBy:    requestedBy,
		IdempotencyKey: idempotencyKey,
	}
}

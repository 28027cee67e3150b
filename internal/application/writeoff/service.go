// Package writeoff publishes write-off cancel commands through the outbox
// and serves the request projection clients poll for command effect.
package writeoff

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
	"github.com/billie-crm/backend/internal/infrastructure/telemetry"
)

// RequestReader is the slice of the ledger client this service consumes
type RequestReader interface {
	GetWriteOffRequest(ctx context.Context, requestID string) (ledger.WriteOffRequestStatus, error)
}

// CancelCommand is the agent-facing input for cancelling a pending write-off
type CancelCommand struct {
	RequestID      string
	LoanAccountID  string
	Reason         string
	RequestedBy    string
	IdempotencyKey string
}

// CancelAccepted is the acknowledgement that a cancel command was durably
// accepted. CommandID identifies the outbox entry; the effect lands later.
type CancelAccepted struct {
	CommandID string    `json:"commandId"`
	RequestID string    `json:"requestId"`
	Duplicate bool      `json:"duplicate,omitempty"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Service accepts write-off cancel commands. Acceptance means the command is
// in the outbox; delivery and the eventual state change belong to the event
// pipeline and the ledger.
type Service struct {
	outbox      shared.OutboxRepository
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	reader      RequestReader
	logger      *zap.Logger
}

// NewService creates a write-off service. idempotency may be nil to disable
// duplicate suppression.
func NewService(outbox shared.OutboxRepository, idempotency shared.IdempotencyStore, reader RequestReader, logger *zap.Logger) *Service {
	return &Service{
		outbox:      outbox,
		idempotency: idempotency,
		idemTTL:     shared.DefaultIdempotencyConfig().TTL,
		reader:      reader,
		logger:      logger,
	}
}

// Cancel accepts a cancel command for asynchronous processing. A replayed
// idempotency key is acknowledged without enqueuing a second command.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (CancelAccepted, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "write_off", "cancel")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRequestID, cmd.RequestID,
		telemetry.SpanAttrLoanAccountID, cmd.LoanAccountID,
	)

	switch {
	case strings.TrimSpace(cmd.RequestID) == "":
		return CancelAccepted{}, shared.NewDomainError("INVALID_INPUT", "requestId is required")
	case strings.TrimSpace(cmd.LoanAccountID) == "":
		return CancelAccepted{}, shared.NewDomainError("INVALID_INPUT", "loanAccountId is required")
	case strings.TrimSpace(cmd.RequestedBy) == "":
		return CancelAccepted{}, shared.NewDomainError("INVALID_INPUT", "requestedBy is required")
	case strings.TrimSpace(cmd.IdempotencyKey) == "":
		return CancelAccepted{}, shared.NewDomainError("INVALID_INPUT", "idempotencyKey is required")
	}

	if s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, cmd.IdempotencyKey, s.idemTTL)
		if err != nil {
			return CancelAccepted{}, err
		}
		if !fresh {
			telemetry.AddEvent(span, "duplicate_suppressed",
				"idempotency_key", cmd.IdempotencyKey)
			s.logger.Info("duplicate cancel command suppressed",
				zap.String("request_id", cmd.RequestID),
				zap.String("idempotency_key", cmd.IdempotencyKey),
			)
			return CancelAccepted{
				CommandID:  cmd.IdempotencyKey,
				RequestID:  cmd.RequestID,
				Duplicate:  true,
				AcceptedAt: time.Now(),
			}, nil
		}
	}

	event := ledger.NewWriteOffCancelRequested(
		cmd.RequestID, cmd.LoanAccountID, cmd.Reason, cmd.RequestedBy, cmd.IdempotencyKey,
	)
	payload, err := json.Marshal(event)
	if err != nil {
		return CancelAccepted{}, err
	}

	entry := shared.NewOutboxEntry(event, payload)
	if err := s.outbox.Save(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("cancel command rejected, outbox save failed",
			zap.String("request_id", cmd.RequestID), zap.Error(err))
		return CancelAccepted{}, shared.ErrCommandNotAccepted
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCommandID, entry.EventID.String())
	s.logger.Info("cancel command accepted",
		zap.String("command_id", entry.EventID.String()),
		zap.String("request_id", cmd.RequestID),
		zap.String("requested_by", cmd.RequestedBy),
	)
	return CancelAccepted{
		CommandID:  entry.EventID.String(),
		RequestID:  cmd.RequestID,
		AcceptedAt: entry.CreatedAt,
	}, nil
}

// Status returns the projected write-off request state clients poll after
// submitting a cancel.
func (s *Service) Status(ctx context.Context, requestID string) (ledger.WriteOffRequestStatus, error) {
	if strings.TrimSpace(requestID) == "" {
		return ledger.WriteOffRequestStatus{}, shared.NewDomainError("INVALID_INPUT", "requestId is required")
	}
	return s.reader.GetWriteOffRequest(ctx, requestID)
}

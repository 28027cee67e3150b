// Package periodclose fronts the monthly finalize-once accounting cycle:
// preview generation, anomaly acknowledgement, finalization, and history.
package periodclose

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
	"github.com/billie-crm/backend/internal/infrastructure/telemetry"
)

const defaultHistoryLimit = 12

// Closer is the slice of the ledger client this service consumes
type Closer interface {
	PreviewPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClosePreview, error)
	AcknowledgeAnomaly(ctx context.Context, previewID, anomalyID, acknowledgedBy string) (ledger.PeriodClosePreview, error)
	FinalizePeriodClose(ctx context.Context, previewID, finalizedBy string) (ledger.PeriodClose, error)
	GetClosedPeriods(ctx context.Context, limit int) (ledger.ClosedPeriods, error)
	GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, error)
}

// Service orchestrates the period close flow against the ledger. The ledger
// owns the finalize-once invariant; this service only validates input and
// shapes fallbacks.
type Service struct {
	closer Closer
	logger *zap.Logger
}

// NewService creates a period close service
func NewService(closer Closer, logger *zap.Logger) *Service {
	return &Service{
		closer: closer,
		logger: logger,
	}
}

// Preview generates a close preview for the given period date
func (s *Service) Preview(ctx context.Context, periodDate string) (ledger.PeriodClosePreview, error) {
	if strings.TrimSpace(periodDate) == "" {
		return ledger.PeriodClosePreview{}, shared.NewDomainError("INVALID_INPUT", "periodDate is required")
	}
	return s.closer.PreviewPeriodClose(ctx, periodDate)
}

// Acknowledge marks a preview anomaly as reviewed
func (s *Service) Acknowledge(ctx context.Context, previewID, anomalyID, acknowledgedBy string) (ledger.PeriodClosePreview, error) {
	switch {
	case strings.TrimSpace(previewID) == "":
		return ledger.PeriodClosePreview{}, shared.NewDomainError("INVALID_INPUT", "previewId is required")
	case strings.TrimSpace(anomalyID) == "":
		return ledger.PeriodClosePreview{}, shared.NewDomainError("INVALID_INPUT", "anomalyId is required")
	case strings.TrimSpace(acknowledgedBy) == "":
		return ledger.PeriodClosePreview{}, shared.NewDomainError("INVALID_INPUT", "acknowledgedBy is required")
	}
	return s.closer.AcknowledgeAnomaly(ctx, previewID, anomalyID, acknowledgedBy)
}

// Finalize finalizes a previewed close. Finalization is terminal for the
// period; a FAILED_PRECONDITION from the ledger surfaces as an invalid-state
// domain error.
func (s *Service) Finalize(ctx context.Context, previewID, finalizedBy string) (ledger.PeriodClose, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "period_close", "finalize")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPreviewID, previewID)

	switch {
	case strings.TrimSpace(previewID) == "":
		return ledger.PeriodClose{}, shared.NewDomainError("INVALID_INPUT", "previewId is required")
	case strings.TrimSpace(finalizedBy) == "":
		return ledger.PeriodClose{}, shared.NewDomainError("INVALID_INPUT", "finalizedBy is required")
	}

	closed, err := s.closer.FinalizePeriodClose(ctx, previewID, finalizedBy)
	if err != nil {
		if ledger.KindOf(err) == ledger.KindFailedPrecondition {
			return ledger.PeriodClose{}, shared.ErrPeriodFinalized
		}
		telemetry.RecordError(span, err)
		return ledger.PeriodClose{}, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPeriodDate, closed.PeriodDate)
	s.logger.Info("period finalized",
		zap.String("period_date", closed.PeriodDate),
		zap.String("preview_id", previewID),
		zap.String("finalized_by", finalizedBy),
		zap.Int("journal_entries", len(closed.JournalEntries)),
	)
	return closed, nil
}

// History lists finalized periods. An empty list is always preferable to an
// error for this read, so UNAVAILABLE and UNIMPLEMENTED both degrade.
func (s *Service) History(ctx context.Context, limit int) (ledger.ClosedPeriods, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	periods, err := s.closer.GetClosedPeriods(ctx, limit)
	if err != nil {
		if ledger.IsUnavailable(err) || ledger.IsUnimplemented(err) {
			s.logger.Warn("serving empty close history", zap.Error(err))
			return ledger.EmptyClosedPeriods(), nil
		}
		return ledger.ClosedPeriods{}, err
	}
	if periods.Periods == nil {
		periods.Periods = []ledger.PeriodClose{}
	}
	return periods, nil
}

// Get fetches one finalized period. NOT_FOUND propagates: this is an
// identity lookup.
func (s *Service) Get(ctx context.Context, periodDate string) (ledger.PeriodClose, error) {
	if strings.TrimSpace(periodDate) == "" {
		return ledger.PeriodClose{}, shared.NewDomainError("INVALID_INPUT", "periodDate is required")
	}
	return s.closer.GetPeriodClose(ctx, periodDate)
}

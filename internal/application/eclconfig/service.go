// Package eclconfig manages scheduled ECL configuration changes: inspecting
// a pending change and cancelling it before it takes effect.
package eclconfig

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

// ConfigReader is the slice of the ledger client this service consumes
type ConfigReader interface {
	GetPendingConfigChange(ctx context.Context, changeID string) (ledger.PendingConfigChange, error)
	CancelPendingConfigChange(ctx context.Context, changeID, cancelledBy string) (ledger.PendingConfigChange, error)
}

// Service fronts scheduled ECL parameter changes
type Service struct {
	reader ConfigReader
	logger *zap.Logger
}

// NewService creates an ECL config service
func NewService(reader ConfigReader, logger *zap.Logger) *Service {
	return &Service{
		reader: reader,
		logger: logger,
	}
}

// Get returns a pending configuration change by id
func (s *Service) Get(ctx context.Context, changeID string) (ledger.PendingConfigChange, error) {
	if strings.TrimSpace(changeID) == "" {
		return ledger.PendingConfigChange{}, shared.NewDomainError("INVALID_INPUT", "changeId is required")
	}
	return s.reader.GetPendingConfigChange(ctx, changeID)
}

// Cancel withdraws a pending change before its effective date. A change that
// already took effect cannot be cancelled; the ledger signals that with
// FAILED_PRECONDITION.
func (s *Service) Cancel(ctx context.Context, changeID, cancelledBy string) (ledger.PendingConfigChange, error) {
	switch {
	case strings.TrimSpace(changeID) == "":
		return ledger.PendingConfigChange{}, shared.NewDomainError("INVALID_INPUT", "changeId is required")
	case strings.TrimSpace(cancelledBy) == "":
		return ledger.PendingConfigChange{}, shared.NewDomainError("INVALID_INPUT", "cancelledBy is required")
	}

	change, err := s.reader.CancelPendingConfigChange(ctx, changeID, cancelledBy)
	if err != nil {
		if ledger.KindOf(err) == ledger.KindFailedPrecondition {
			return ledger.PendingConfigChange{}, shared.NewDomainError("INVALID_STATE", "configuration change is no longer cancellable")
		}
		return ledger.PendingConfigChange{}, err
	}

	s.logger.Info("pending config change cancelled",
		zap.String("change_id", changeID),
		zap.String("parameter", change.Parameter),
		zap.String("cancelled_by", cancelledBy),
	)
	return change, nil
}

// Package system reports the health of the ledger's event processing
// pipeline to operators.
package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

// HealthReader is the slice of the ledger client this service consumes
type HealthReader interface {
	GetEventProcessingStatus(ctx context.Context) (ledger.EventProcessingStatus, error)
}

// Service answers event pipeline health queries. An unreachable ledger is
// itself a health finding, so it is reported as a degraded status rather than
// an error.
type Service struct {
	reader HealthReader
	logger *zap.Logger
}

// NewService creates a system status service
func NewService(reader HealthReader, logger *zap.Logger) *Service {
	return &Service{
		reader: reader,
		logger: logger,
	}
}

// EventStatus returns the event pipeline health
func (s *Service) EventStatus(ctx context.Context) (ledger.EventProcessingStatus, error) {
	status, err := s.reader.GetEventProcessingStatus(ctx)
	if err != nil {
		if ledger.IsUnavailable(err) || ledger.IsUnimplemented(err) {
			s.logger.Warn("event status unavailable, reporting degraded", zap.Error(err))
			return ledger.EventProcessingStatus{
				Healthy:          false,
				ProjectionsFresh: false,
				Warning:          "ledger service unreachable, projection freshness unknown",
			}, nil
		}
		return ledger.EventProcessingStatus{}, err
	}
	return status, nil
}

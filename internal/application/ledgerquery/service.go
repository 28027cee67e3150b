// Package ledgerquery serves the per-account and portfolio projections the
// CRM reads from the accounting ledger: accrued yield, ECL allowance, and
// repayment schedules.
package ledgerquery

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

// ProjectionReader is the slice of the ledger client this service consumes
type ProjectionReader interface {
	GetAccruedYield(ctx context.Context, loanAccountID string) (ledger.AccrualState, error)
	GetECLAllowance(ctx context.Context, loanAccountID string) (ledger.ECLAllowance, error)
	GetPortfolioECL(ctx context.Context) (ledger.PortfolioECLSummary, error)
	GetScheduleWithStatus(ctx context.Context, loanAccountID string) (ledger.ScheduleWithStatus, error)
}

// Service answers projection reads, normalizing "not computed yet" into
// zero-valued states so the UI never treats domain absence as a failure.
type Service struct {
	reader ProjectionReader
	logger *zap.Logger
}

// NewService creates a ledger query service
func NewService(reader ProjectionReader, logger *zap.Logger) *Service {
	return &Service{
		reader: reader,
		logger: logger,
	}
}

// GetAccrual returns the accrued-yield state for an account. A ledger
// NOT_FOUND becomes a zero-valued placeholder, not an error.
func (s *Service) GetAccrual(ctx context.Context, loanAccountID string) (ledger.AccrualState, error) {
	if strings.TrimSpace(loanAccountID) == "" {
		return ledger.AccrualState{}, shared.NewDomainError("INVALID_INPUT", "loanAccountId is required")
	}

	state, err := s.reader.GetAccruedYield(ctx, loanAccountID)
	if err != nil {
		if ledger.IsNotFound(err) {
			s.logger.Debug("accrual not yet computed", zap.String("loan_account_id", loanAccountID))
			return ledger.ZeroAccrualState(loanAccountID), nil
		}
		return ledger.AccrualState{}, err
	}
	return state, nil
}

// GetECL returns the ECL allowance for an account. A ledger NOT_FOUND
// becomes a zero-valued placeholder, not an error.
func (s *Service) GetECL(ctx context.Context, loanAccountID string) (ledger.ECLAllowance, error) {
	if strings.TrimSpace(loanAccountID) == "" {
		return ledger.ECLAllowance{}, shared.NewDomainError("INVALID_INPUT", "loanAccountId is required")
	}

	allowance, err := s.reader.GetECLAllowance(ctx, loanAccountID)
	if err != nil {
		if ledger.IsNotFound(err) {
			s.logger.Debug("ecl not yet computed", zap.String("loan_account_id", loanAccountID))
			return ledger.ZeroECLAllowance(loanAccountID), nil
		}
		return ledger.ECLAllowance{}, err
	}
	return allowance, nil
}

// GetPortfolioECL returns the portfolio summary. While the ledger is
// unreachable a zeroed summary is served so dashboards degrade instead of
// erroring.
func (s *Service) GetPortfolioECL(ctx context.Context) (ledger.PortfolioECLSummary, error) {
	summary, err := s.reader.GetPortfolioECL(ctx)
	if err != nil {
		if ledger.IsUnavailable(err) || ledger.IsUnimplemented(err) {
			s.logger.Warn("serving zeroed portfolio summary", zap.Error(err))
			return ledger.ZeroPortfolioECLSummary(), nil
		}
		return ledger.PortfolioECLSummary{}, err
	}
	return summary, nil
}

// GetSchedule returns the repayment schedule with instalment status.
// Staleness is unacceptable here, so unavailability propagates.
func (s *Service) GetSchedule(ctx context.Context, loanAccountID string) (ledger.ScheduleWithStatus, error) {
	if strings.TrimSpace(loanAccountID) == "" {
		return ledger.ScheduleWithStatus{}, shared.NewDomainError("INVALID_INPUT", "loanAccountId is required")
	}
	return s.reader.GetScheduleWithStatus(ctx, loanAccountID)
}

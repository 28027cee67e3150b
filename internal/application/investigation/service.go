// Package investigation backs the account investigation tooling: free-text
// search, reproducible random sampling, and calculation provenance traces.
package investigation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

const (
	defaultSearchLimit = 20
	maxSampleSize      = 500
)

// Investigator is the slice of the ledger client this service consumes
type Investigator interface {
	SearchAccounts(ctx context.Context, query string, limit int) (ledger.SearchResult, error)
	GenerateRandomSample(ctx context.Context, req ledger.SampleRequest) (ledger.SampleBatch, error)
	TraceECLToSource(ctx context.Context, loanAccountID string) (ledger.CalculationTrace, error)
	TraceAccruedYieldToSource(ctx context.Context, loanAccountID string) (ledger.CalculationTrace, error)
}

// Service answers investigation queries against the ledger
type Service struct {
	investigator Investigator
	limitCap     int
	logger       *zap.Logger
}

// NewService creates an investigation service. limitCap bounds the search
// result size a caller may request.
func NewService(investigator Investigator, limitCap int, logger *zap.Logger) *Service {
	if limitCap <= 0 {
		limitCap = 100
	}
	return &Service{
		investigator: investigator,
		limitCap:     limitCap,
		logger:       logger,
	}
}

// Search finds loan accounts matching a free-text query. While the ledger
// is unreachable an empty result is served so the search box degrades
// gracefully instead of erroring.
func (s *Service) Search(ctx context.Context, query string, limit int) (ledger.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return ledger.SearchResult{}, shared.NewDomainError("INVALID_INPUT", "query parameter q is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > s.limitCap {
		limit = s.limitCap
	}

	result, err := s.investigator.SearchAccounts(ctx, query, limit)
	if err != nil {
		if ledger.IsUnavailable(err) {
			s.logger.Warn("search degraded to empty result", zap.Error(err))
			return ledger.EmptySearchResult(), nil
		}
		return ledger.SearchResult{}, err
	}
	if result.Results == nil {
		result.Results = []ledger.AccountSummary{}
	}
	return result, nil
}

// Sample draws a randomized account sample. When no seed is supplied one is
// generated so every draw is reproducible after the fact.
func (s *Service) Sample(ctx context.Context, req ledger.SampleRequest) (ledger.SampleBatch, error) {
	if req.Size <= 0 {
		return ledger.SampleBatch{}, shared.NewDomainError("INVALID_INPUT", "sample size must be positive")
	}
	if req.Size > maxSampleSize {
		return ledger.SampleBatch{}, shared.NewDomainError("INVALID_INPUT", "sample size exceeds maximum of 500")
	}
	if req.Seed == "" {
		req.Seed = uuid.NewString()
	}
	return s.investigator.GenerateRandomSample(ctx, req)
}

// TraceECL returns ECL calculation provenance. NOT_FOUND propagates: an
// identity lookup with no trace is a hard 404 for the caller.
func (s *Service) TraceECL(ctx context.Context, loanAccountID string) (ledger.CalculationTrace, error) {
	if strings.TrimSpace(loanAccountID) == "" {
		return ledger.CalculationTrace{}, shared.NewDomainError("INVALID_INPUT", "loanAccountId is required")
	}
	return s.investigator.TraceECLToSource(ctx, loanAccountID)
}

// TraceAccrual returns accrued-yield calculation provenance
func (s *Service) TraceAccrual(ctx context.Context, loanAccountID string) (ledger.CalculationTrace, error) {
	if strings.TrimSpace(loanAccountID) == "" {
		return ledger.CalculationTrace{}, shared.NewDomainError("INVALID_INPUT", "loanAccountId is required")
	}
	return s.investigator.TraceAccruedYieldToSource(ctx, loanAccountID)
}

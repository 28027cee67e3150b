// Package exportjob tracks the ledger's asynchronous export jobs: status
// polling, retrying failed jobs, and fetching completed results.
package exportjob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

// Exporter is the slice of the ledger client this service consumes
type Exporter interface {
	GetExportStatus(ctx context.Context, jobID string) (ledger.ExportJob, error)
	RetryExport(ctx context.Context, jobID string) (ledger.ExportJob, error)
	GetExportResult(ctx context.Context, jobID string) (ledger.ExportResult, error)
}

// ArtifactStore archives completed export payloads to durable storage
type ArtifactStore interface {
	Upload(ctx context.Context, key string, reader *bytes.Reader, contentType string) (string, error)
}

// Service fronts the ledger's export pipeline. When an artifact store is
// configured, completed results are archived and served by URL instead of
// inline bytes.
type Service struct {
	exporter Exporter
	store    ArtifactStore
	logger   *zap.Logger
}

// NewService creates an export job service. store may be nil, in which case
// results are returned inline.
func NewService(exporter Exporter, store ArtifactStore, logger *zap.Logger) *Service {
	return &Service{
		exporter: exporter,
		store:    store,
		logger:   logger,
	}
}

// Status returns the current state of an export job
func (s *Service) Status(ctx context.Context, jobID string) (ledger.ExportJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return ledger.ExportJob{}, shared.NewDomainError("INVALID_INPUT", "jobId is required")
	}
	return s.exporter.GetExportStatus(ctx, jobID)
}

// Retry re-runs a failed export job. Only failed jobs are retryable; the
// ledger rejects anything else with FAILED_PRECONDITION.
func (s *Service) Retry(ctx context.Context, jobID string) (ledger.ExportJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return ledger.ExportJob{}, shared.NewDomainError("INVALID_INPUT", "jobId is required")
	}

	job, err := s.exporter.RetryExport(ctx, jobID)
	if err != nil {
		if ledger.KindOf(err) == ledger.KindFailedPrecondition {
			return ledger.ExportJob{}, shared.NewDomainError("INVALID_STATE", "only failed export jobs can be retried")
		}
		return ledger.ExportJob{}, err
	}

	s.logger.Info("export retry requested",
		zap.String("job_id", jobID),
		zap.Int("attempt", job.Attempt),
	)
	return job, nil
}

// Result fetches the payload of a completed export. Incomplete jobs yield an
// invalid-state error so callers keep polling Status instead.
func (s *Service) Result(ctx context.Context, jobID string) (ledger.ExportResult, error) {
	if strings.TrimSpace(jobID) == "" {
		return ledger.ExportResult{}, shared.NewDomainError("INVALID_INPUT", "jobId is required")
	}

	job, err := s.exporter.GetExportStatus(ctx, jobID)
	if err != nil {
		return ledger.ExportResult{}, err
	}
	if job.State != ledger.ExportJobCompleted {
		return ledger.ExportResult{}, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("export job is %s, result is only available once completed", job.State))
	}

	result, err := s.exporter.GetExportResult(ctx, jobID)
	if err != nil {
		return ledger.ExportResult{}, err
	}

	if s.store != nil && len(result.Data) > 0 {
		key := fmt.Sprintf("exports/%s/%d/%s", jobID, job.Attempt, result.Filename)
		url, uploadErr := s.store.Upload(ctx, key, bytes.NewReader(result.Data), result.ContentType)
		if uploadErr != nil {
			// Serving inline is better than failing the download.
			s.logger.Warn("export artifact archive failed, serving inline",
				zap.String("job_id", jobID), zap.Error(uploadErr))
			return result, nil
		}
		result.ArtifactURL = url
		result.Data = nil
	}
	return result, nil
}

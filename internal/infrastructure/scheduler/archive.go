package scheduler

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

// CloseLookup is the slice of the ledger client the archiver consumes
type CloseLookup interface {
	GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, error)
}

// ReportRenderer renders a finalized close into a PDF document
type ReportRenderer interface {
	RenderCloseReport(ctx context.Context, close ledger.PeriodClose) ([]byte, error)
}

// ArchiveStore is the slice of the artifact store the archiver consumes
type ArchiveStore interface {
	Upload(ctx context.Context, key string, reader *bytes.Reader, contentType string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// CloseReportArchiver renders the close report for a finalized period and
// uploads it to durable storage. Already-archived periods are skipped, so
// re-submitting a period is safe.
type CloseReportArchiver struct {
	closes   CloseLookup
	renderer ReportRenderer
	store    ArchiveStore
	logger   *zap.Logger
}

// NewCloseReportArchiver creates the archival executor
func NewCloseReportArchiver(closes CloseLookup, renderer ReportRenderer, store ArchiveStore, logger *zap.Logger) *CloseReportArchiver {
	return &CloseReportArchiver{
		closes:   closes,
		renderer: renderer,
		store:    store,
		logger:   logger,
	}
}

// ArchiveKey returns the storage key for a period's report
func ArchiveKey(periodDate string) string {
	return fmt.Sprintf("reports/period-close/%s.pdf", periodDate)
}

// Execute archives the close report named by the task
func (a *CloseReportArchiver) Execute(ctx context.Context, task *Task) error {
	if task.Kind != TaskKindCloseReportArchive {
		return ErrUnknownTaskKind
	}

	key := ArchiveKey(task.PeriodDate)
	exists, err := a.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check archive %s: %w", key, err)
	}
	if exists {
		a.logger.Debug("close report already archived",
			zap.String("period_date", task.PeriodDate))
		return nil
	}

	periodClose, err := a.closes.GetPeriodClose(ctx, task.PeriodDate)
	if err != nil {
		return fmt.Errorf("load period close %s: %w", task.PeriodDate, err)
	}

	pdf, err := a.renderer.RenderCloseReport(ctx, periodClose)
	if err != nil {
		return fmt.Errorf("render close report %s: %w", task.PeriodDate, err)
	}

	url, err := a.store.Upload(ctx, key, bytes.NewReader(pdf), "application/pdf")
	if err != nil {
		return fmt.Errorf("upload close report %s: %w", task.PeriodDate, err)
	}

	a.logger.Info("close report archived",
		zap.String("period_date", task.PeriodDate),
		zap.String("url", url),
		zap.Int("bytes", len(pdf)),
	)
	return nil
}

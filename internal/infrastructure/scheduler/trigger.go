package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

// HistoryLookup lists recently finalized periods for the trigger
type HistoryLookup interface {
	GetClosedPeriods(ctx context.Context, limit int) (ledger.ClosedPeriods, error)
}

// TriggerConfig holds configuration for the daily archive trigger
type TriggerConfig struct {
	// Hour and Minute name the daily run time in 24h local time
	Hour   int
	Minute int

	// CheckInterval is how often the trigger evaluates the clock
	CheckInterval time.Duration

	// HistoryDepth caps how many recent periods are considered per run
	HistoryDepth int
}

// DefaultTriggerConfig returns the default trigger configuration
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Hour:          3,
		Minute:        0,
		CheckInterval: time.Minute,
		HistoryDepth:  12,
	}
}

// DailyTrigger submits archive tasks for recently finalized periods once a
// day. The archiver itself skips periods whose report is already stored, so
// overlapping runs are harmless.
type DailyTrigger struct {
	config    TriggerConfig
	scheduler *Scheduler
	history   HistoryLookup
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates the daily archive trigger
func NewDailyTrigger(config TriggerConfig, scheduler *Scheduler, history HistoryLookup, logger *zap.Logger) *DailyTrigger {
	return &DailyTrigger{
		config:    config,
		scheduler: scheduler,
		history:   history,
		logger:    logger,
	}
}

// Start launches the trigger loop
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("archive trigger started",
		zap.Int("hour", t.config.Hour),
		zap.Int("minute", t.config.Minute),
	)
	return nil
}

// Stop stops the trigger loop
func (t *DailyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("archive trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *DailyTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

func (t *DailyTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	t.mu.Lock()
	alreadyRan := t.lastRunDate == currentDate
	t.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != t.config.Hour || now.Minute() != t.config.Minute {
		return
	}

	t.mu.Lock()
	t.lastRunDate = currentDate
	t.mu.Unlock()

	t.TriggerArchiveRun(ctx)
}

// TriggerArchiveRun submits archive tasks for recent finalized periods. It is
// exported so operators can force a run outside the daily schedule.
func (t *DailyTrigger) TriggerArchiveRun(ctx context.Context) {
	history, err := t.history.GetClosedPeriods(ctx, t.config.HistoryDepth)
	if err != nil {
		t.logger.Error("failed to list closed periods for archival", zap.Error(err))
		return
	}
	if history.Fallback {
		t.logger.Warn("ledger unavailable, skipping archive run")
		return
	}

	t.logger.Info("submitting close report archive tasks",
		zap.Int("period_count", len(history.Periods)))

	for _, period := range history.Periods {
		task := NewTask(TaskKindCloseReportArchive, period.PeriodDate, t.scheduler.config.RetryAttempts)
		if err := t.scheduler.Submit(task); err != nil {
			t.logger.Error("failed to submit archive task",
				zap.String("period_date", period.PeriodDate),
				zap.Error(err),
			)
		}
	}
}

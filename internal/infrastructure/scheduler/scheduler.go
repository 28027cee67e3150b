// Package scheduler runs background archival tasks: rendered close reports
// are pushed to durable storage on a daily cadence so auditors can retrieve
// them without hitting the renderer.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStatus is the lifecycle state of a scheduled task
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusRunning TaskStatus = "RUNNING"
	TaskStatusSuccess TaskStatus = "SUCCESS"
	TaskStatusFailed  TaskStatus = "FAILED"
)

// TaskKind identifies what a task does
type TaskKind string

const (
	// TaskKindCloseReportArchive renders and archives one period's close report
	TaskKindCloseReportArchive TaskKind = "CLOSE_REPORT_ARCHIVE"
)

// Task is one unit of background work
type Task struct {
	ID          uuid.UUID
	Kind        TaskKind
	PeriodDate  string
	Status      TaskStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewTask creates a pending task
func NewTask(kind TaskKind, periodDate string, maxRetries int) *Task {
	return &Task{
		ID:         uuid.New(),
		Kind:       kind,
		PeriodDate: periodDate,
		Status:     TaskStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the task as running
func (t *Task) Start() {
	now := time.Now()
	t.Status = TaskStatusRunning
	t.StartedAt = &now
	t.Error = ""
}

// Complete marks the task as successful
func (t *Task) Complete() {
	now := time.Now()
	t.Status = TaskStatusSuccess
	t.CompletedAt = &now
}

// Fail marks the task as failed
func (t *Task) Fail(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.CompletedAt = &now
	t.Error = err
}

// ShouldRetry reports whether a failed task has attempts left
func (t *Task) ShouldRetry() bool {
	return t.Status == TaskStatusFailed && t.RetryCount < t.MaxRetries
}

// ScheduleRetry resets the task to pending with a retry delay
func (t *Task) ScheduleRetry(delay time.Duration) {
	t.RetryCount++
	t.Status = TaskStatusPending
	nextRetry := time.Now().Add(delay)
	t.NextRetryAt = &nextRetry
	t.Error = ""
}

// Executor runs a single task
type Executor interface {
	Execute(ctx context.Context, task *Task) error
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentTasks int
	TaskTimeout        time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentTasks: 2,
		TaskTimeout:        5 * time.Minute,
		RetryAttempts:      3,
		RetryDelay:         2 * time.Minute,
	}
}

// Scheduler runs tasks on a bounded worker pool with per-task retry
type Scheduler struct {
	config   Config
	executor Executor
	logger   *zap.Logger

	tasks     chan *Task
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler around the given executor
func NewScheduler(config Config, executor Executor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		tasks:    make(chan *Task, 100),
	}
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentTasks; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("archive scheduler started",
		zap.Int("workers", s.config.MaxConcurrentTasks),
		zap.Duration("task_timeout", s.config.TaskTimeout),
	)
	return nil
}

// Stop drains the worker pool, waiting up to the context deadline
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	close(s.tasks)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("archive scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("archive scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a task for execution
func (s *Scheduler) Submit(task *Task) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.tasks <- task:
		s.logger.Debug("task submitted",
			zap.String("task_id", task.ID.String()),
			zap.String("kind", string(task.Kind)),
			zap.String("period_date", task.PeriodDate),
		)
		return nil
	default:
		return ErrTaskQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-s.tasks:
			if !ok {
				return
			}
			s.processTask(ctx, task, workerID)
		}
	}
}

func (s *Scheduler) processTask(ctx context.Context, task *Task, workerID int) {
	if task.NextRetryAt != nil && time.Now().Before(*task.NextRetryAt) {
		select {
		case s.tasks <- task:
		default:
			s.logger.Warn("failed to requeue task for retry",
				zap.String("task_id", task.ID.String()))
		}
		return
	}

	task.Start()
	taskCtx, cancel := context.WithTimeout(ctx, s.config.TaskTimeout)
	defer cancel()

	if err := s.executor.Execute(taskCtx, task); err != nil {
		task.Fail(err.Error())
		s.logger.Error("task failed",
			zap.Int("worker_id", workerID),
			zap.String("task_id", task.ID.String()),
			zap.String("period_date", task.PeriodDate),
			zap.Error(err),
		)

		if task.ShouldRetry() {
			task.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("task scheduled for retry",
				zap.String("task_id", task.ID.String()),
				zap.Int("retry_count", task.RetryCount),
				zap.Int("max_retries", task.MaxRetries),
			)
			select {
			case s.tasks <- task:
			default:
				s.logger.Warn("failed to requeue task for retry",
					zap.String("task_id", task.ID.String()))
			}
		}
		return
	}

	task.Complete()
	s.logger.Info("task completed",
		zap.Int("worker_id", workerID),
		zap.String("task_id", task.ID.String()),
		zap.String("period_date", task.PeriodDate),
	)
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingExecutor struct {
	mu       sync.Mutex
	executed []*Task
	failures int
}

func (e *recordingExecutor) Execute(ctx context.Context, task *Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, task)
	if e.failures > 0 {
		e.failures--
		return errors.New("transient failure")
	}
	return nil
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func testConfig() Config {
	return Config{
		MaxConcurrentTasks: 2,
		TaskTimeout:        time.Second,
		RetryAttempts:      2,
		RetryDelay:         time.Millisecond,
	}
}

func TestSchedulerExecutesSubmittedTask(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	task := NewTask(TaskKindCloseReportArchive, "2026-07-31", 2)
	require.NoError(t, s.Submit(task))

	assert.Eventually(t, func() bool {
		return task.Status == TaskStatusSuccess
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, executor.count())
}

func TestSchedulerRetriesFailedTask(t *testing.T) {
	executor := &recordingExecutor{failures: 1}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	task := NewTask(TaskKindCloseReportArchive, "2026-07-31", 2)
	require.NoError(t, s.Submit(task))

	assert.Eventually(t, func() bool {
		return task.Status == TaskStatusSuccess
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, task.RetryCount)
	assert.GreaterOrEqual(t, executor.count(), 2)
}

func TestSchedulerExhaustsRetryBudget(t *testing.T) {
	executor := &recordingExecutor{failures: 10}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	task := NewTask(TaskKindCloseReportArchive, "2026-07-31", 2)
	require.NoError(t, s.Submit(task))

	assert.Eventually(t, func() bool {
		return task.Status == TaskStatusFailed && !task.ShouldRetry()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, task.RetryCount)
	assert.NotEmpty(t, task.Error)
}

func TestSchedulerRejectsWhenStopped(t *testing.T) {
	s := NewScheduler(testConfig(), &recordingExecutor{}, zap.NewNop())

	err := s.Submit(NewTask(TaskKindCloseReportArchive, "2026-07-31", 2))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := NewScheduler(testConfig(), &recordingExecutor{}, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

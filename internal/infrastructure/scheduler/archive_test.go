package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

type MockCloseLookup struct {
	mock.Mock
}

func (m *MockCloseLookup) GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, error) {
	args := m.Called(ctx, periodDate)
	return args.Get(0).(ledger.PeriodClose), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderCloseReport(ctx context.Context, close ledger.PeriodClose) ([]byte, error) {
	args := m.Called(ctx, close)
	return args.Get(0).([]byte), args.Error(1)
}

type MockArchiveStore struct {
	mock.Mock
}

func (m *MockArchiveStore) Upload(ctx context.Context, key string, reader *bytes.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockArchiveStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func sampleClose() ledger.PeriodClose {
	return ledger.PeriodClose{
		PeriodDate:  "2026-07-31",
		PreviewID:   "prev-2026-07",
		FinalizedBy: "agent-7",
		FinalizedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestCloseReportArchiverUploadsReport(t *testing.T) {
	closes := new(MockCloseLookup)
	renderer := new(MockRenderer)
	store := new(MockArchiveStore)

	key := ArchiveKey("2026-07-31")
	store.On("Exists", mock.Anything, key).Return(false, nil)
	closes.On("GetPeriodClose", mock.Anything, "2026-07-31").Return(sampleClose(), nil)
	renderer.On("RenderCloseReport", mock.Anything, sampleClose()).Return([]byte("%PDF-1.4"), nil)
	store.On("Upload", mock.Anything, key, mock.Anything, "application/pdf").
		Return("https://bucket/"+key, nil)

	archiver := NewCloseReportArchiver(closes, renderer, store, zap.NewNop())
	err := archiver.Execute(context.Background(), NewTask(TaskKindCloseReportArchive, "2026-07-31", 2))

	require.NoError(t, err)
	store.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestCloseReportArchiverSkipsExisting(t *testing.T) {
	closes := new(MockCloseLookup)
	renderer := new(MockRenderer)
	store := new(MockArchiveStore)

	store.On("Exists", mock.Anything, ArchiveKey("2026-07-31")).Return(true, nil)

	archiver := NewCloseReportArchiver(closes, renderer, store, zap.NewNop())
	err := archiver.Execute(context.Background(), NewTask(TaskKindCloseReportArchive, "2026-07-31", 2))

	require.NoError(t, err)
	closes.AssertNotCalled(t, "GetPeriodClose", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCloseReportArchiverPropagatesRenderFailure(t *testing.T) {
	closes := new(MockCloseLookup)
	renderer := new(MockRenderer)
	store := new(MockArchiveStore)

	store.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	closes.On("GetPeriodClose", mock.Anything, "2026-07-31").Return(sampleClose(), nil)
	renderer.On("RenderCloseReport", mock.Anything, mock.Anything).
		Return([]byte(nil), errors.New("chrome crashed"))

	archiver := NewCloseReportArchiver(closes, renderer, store, zap.NewNop())
	err := archiver.Execute(context.Background(), NewTask(TaskKindCloseReportArchive, "2026-07-31", 2))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render close report")
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCloseReportArchiverRejectsUnknownKind(t *testing.T) {
	archiver := NewCloseReportArchiver(new(MockCloseLookup), new(MockRenderer), new(MockArchiveStore), zap.NewNop())

	task := NewTask(TaskKind("SOMETHING_ELSE"), "2026-07-31", 2)
	err := archiver.Execute(context.Background(), task)
	assert.ErrorIs(t, err, ErrUnknownTaskKind)
}

func TestDailyTriggerSubmitsTasksForClosedPeriods(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	history := new(MockHistoryLookup)
	history.On("GetClosedPeriods", mock.Anything, 12).Return(ledger.ClosedPeriods{
		Periods: []ledger.PeriodClose{
			{PeriodDate: "2026-06-30"},
			{PeriodDate: "2026-07-31"},
		},
	}, nil)

	trigger := NewDailyTrigger(DefaultTriggerConfig(), s, history, zap.NewNop())
	trigger.TriggerArchiveRun(context.Background())

	assert.Eventually(t, func() bool {
		return executor.count() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDailyTriggerSkipsFallbackHistory(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	history := new(MockHistoryLookup)
	history.On("GetClosedPeriods", mock.Anything, 12).Return(ledger.EmptyClosedPeriods(), nil)

	trigger := NewDailyTrigger(DefaultTriggerConfig(), s, history, zap.NewNop())
	trigger.TriggerArchiveRun(context.Background())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, executor.count())
}

type MockHistoryLookup struct {
	mock.Mock
}

func (m *MockHistoryLookup) GetClosedPeriods(ctx context.Context, limit int) (ledger.ClosedPeriods, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(ledger.ClosedPeriods), args.Error(1)
}

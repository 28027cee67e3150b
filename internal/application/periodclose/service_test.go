package periodclose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

// MockCloser is a mock implementation of Closer
type MockCloser struct {
	mock.Mock
}

func (m *MockCloser) PreviewPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClosePreview, error) {
	args := m.Called(ctx, periodDate)
	return args.Get(0).(ledger.PeriodClosePreview), args.Error(1)
}

func (m *MockCloser) AcknowledgeAnomaly(ctx context.Context, previewID, anomalyID, acknowledgedBy string) (ledger.PeriodClosePreview, error) {
	args := m.Called(ctx, previewID, anomalyID, acknowledgedBy)
	return args.Get(0).(ledger.PeriodClosePreview), args.Error(1)
}

func (m *MockCloser) FinalizePeriodClose(ctx context.Context, previewID, finalizedBy string) (ledger.PeriodClose, error) {
	args := m.Called(ctx, previewID, finalizedBy)
	return args.Get(0).(ledger.PeriodClose), args.Error(1)
}

func (m *MockCloser) GetClosedPeriods(ctx context.Context, limit int) (ledger.ClosedPeriods, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(ledger.ClosedPeriods), args.Error(1)
}

func (m *MockCloser) GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, error) {
	args := m.Called(ctx, periodDate)
	return args.Get(0).(ledger.PeriodClose), args.Error(1)
}

func TestPreviewRequiresPeriodDate(t *testing.T) {
	closer := new(MockCloser)
	svc := NewService(closer, zap.NewNop())

	_, err := svc.Preview(context.Background(), " ")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	closer.AssertNotCalled(t, "PreviewPeriodClose", mock.Anything, mock.Anything)
}

func TestAcknowledgeValidatesAllFields(t *testing.T) {
	closer := new(MockCloser)
	svc := NewService(closer, zap.NewNop())

	tests := []struct {
		name                                 string
		previewID, anomalyID, acknowledgedBy string
	}{
		{"missing preview id", "", "AN-1", "ops"},
		{"missing anomaly id", "PV-1", "", "ops"},
		{"missing acknowledger", "PV-1", "AN-1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Acknowledge(context.Background(), tt.previewID, tt.anomalyID, tt.acknowledgedBy)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		})
	}
	closer.AssertNotCalled(t, "AcknowledgeAnomaly", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeRequiresPreviewID(t *testing.T) {
	closer := new(MockCloser)
	svc := NewService(closer, zap.NewNop())

	_, err := svc.Finalize(context.Background(), "", "ops")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	closer.AssertNotCalled(t, "FinalizePeriodClose", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeAlreadyClosedPeriod(t *testing.T) {
	closer := new(MockCloser)
	closer.On("FinalizePeriodClose", mock.Anything, "PV-1", "ops").
		Return(ledger.PeriodClose{}, ledger.NewError(ledger.KindFailedPrecondition, "period already finalized"))
	svc := NewService(closer, zap.NewNop())

	_, err := svc.Finalize(context.Background(), "PV-1", "ops")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERIOD_FINALIZED", domainErr.Code)
}

func TestFinalizeReturnsJournalEntries(t *testing.T) {
	closer := new(MockCloser)
	closer.On("FinalizePeriodClose", mock.Anything, "PV-1", "ops").
		Return(ledger.PeriodClose{
			PeriodDate:     "2026-07-31",
			PreviewID:      "PV-1",
			FinalizedBy:    "ops",
			JournalEntries: []ledger.JournalEntry{{EntryID: "JE-1", AccountCode: "4100"}},
		}, nil)
	svc := NewService(closer, zap.NewNop())

	closed, err := svc.Finalize(context.Background(), "PV-1", "ops")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-31", closed.PeriodDate)
	assert.Len(t, closed.JournalEntries, 1)
}

func TestHistoryDegradesWhenUnavailable(t *testing.T) {
	closer := new(MockCloser)
	closer.On("GetClosedPeriods", mock.Anything, defaultHistoryLimit).
		Return(ledger.ClosedPeriods{}, ledger.NewError(ledger.KindUnavailable, "down"))
	svc := NewService(closer, zap.NewNop())

	periods, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, periods.Fallback)
	assert.NotNil(t, periods.Periods)
	assert.Empty(t, periods.Periods)
	assert.Nil(t, periods.LastClosedPeriod)
}

func TestHistoryDegradesWhenUnimplemented(t *testing.T) {
	closer := new(MockCloser)
	closer.On("GetClosedPeriods", mock.Anything, 5).
		Return(ledger.ClosedPeriods{}, ledger.NewError(ledger.KindUnimplemented, "not built yet"))
	svc := NewService(closer, zap.NewNop())

	periods, err := svc.History(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, periods.Fallback)
	assert.Empty(t, periods.Periods)
}

func TestHistoryNormalizesNilSlice(t *testing.T) {
	closer := new(MockCloser)
	closer.On("GetClosedPeriods", mock.Anything, defaultHistoryLimit).
		Return(ledger.ClosedPeriods{Periods: nil}, nil)
	svc := NewService(closer, zap.NewNop())

	periods, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, periods.Periods)
	assert.False(t, periods.Fallback)
}

func TestGetNotFoundPropagates(t *testing.T) {
	closer := new(MockCloser)
	closer.On("GetPeriodClose", mock.Anything, "2026-07-31").
		Return(ledger.PeriodClose{}, ledger.NewError(ledger.KindNotFound, "period not closed"))
	svc := NewService(closer, zap.NewNop())

	_, err := svc.Get(context.Background(), "2026-07-31")
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

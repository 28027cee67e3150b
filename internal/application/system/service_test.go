package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

// MockHealthReader is a mock implementation of HealthReader
type MockHealthReader struct {
	mock.Mock
}

func (m *MockHealthReader) GetEventProcessingStatus(ctx context.Context) (ledger.EventProcessingStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(ledger.EventProcessingStatus), args.Error(1)
}

func TestEventStatusHealthyPassThrough(t *testing.T) {
	reader := new(MockHealthReader)
	reader.On("GetEventProcessingStatus", mock.Anything).
		Return(ledger.EventProcessingStatus{Healthy: true, LagEvents: 3, ProjectionsFresh: true}, nil)
	svc := NewService(reader, zap.NewNop())

	status, err := svc.EventStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.EqualValues(t, 3, status.LagEvents)
}

func TestEventStatusDegradesWhenUnavailable(t *testing.T) {
	reader := new(MockHealthReader)
	reader.On("GetEventProcessingStatus", mock.Anything).
		Return(ledger.EventProcessingStatus{}, ledger.NewError(ledger.KindUnavailable, "down"))
	svc := NewService(reader, zap.NewNop())

	status, err := svc.EventStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.False(t, status.ProjectionsFresh)
	assert.NotEmpty(t, status.Warning)
}

func TestEventStatusInternalErrorPropagates(t *testing.T) {
	reader := new(MockHealthReader)
	reader.On("GetEventProcessingStatus", mock.Anything).
		Return(ledger.EventProcessingStatus{}, ledger.NewError(ledger.KindInternal, "boom"))
	svc := NewService(reader, zap.NewNop())

	_, err := svc.EventStatus(context.Background())
	require.Error(t, err)
	assert.Equal(t, ledger.KindInternal, ledger.KindOf(err))
}

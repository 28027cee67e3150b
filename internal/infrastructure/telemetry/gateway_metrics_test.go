package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGatewayMetricsDisabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	m, err := NewGatewayMetrics(mp)
	require.NoError(t, err)
	assert.False(t, m.IsEnabled())

	// No-op recording must not panic without instruments.
	ctx := context.Background()
	m.RecordRPC(ctx, "GetAccountAccrualState", 20*time.Millisecond, "")
	m.RecordFallback(ctx, "portfolio_ecl", "UNAVAILABLE")
	m.RecordOutboxDepth(ctx, "pending", 3)
	m.RecordOutboxPublished(ctx, "writeoff.cancel.requested")
}

func TestNewGatewayMetricsNilProvider(t *testing.T) {
	m, err := NewGatewayMetrics(nil)
	require.NoError(t, err)
	assert.False(t, m.IsEnabled())
}

func TestMeterProviderDisabledLifecycle(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.Shutdown(context.Background()))
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NotNil(t, mp.Meter("gateway"))
}

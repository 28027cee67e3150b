package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// GatewayMetrics holds instruments for the ledger gateway's domain concerns:
// upstream RPC health, degraded responses served to clients, and the
// write-off command outbox.
type GatewayMetrics struct {
	rpcTotal    *Counter
	rpcDuration *Histogram

	fallbackTotal *Counter

	outboxDepth     *Gauge
	outboxPublished *Counter

	enabled bool
}

// NewGatewayMetrics creates the gateway instruments from a meter provider.
// When metrics are disabled every recording method is a no-op.
func NewGatewayMetrics(mp *MeterProvider) (*GatewayMetrics, error) {
	if mp == nil || !mp.IsEnabled() {
		return &GatewayMetrics{}, nil
	}

	meter := mp.Meter("gateway")

	rpcTotal, err := NewCounter(meter,
		"ledger_client_request_total",
		"Total upstream ledger RPC calls by method and error kind",
		"{request}",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc counter: %w", err)
	}

	rpcDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "ledger_client_request_duration_seconds",
		Description: "Upstream ledger RPC latency distribution in seconds",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc histogram: %w", err)
	}

	fallbackTotal, err := NewCounter(meter,
		"gateway_fallback_total",
		"Degraded responses served to clients by endpoint and error kind",
		"{response}",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback counter: %w", err)
	}

	outboxDepth, err := NewGauge(meter,
		"outbox_entries",
		"Outbox entries by status",
		"{entry}",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox gauge: %w", err)
	}

	outboxPublished, err := NewCounter(meter,
		"outbox_published_total",
		"Outbox entries published to the event bus by event type",
		"{entry}",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox counter: %w", err)
	}

	return &GatewayMetrics{
		rpcTotal:        rpcTotal,
		rpcDuration:     rpcDuration,
		fallbackTotal:   fallbackTotal,
		outboxDepth:     outboxDepth,
		outboxPublished: outboxPublished,
		enabled:         true,
	}, nil
}

// RecordRPC records one upstream ledger call. errorKind is "" on success.
func (m *GatewayMetrics) RecordRPC(ctx context.Context, method string, duration time.Duration, errorKind string) {
	if !m.enabled {
		return
	}
	attrs := []attribute.KeyValue{AttrRPCMethod.String(method)}
	if errorKind != "" {
		attrs = append(attrs, AttrErrorKind.String(errorKind))
	}
	m.rpcTotal.Inc(ctx, attrs...)
	m.rpcDuration.RecordDuration(ctx, duration, AttrRPCMethod.String(method))
}

// RecordFallback records a degraded response served in place of live data.
func (m *GatewayMetrics) RecordFallback(ctx context.Context, endpoint, errorKind string) {
	if !m.enabled {
		return
	}
	m.fallbackTotal.Inc(ctx,
		AttrEndpoint.String(endpoint),
		AttrErrorKind.String(errorKind),
	)
}

// RecordOutboxDepth records the current number of outbox entries per status.
func (m *GatewayMetrics) RecordOutboxDepth(ctx context.Context, status string, count int64) {
	if !m.enabled {
		return
	}
	m.outboxDepth.Record(ctx, count, AttrOutboxStatus.String(status))
}

// RecordOutboxPublished counts an entry handed to the event bus.
func (m *GatewayMetrics) RecordOutboxPublished(ctx context.Context, eventType string) {
	if !m.enabled {
		return
	}
	m.outboxPublished.Inc(ctx, AttrEventType.String(eventType))
}

// IsEnabled reports whether instruments were created.
func (m *GatewayMetrics) IsEnabled() bool {
	return m.enabled
}

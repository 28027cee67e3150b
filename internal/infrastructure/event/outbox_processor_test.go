package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

func newTestProcessor(t *testing.T, handler shared.EventHandler) (*OutboxProcessor, *GormOutboxRepository) {
	t.Helper()
	repo := setupOutboxDB(t)
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	bus := NewInMemoryEventBus(zap.NewNop())
	if handler != nil {
		bus.Subscribe(handler)
	}

	p := NewOutboxProcessor(repo, bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	return p, repo
}

func TestProcessorPublishesPendingEntry(t *testing.T) {
	handler := &recordingHandler{types: []string{ledger.EventTypeWriteOffCancelRequested}}
	p, repo := newTestProcessor(t, handler)
	ctx := context.Background()

	entry := newCancelEntry(t, "WO-1")
	require.NoError(t, repo.Save(ctx, entry))

	p.processBatch(ctx)

	assert.Equal(t, 1, handler.seen())

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestProcessorMarksUnknownEventTypeFailed(t *testing.T) {
	p, repo := newTestProcessor(t, nil)
	ctx := context.Background()

	cmd := ledger.NewWriteOffCancelRequested("WO-1", "LOAN-1", "", "agent-7", "k1")
	entry := shared.NewOutboxEntry(cmd, []byte(`{}`))
	entry.EventType = "unregistered.event"
	require.NoError(t, repo.Save(ctx, entry))

	p.processBatch(ctx)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "unknown event type")
}

func TestProcessorDeadLettersUndecodableEntry(t *testing.T) {
	p, repo := newTestProcessor(t, nil)
	ctx := context.Background()

	cmd := ledger.NewWriteOffCancelRequested("WO-1", "LOAN-1", "", "agent-7", "k1")
	entry := shared.NewOutboxEntry(cmd, []byte(`{}`))
	entry.EventType = "unregistered.event"
	entry.MaxRetries = 1
	require.NoError(t, repo.Save(ctx, entry))

	p.processBatch(ctx)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusDead, stored.Status)
	assert.True(t, stored.IsDead())
}

func TestProcessorStartStop(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	ctx := context.Background()

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Stop(ctx))
}

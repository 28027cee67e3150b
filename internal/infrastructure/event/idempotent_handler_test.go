package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[eventID], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

func TestIdempotentHandlerSkipsDuplicates(t *testing.T) {
	inner := &recordingHandler{types: []string{ledger.EventTypeWriteOffCancelRequested}}
	h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop())

	cmd := ledger.NewWriteOffCancelRequested("WO-1", "LOAN-1", "", "agent-7", "k1")
	require.NoError(t, h.Handle(context.Background(), cmd))
	require.NoError(t, h.Handle(context.Background(), cmd))

	assert.Equal(t, 1, inner.seen())
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsProcessed)
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsDuplicate)
}

func TestIdempotentHandlerProcessesWhenStoreFails(t *testing.T) {
	store := newFakeIdempotencyStore()
	store.err = errors.New("store down")
	inner := &recordingHandler{types: []string{ledger.EventTypeWriteOffCancelRequested}}
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	cmd := ledger.NewWriteOffCancelRequested("WO-1", "LOAN-1", "", "agent-7", "k1")
	require.NoError(t, h.Handle(context.Background(), cmd))

	assert.Equal(t, 1, inner.seen())
}

func TestIdempotentHandlerPropagatesHandlerError(t *testing.T) {
	inner := &recordingHandler{
		types: []string{ledger.EventTypeWriteOffCancelRequested},
		err:   errors.New("handler failed"),
	}
	h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop())

	cmd := ledger.NewWriteOffCancelRequested("WO-1", "LOAN-1", "", "agent-7", "k1")
	require.Error(t, h.Handle(context.Background(), cmd))
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsFailed)
}

func TestIdempotentHandlerDisabled(t *testing.T) {
	inner := &recordingHandler{types: []string{ledger.EventTypeWriteOffCancelRequested}}
	h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	cmd := ledger.NewWriteOffCancelRequested("WO-1", "LOAN-1", "", "agent-7", "k1")
	require.NoError(t, h.Handle(context.Background(), cmd))
	require.NoError(t, h.Handle(context.Background(), cmd))

	assert.Equal(t, 2, inner.seen())
}

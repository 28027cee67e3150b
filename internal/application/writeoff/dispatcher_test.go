package writeoff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

type fakeForwarder struct {
	calls  int
	lastID string
	status ledger.WriteOffRequestStatus
	err    error
}

func (f *fakeForwarder) CancelWriteOffRequest(_ context.Context, requestID, _, _, _ string) (ledger.WriteOffRequestStatus, error) {
	f.calls++
	f.lastID = requestID
	return f.status, f.err
}

func TestCancelDispatcherForwardsCommand(t *testing.T) {
	forwarder := &fakeForwarder{status: ledger.WriteOffRequestStatus{
		RequestID: "wo-req-1",
		Status:    "cancelled",
	}}
	d := NewCancelDispatcher(forwarder, nil)

	event := ledger.NewWriteOffCancelRequested("wo-req-1", "LOAN-123", "entered in error", "agent-7", "agent-7-cancelWriteOff-1756500000000-a1b2c3d4")
	err := d.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, 1, forwarder.calls)
	assert.Equal(t, "wo-req-1", forwarder.lastID)
}

func TestCancelDispatcherDropsNotFound(t *testing.T) {
	forwarder := &fakeForwarder{err: ledger.NewError(ledger.KindNotFound, "request not found")}
	d := NewCancelDispatcher(forwarder, nil)

	event := ledger.NewWriteOffCancelRequested("wo-req-2", "LOAN-456", "", "agent-7", "key-2")
	err := d.Handle(context.Background(), event)

	assert.NoError(t, err)
}

func TestCancelDispatcherPropagatesUnavailable(t *testing.T) {
	forwarder := &fakeForwarder{err: ledger.NewError(ledger.KindUnavailable, "connection refused")}
	d := NewCancelDispatcher(forwarder, nil)

	event := ledger.NewWriteOffCancelRequested("wo-req-3", "LOAN-789", "", "agent-7", "key-3")
	err := d.Handle(context.Background(), event)

	require.Error(t, err)
	assert.True(t, ledger.IsUnavailable(err))
}

func TestCancelDispatcherRejectsForeignEvent(t *testing.T) {
	d := NewCancelDispatcher(&fakeForwarder{}, nil)

	assert.Equal(t, []string{ledger.EventTypeWriteOffCancelRequested}, d.EventTypes())
}

package writeoff

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

// CancelForwarder is the slice of the ledger client the dispatcher uses to
// deliver cancel commands.
type CancelForwarder interface {
	CancelWriteOffRequest(ctx context.Context, requestID, reason, cancelledBy, idempotencyKey string) (ledger.WriteOffRequestStatus, error)
}

// CancelDispatcher consumes cancel commands off the event bus and forwards
// them to the ledger. A returned error keeps the outbox entry eligible for
// retry with backoff.
type CancelDispatcher struct {
	forwarder CancelForwarder
	logger    *zap.Logger
}

// NewCancelDispatcher creates the bus handler for cancel commands
func NewCancelDispatcher(forwarder CancelForwarder, logger *zap.Logger) *CancelDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CancelDispatcher{forwarder: forwarder, logger: logger}
}

// EventTypes implements shared.EventHandler
func (d *CancelDispatcher) EventTypes() []string {
	return []string{ledger.EventTypeWriteOffCancelRequested}
}

// Handle forwards the cancel command to the ledger. A NotFound answer means
// the request left the pending state before the command arrived; retrying
// cannot change that, so it is logged and dropped.
func (d *CancelDispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	cmd, ok := event.(*ledger.WriteOffCancelRequested)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	status, err := d.forwarder.CancelWriteOffRequest(ctx,
		cmd.RequestID, cmd.Reason, cmd.RequestedBy, cmd.IdempotencyKey)
	if err != nil {
		if ledger.IsNotFound(err) {
			d.logger.Warn("cancel command dropped, request no longer pending",
				zap.String("request_id", cmd.RequestID),
				zap.String("command_id", cmd.EventID().String()),
			)
			return nil
		}
		return fmt.Errorf("forward cancel command for %s: %w", cmd.RequestID, err)
	}

	d.logger.Info("cancel command delivered",
		zap.String("request_id", cmd.RequestID),
		zap.String("status", status.Status),
	)
	return nil
}

var _ shared.EventHandler = (*CancelDispatcher)(nil)

package event

import (
	"github.com/billie-crm/backend/internal/domain/ledger"
)

// RegisterAllEvents registers every command type the gateway publishes.
// The OutboxProcessor needs these to deserialize payloads from the outbox
// table before handing them to the event bus.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(ledger.EventTypeWriteOffCancelRequested, &ledger.WriteOffCancelRequested{})
}

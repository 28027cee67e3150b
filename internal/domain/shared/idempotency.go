package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which command IDs have already been applied,
// so a redelivered outbox entry never hits the ledger twice.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It returns false when
	// the ID was already present, which means skip the command.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has been seen.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls dedup behavior for event handlers.
type IdempotencyConfig struct {
	// TTL bounds how long a command ID blocks reprocessing. It only needs
	// to outlive the outbox retry horizon.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig covers the outbox's worst-case retry window
// with room to spare.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrConfirmTimeout means a submitted command was not confirmed within the
// polling deadline. The command may still complete on the backend; this is
// not a rejection.
var ErrConfirmTimeout = errors.New("mutation not confirmed before deadline")

// ErrSelfAction means the caller tried to act on a record they created
// themselves where four-eyes rules forbid it.
var ErrSelfAction = errors.New("cannot act on own request")

// MutationStage is the lifecycle position of a pending mutation
type MutationStage string

const (
	// StageOptimistic means the command exists only locally, not yet sent
	StageOptimistic MutationStage = "optimistic"
	// StageSubmitted means the gateway accepted the command but the
	// projection does not yet reflect it
	StageSubmitted MutationStage = "submitted"
	// StageConfirmed means the projection reflects the effect
	StageConfirmed MutationStage = "confirmed"
	// StageFailed means the command was rejected or could not be delivered
	StageFailed MutationStage = "failed"
)

// PendingMutation tracks one event-sourced command from local intent to
// backend-confirmed effect. It is safe for concurrent use; UI code reads the
// stage while the poller advances it.
type PendingMutation struct {
	mu             sync.RWMutex
	ID             string
	Action         string
	IdempotencyKey string
	stage          MutationStage
	submittedAt    time.Time
	resolvedAt     time.Time
	failure        error
}

// NewPendingMutation records local intent for a command not yet sent
func NewPendingMutation(id, action, idempotencyKey string) *PendingMutation {
	return &PendingMutation{
		ID:             id,
		Action:         action,
		IdempotencyKey: idempotencyKey,
		stage:          StageOptimistic,
	}
}

// Stage returns the current lifecycle position
func (m *PendingMutation) Stage() MutationStage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage
}

// Failure returns the rejection error for a failed mutation, nil otherwise
func (m *PendingMutation) Failure() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failure
}

// MarkSubmitted records gateway acceptance of the command
func (m *PendingMutation) MarkSubmitted() {
	m.mu.Lock()
	m.stage = StageSubmitted
	m.submittedAt = time.Now()
	m.mu.Unlock()
}

// MarkConfirmed records that the projection reflects the effect
func (m *PendingMutation) MarkConfirmed() {
	m.mu.Lock()
	m.stage = StageConfirmed
	m.resolvedAt = time.Now()
	m.mu.Unlock()
}

// MarkFailed records a rejection with its cause
func (m *PendingMutation) MarkFailed(err error) {
	m.mu.Lock()
	m.stage = StageFailed
	m.resolvedAt = time.Now()
	m.failure = err
	m.mu.Unlock()
}

// Resolved reports whether the mutation reached a terminal stage
func (m *PendingMutation) Resolved() bool {
	stage := m.Stage()
	return stage == StageConfirmed || stage == StageFailed
}

// Poller repeatedly checks whether a submitted command's effect is visible in
// the backend projection. Polling is at a fixed interval against a wall-clock
// deadline; exceeding the deadline yields ErrConfirmTimeout, which callers
// must treat as "outcome unknown", not as a rejection.
type Poller struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultPoller matches the cadence of the backend outbox relay
func DefaultPoller() *Poller {
	return &Poller{
		Interval: 2 * time.Second,
		Timeout:  30 * time.Second,
	}
}

// Poll drives mutation to a terminal stage. check reports whether the effect
// is visible yet; a check error other than "not yet" fails the mutation.
func (p *Poller) Poll(ctx context.Context, mutation *PendingMutation, check func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(p.Timeout)
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		done, err := check(ctx)
		if err != nil {
			mutation.MarkFailed(err)
			return err
		}
		if done {
			mutation.MarkConfirmed()
			return nil
		}
		if time.Now().After(deadline) {
			mutation.MarkFailed(ErrConfirmTimeout)
			return ErrConfirmTimeout
		}

		select {
		case <-ctx.Done():
			mutation.MarkFailed(ctx.Err())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

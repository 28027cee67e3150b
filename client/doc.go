// Package client is the Go client for the Billie ledger gateway. It keeps
// caller-visible state consistent with asynchronous, possibly-stale backend
// truth: reads go through a keyed query cache with bounded staleness,
// mutations invalidate the affected key families instead of guessing the
// server's new value, and long-latency event-sourced commands are tracked
// with a pending-mutation record polled until the projection reflects the
// effect.
package client

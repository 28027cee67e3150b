package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL,
		WithToken("test-token"),
		WithUserID("agent7"),
		WithPoller(&Poller{Interval: 5 * time.Millisecond, Timeout: time.Second}),
	)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(ledger.EventProcessingStatus{Healthy: true})
	}))

	status, _, err := client.GetSystemStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, "Bearer test-token", gotAuth.Load())
}

func TestClientDecodesErrorBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "period 2026-07-31 is already closed"})
	}))

	_, err := client.FinalizePeriodClose(context.Background(), "preview-1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "period 2026-07-31 is already closed", apiErr.Message)
	assert.Equal(t, ErrorConflict, ClassifyError(err))
}

func TestClientSearchFallbackPassthrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investigation/search", r.URL.Path)
		assert.Equal(t, "smith", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(ledger.EmptySearchResult())
	}))

	result, stale, err := client.SearchAccounts(context.Background(), "smith", 20)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.True(t, result.Fallback)
	assert.Empty(t, result.Results)
}

func TestClientCachesReads(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(ledger.AccrualState{LoanAccountID: "LOAN-1"})
	}))

	for i := 0; i < 3; i++ {
		state, _, err := client.GetAccruedYield(context.Background(), "LOAN-1")
		require.NoError(t, err)
		assert.Equal(t, "LOAN-1", state.LoanAccountID)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientFinalizeInvalidatesCloseHistory(t *testing.T) {
	var historyHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/period-close/history", func(w http.ResponseWriter, r *http.Request) {
		hits := historyHits.Add(1)
		periods := ledger.ClosedPeriods{Periods: []ledger.PeriodClose{}}
		if hits > 1 {
			periods.Periods = append(periods.Periods, ledger.PeriodClose{PeriodDate: "2026-07-31"})
		}
		_ = json.NewEncoder(w).Encode(periods)
	})
	mux.HandleFunc("/period-close/finalize", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ledger.PeriodClose{PeriodDate: "2026-07-31", PreviewID: "preview-1"})
	})
	client := newTestClient(t, mux)

	before, _, err := client.GetCloseHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, before.Periods)

	// Cached: no extra server hit.
	_, _, err = client.GetCloseHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), historyHits.Load())

	closed, err := client.FinalizePeriodClose(context.Background(), "preview-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-31", closed.PeriodDate)

	after, _, err := client.GetCloseHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), historyHits.Load())
	require.Len(t, after.Periods, 1)
	assert.Equal(t, "2026-07-31", after.Periods[0].PeriodDate)
}

func TestClientCancelWriteOffPollsToConfirmation(t *testing.T) {
	var polls atomic.Int32
	var cancelBody map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/write-off/cancel", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cancelBody))
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"commandId": "cmd-1",
			"requestId": cancelBody["requestId"],
			"status":    "submitted",
		})
	})
	mux.HandleFunc("/write-off/requests/req-1", func(w http.ResponseWriter, r *http.Request) {
		status := "PENDING_CANCELLATION"
		if polls.Add(1) >= 3 {
			status = "CANCELLED"
		}
		_ = json.NewEncoder(w).Encode(ledger.WriteOffRequestStatus{
			RequestID:     "req-1",
			LoanAccountID: "LOAN-1",
			Status:        status,
		})
	})
	client := newTestClient(t, mux)

	mutation, err := client.CancelWriteOff(context.Background(), "req-1", "LOAN-1", "entered in error")
	require.NoError(t, err)
	assert.Equal(t, StageConfirmed, mutation.Stage())
	assert.GreaterOrEqual(t, polls.Load(), int32(3))

	assert.Equal(t, "agent7", cancelBody["requestedBy"])
	assert.Equal(t, "entered in error", cancelBody["reason"])
	assert.NotEmpty(t, cancelBody["idempotencyKey"])
	assert.Equal(t, mutation.IdempotencyKey, cancelBody["idempotencyKey"])
}

func TestClientCancelWriteOffTimesOutWithoutConfirmation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/write-off/cancel", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"commandId": "cmd-1", "requestId": "req-1", "status": "submitted"})
	})
	mux.HandleFunc("/write-off/requests/req-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ledger.WriteOffRequestStatus{RequestID: "req-1", Status: "PENDING_CANCELLATION"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := New(server.URL,
		WithUserID("agent7"),
		WithPoller(&Poller{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}),
	)

	mutation, err := client.CancelWriteOff(context.Background(), "req-1", "LOAN-1", "")
	require.ErrorIs(t, err, ErrConfirmTimeout)
	assert.Equal(t, StageFailed, mutation.Stage())
	assert.Equal(t, ErrorTimeout, ClassifyError(err))
}

func TestClientCancelWriteOffToleratesProjectionLag(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/write-off/cancel", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"commandId": "cmd-1", "requestId": "req-1", "status": "submitted"})
	})
	mux.HandleFunc("/write-off/requests/req-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 2 {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "write-off request not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(ledger.WriteOffRequestStatus{RequestID: "req-1", Status: "CANCELLED"})
	})
	client := newTestClient(t, mux)

	mutation, err := client.CancelWriteOff(context.Background(), "req-1", "LOAN-1", "")
	require.NoError(t, err)
	assert.Equal(t, StageConfirmed, mutation.Stage())
}

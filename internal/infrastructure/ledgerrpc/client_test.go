package ledgerrpc

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
	"github.com/billie-crm/backend/internal/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.LedgerConfig{
		BaseURL:       srv.URL,
		Timeout:       2 * time.Second,
		SigningSecret: "test-secret",
		MaxRetries:    1,
		RetryBackoff:  time.Millisecond,
	}
	return NewClient(cfg), srv
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(envelope{Code: code, Message: message, Data: raw})
}

func TestClientSuccessDecodesData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rpc/v1/getAccruedYield", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		writeEnvelope(w, codeOK, "", map[string]any{
			"loanAccountId": "LOAN-1",
			"accruedYield":  "12.34",
		})
	})

	state, err := client.GetAccruedYield(context.Background(), "LOAN-1")
	require.NoError(t, err)
	assert.Equal(t, "LOAN-1", state.LoanAccountID)
	assert.Equal(t, "12.34", state.AccruedYield.String())
}

func TestClientClassifiesErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		kind ledger.ErrorKind
	}{
		{"not found", codeNotFound, ledger.KindNotFound},
		{"unavailable", codeUnavailable, ledger.KindUnavailable},
		{"unimplemented", codeUnimplemented, ledger.KindUnimplemented},
		{"invalid argument", codeInvalidArgument, ledger.KindInvalidArgument},
		{"failed precondition", codeFailedPrecondition, ledger.KindFailedPrecondition},
		{"unknown code", 99, ledger.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tt.code, "boom", nil)
			})

			_, err := client.GetECLAllowance(context.Background(), "LOAN-1")
			require.Error(t, err)
			assert.Equal(t, tt.kind, ledger.KindOf(err))
		})
	}
}

func TestClientErrorCodesDoNotRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, codeNotFound, "no such account", nil)
	})

	_, err := client.GetAccruedYield(context.Background(), "LOAN-404")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientRetriesTransportFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEnvelope(w, codeOK, "", map[string]any{"loanAccountId": "LOAN-1"})
	})

	_, err := client.GetAccruedYield(context.Background(), "LOAN-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientUnreachableClassifiesUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // server is down

	cfg := &config.LedgerConfig{
		BaseURL:      srv.URL,
		Timeout:      500 * time.Millisecond,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	}
	client := NewClient(cfg)

	_, err := client.GetPortfolioECL(context.Background())
	require.Error(t, err)
	assert.True(t, ledger.IsUnavailable(err))
}

func TestClientSignsRequests(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Billie-Timestamp"))
		sig := r.Header.Get("X-Billie-Signature")
		require.NotEmpty(t, sig)
		// HMAC-SHA256 in hex is 64 chars
		assert.Len(t, sig, 64)
		writeEnvelope(w, codeOK, "", nil)
	})

	err := client.call(context.Background(), "getPortfolioECL", struct{}{}, nil)
	require.NoError(t, err)
}

package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

func serveError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		h.HandleError(c, err)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return w
}

func TestHandleErrorMapsLedgerKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ledger.NewError(ledger.KindNotFound, "gone"), http.StatusNotFound},
		{"invalid argument", ledger.NewError(ledger.KindInvalidArgument, "bad"), http.StatusBadRequest},
		{"failed precondition", ledger.NewError(ledger.KindFailedPrecondition, "nope"), http.StatusUnprocessableEntity},
		{"unavailable", ledger.NewError(ledger.KindUnavailable, "down"), http.StatusServiceUnavailable},
		{"unimplemented", ledger.NewError(ledger.KindUnimplemented, "todo"), http.StatusNotImplemented},
		{"internal", ledger.NewError(ledger.KindInternal, "boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveError(tt.err).Code)
		})
	}
}

func TestHandleErrorMapsDomainCodes(t *testing.T) {
	w := serveError(shared.NewDomainError("INVALID_INPUT", "loanAccountId is required"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"loanAccountId is required"}`, w.Body.String())

	w = serveError(shared.ErrPeriodFinalized)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleErrorUnknownYields500WithDetails(t *testing.T) {
	w := serveError(errors.New("wire snapped"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "An unexpected error occurred", body["error"])
	assert.Equal(t, "wire snapped", body["details"])
}

func TestHandleErrorUnavailableBodyCarriesFallbackMarker(t *testing.T) {
	w := serveError(ledger.NewError(ledger.KindUnavailable, "down"))
	body := decodeBody(t, w)
	assert.Equal(t, true, body["_fallback"])
	assert.NotEmpty(t, body["error"])
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/application/periodclose"
	"github.com/billie-crm/backend/internal/domain/ledger"
)

type mockCloser struct {
	mock.Mock
}

func (m *mockCloser) PreviewPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClosePreview, error) {
	args := m.Called(ctx, periodDate)
	return args.Get(0).(ledger.PeriodClosePreview), args.Error(1)
}

func (m *mockCloser) AcknowledgeAnomaly(ctx context.Context, previewID, anomalyID, acknowledgedBy string) (ledger.PeriodClosePreview, error) {
	args := m.Called(ctx, previewID, anomalyID, acknowledgedBy)
	return args.Get(0).(ledger.PeriodClosePreview), args.Error(1)
}

func (m *mockCloser) FinalizePeriodClose(ctx context.Context, previewID, finalizedBy string) (ledger.PeriodClose, error) {
	args := m.Called(ctx, previewID, finalizedBy)
	return args.Get(0).(ledger.PeriodClose), args.Error(1)
}

func (m *mockCloser) GetClosedPeriods(ctx context.Context, limit int) (ledger.ClosedPeriods, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(ledger.ClosedPeriods), args.Error(1)
}

func (m *mockCloser) GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, error) {
	args := m.Called(ctx, periodDate)
	return args.Get(0).(ledger.PeriodClose), args.Error(1)
}

func newPeriodCloseRouter(closer *mockCloser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPeriodCloseHandler(periodclose.NewService(closer, zap.NewNop()), nil)
	r := gin.New()
	r.POST("/api/period-close/preview", h.Preview)
	r.POST("/api/period-close/acknowledge-anomaly", h.Acknowledge)
	r.POST("/api/period-close/finalize", h.Finalize)
	r.GET("/api/period-close/history", h.History)
	r.GET("/api/period-close/:periodDate", h.Get)
	r.GET("/api/period-close/:periodDate/report", h.Report)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestFinalizeMissingPreviewIDYields400WithoutBackendCall(t *testing.T) {
	closer := new(mockCloser)
	r := newPeriodCloseRouter(closer)

	w := postJSON(r, "/api/period-close/finalize", `{"finalizedBy":"u1"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	closer.AssertNotCalled(t, "FinalizePeriodClose", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizePassesJournalEntriesThrough(t *testing.T) {
	closer := new(mockCloser)
	closer.On("FinalizePeriodClose", mock.Anything, "p1", "u1").
		Return(ledger.PeriodClose{
			PeriodDate:  "2026-07-31",
			PreviewID:   "p1",
			FinalizedBy: "u1",
			JournalEntries: []ledger.JournalEntry{
				{EntryID: "JE-1", AccountCode: "4100", Debit: decimal.RequireFromString("120.50")},
				{EntryID: "JE-2", AccountCode: "1200", Credit: decimal.RequireFromString("120.50")},
			},
		}, nil)
	r := newPeriodCloseRouter(closer)

	w := postJSON(r, "/api/period-close/finalize", `{"previewId":"p1","finalizedBy":"u1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	entries, ok := body["journalEntries"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "JE-1", first["entryId"])
	assert.Equal(t, "120.5", first["debit"])
}

func TestFinalizeAlreadyFinalizedYields409(t *testing.T) {
	closer := new(mockCloser)
	closer.On("FinalizePeriodClose", mock.Anything, "p1", "u1").
		Return(ledger.PeriodClose{}, ledger.NewError(ledger.KindFailedPrecondition, "already finalized"))
	r := newPeriodCloseRouter(closer)

	w := postJSON(r, "/api/period-close/finalize", `{"previewId":"p1","finalizedBy":"u1"}`)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestHistoryUnimplementedYields200Empty(t *testing.T) {
	closer := new(mockCloser)
	closer.On("GetClosedPeriods", mock.Anything, mock.Anything).
		Return(ledger.ClosedPeriods{}, ledger.NewError(ledger.KindUnimplemented, "not built"))
	r := newPeriodCloseRouter(closer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/period-close/history", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, []any{}, body["periods"])
	assert.Nil(t, body["lastClosedPeriod"])
}

func TestGetPeriodNotFoundYields404(t *testing.T) {
	closer := new(mockCloser)
	closer.On("GetPeriodClose", mock.Anything, "2026-07-31").
		Return(ledger.PeriodClose{}, ledger.NewError(ledger.KindNotFound, "period not closed"))
	r := newPeriodCloseRouter(closer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/period-close/2026-07-31", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportWithoutRendererYields501(t *testing.T) {
	closer := new(mockCloser)
	r := newPeriodCloseRouter(closer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/period-close/2026-07-31/report", nil))

	require.Equal(t, http.StatusNotImplemented, w.Code)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

// Client is the typed gateway client. Reads flow through the query cache and
// may return stale values; mutations invalidate the key families they affect
// and never write guessed values into the cache.
type Client struct {
	baseURL string
	token   string
	userID  string
	httpc   *http.Client
	cache   *QueryCache
	poller  *Poller
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithToken sets the bearer token attached to every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithUserID sets the acting user recorded on mutating commands
func WithUserID(userID string) Option {
	return func(c *Client) { c.userID = userID }
}

// WithCache substitutes the query cache, for tests or shared caches
func WithCache(cache *QueryCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithPoller overrides the confirmation polling cadence
func WithPoller(poller *Poller) Option {
	return func(c *Client) { c.poller = poller }
}

// New creates a gateway client for the given base URL, which should include
// the /api prefix.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		cache:   NewQueryCache(),
		poller:  DefaultPoller(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the underlying query cache
func (c *Client) Cache() *QueryCache {
	return c.cache
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// cachedGet reads path through the cache under key. stale reports that the
// returned value outlived its staleness bound and a background refresh is
// underway.
func cachedGet[T any](ctx context.Context, c *Client, key QueryKey, path string) (T, bool, error) {
	var zero T
	value, stale, err := c.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		var out T
		if err := c.get(ctx, path, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return zero, false, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false, fmt.Errorf("cache entry for %q holds %T", key.Canonical(), value)
	}
	return typed, stale, nil
}

// GetAccruedYield returns the accrued-yield projection for an account. A
// zero-valued state with NotFound set means the ledger has not computed it.
func (c *Client) GetAccruedYield(ctx context.Context, loanAccountID string) (ledger.AccrualState, bool, error) {
	return cachedGet[ledger.AccrualState](ctx, c, AccrualQueryKey(loanAccountID), "/ledger/accrual/"+loanAccountID)
}

// GetECLAllowance returns the ECL projection for an account
func (c *Client) GetECLAllowance(ctx context.Context, loanAccountID string) (ledger.ECLAllowance, bool, error) {
	return cachedGet[ledger.ECLAllowance](ctx, c, ECLQueryKey(loanAccountID), "/ledger/ecl/"+loanAccountID)
}

// GetPortfolioECL returns the portfolio ECL summary; Fallback set on the
// result means the ledger was unreachable and zeros were served.
func (c *Client) GetPortfolioECL(ctx context.Context) (ledger.PortfolioECLSummary, bool, error) {
	return cachedGet[ledger.PortfolioECLSummary](ctx, c, PortfolioECLQueryKey(), "/ledger/ecl/portfolio")
}

// GetSchedule returns the repayment schedule with per-instalment status
func (c *Client) GetSchedule(ctx context.Context, loanAccountID string) (ledger.ScheduleWithStatus, bool, error) {
	return cachedGet[ledger.ScheduleWithStatus](ctx, c, ScheduleQueryKey(loanAccountID), "/ledger/schedule/"+loanAccountID)
}

// SearchAccounts searches loan accounts. A result with Fallback set means
// the ledger was unreachable; an empty hit list, not an error.
func (c *Client) SearchAccounts(ctx context.Context, query string, limit int) (ledger.SearchResult, bool, error) {
	path := "/investigation/search?q=" + url.QueryEscape(query)
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}
	return cachedGet[ledger.SearchResult](ctx, c, SearchQueryKey(query, limit), path)
}

// GetCloseHistory lists finalized periods
func (c *Client) GetCloseHistory(ctx context.Context) (ledger.ClosedPeriods, bool, error) {
	return cachedGet[ledger.ClosedPeriods](ctx, c, CloseHistoryQueryKey(), "/period-close/history")
}

// GetPeriodClose returns one finalized period
func (c *Client) GetPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClose, bool, error) {
	return cachedGet[ledger.PeriodClose](ctx, c, PeriodCloseQueryKey(periodDate), "/period-close/"+periodDate)
}

// GetSystemStatus returns the event-processing health read
func (c *Client) GetSystemStatus(ctx context.Context) (ledger.EventProcessingStatus, bool, error) {
	return cachedGet[ledger.EventProcessingStatus](ctx, c, SystemStatusQueryKey(), "/system/status")
}

// GetWriteOffRequest polls the write-off request projection. Never cached;
// this read exists to observe command effects.
func (c *Client) GetWriteOffRequest(ctx context.Context, requestID string) (ledger.WriteOffRequestStatus, error) {
	var status ledger.WriteOffRequestStatus
	err := c.get(ctx, "/write-off/requests/"+requestID, &status)
	return status, err
}

// PreviewPeriodClose generates a close preview for the given period
func (c *Client) PreviewPeriodClose(ctx context.Context, periodDate string) (ledger.PeriodClosePreview, error) {
	var preview ledger.PeriodClosePreview
	err := c.post(ctx, "/period-close/preview", map[string]string{"periodDate": periodDate}, &preview)
	return preview, err
}

// AcknowledgeAnomaly acknowledges a blocking preview anomaly
func (c *Client) AcknowledgeAnomaly(ctx context.Context, previewID, anomalyID string) (ledger.PeriodClosePreview, error) {
	var preview ledger.PeriodClosePreview
	err := c.post(ctx, "/period-close/acknowledge-anomaly", map[string]string{
		"previewId":      previewID,
		"anomalyId":      anomalyID,
		"acknowledgedBy": c.userID,
	}, &preview)
	return preview, err
}

// FinalizePeriodClose finalizes a previewed close. On success every cached
// period-close read is invalidated so the next read reflects the new period.
func (c *Client) FinalizePeriodClose(ctx context.Context, previewID string) (ledger.PeriodClose, error) {
	var closed ledger.PeriodClose
	err := c.post(ctx, "/period-close/finalize", map[string]string{
		"previewId":   previewID,
		"finalizedBy": c.userID,
	}, &closed)
	if err != nil {
		return closed, err
	}
	c.cache.Invalidate(QueryKey{"period-close"})
	return closed, nil
}

type acceptedResponse struct {
	CommandID string `json:"commandId"`
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

// CancelWriteOff submits the asynchronous cancel command and polls the
// request projection until it reflects the cancellation. The returned
// mutation carries the final stage; on ErrConfirmTimeout the command may
// still land and the caller should re-poll before retrying.
func (c *Client) CancelWriteOff(ctx context.Context, requestID, loanAccountID, reason string) (*PendingMutation, error) {
	key := GenerateIdempotencyKey(c.userID, "cancel-write-off")
	mutation := NewPendingMutation(requestID, "cancel-write-off", key)

	var accepted acceptedResponse
	err := c.post(ctx, "/write-off/cancel", map[string]string{
		"requestId":      requestID,
		"loanAccountId":  loanAccountID,
		"reason":         reason,
		"requestedBy":    c.userID,
		"idempotencyKey": key,
	}, &accepted)
	if err != nil {
		mutation.MarkFailed(err)
		return mutation, err
	}
	mutation.MarkSubmitted()

	err = c.poller.Poll(ctx, mutation, func(ctx context.Context) (bool, error) {
		status, err := c.GetWriteOffRequest(ctx, requestID)
		if err != nil {
			// A 404 right after submission means the projection has not
			// caught up yet; keep polling.
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return false, nil
			}
			return false, err
		}
		return strings.EqualFold(status.Status, "cancelled"), nil
	})
	if err != nil {
		return mutation, err
	}

	c.cache.Invalidate(WriteOffRequestQueryKey(requestID))
	return mutation, nil
}

// CancelPendingConfigChange cancels a scheduled ECL config change
func (c *Client) CancelPendingConfigChange(ctx context.Context, changeID string) (ledger.PendingConfigChange, error) {
	var change ledger.PendingConfigChange
	err := c.do(ctx, http.MethodDelete, "/ecl-config/pending/"+changeID, nil, &change)
	if err != nil {
		return change, err
	}
	c.cache.Invalidate(QueryKey{"ecl-config", changeID})
	return change, nil
}

// GetPendingConfigChange reads a scheduled ECL config change
func (c *Client) GetPendingConfigChange(ctx context.Context, changeID string) (ledger.PendingConfigChange, bool, error) {
	return cachedGet[ledger.PendingConfigChange](ctx, c, QueryKey{"ecl-config", changeID}, "/ecl-config/pending/"+changeID)
}

// GetExportStatus reads the state of an export job
func (c *Client) GetExportStatus(ctx context.Context, jobID string) (ledger.ExportJob, error) {
	var job ledger.ExportJob
	err := c.get(ctx, "/export/jobs/"+jobID, &job)
	return job, err
}

// RetryExport retries a failed export job
func (c *Client) RetryExport(ctx context.Context, jobID string) (ledger.ExportJob, error) {
	var job ledger.ExportJob
	err := c.post(ctx, "/export/jobs/"+jobID+"/retry", nil, &job)
	return job, err
}

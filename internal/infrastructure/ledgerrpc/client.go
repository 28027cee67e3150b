// Package ledgerrpc implements the RPC client for the external
// AccountingLedgerService. The transport is JSON over HTTP; every response
// carries an envelope with a numeric status code which is mapped onto the
// closed ledger.ErrorKind enum before anything else sees it.
package ledgerrpc

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/infrastructure/config"
)

// RPC status codes reported by the ledger service
const (
	codeOK                 = 0
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeUnimplemented      = 12
	codeUnavailable        = 14
)

// envelope is the wire format of every ledger RPC response
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client calls the AccountingLedgerService over HTTP
type Client struct {
	baseURL       string
	signingSecret string
	maxRetries    int
	retryBackoff  time.Duration
	httpClient    *http.Client
	logger        *zap.Logger
}

// Option is a functional option for Client
type Option func(*Client)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient overrides the underlying HTTP client (used in tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a ledger RPC client from configuration
func NewClient(cfg *config.LedgerConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:       cfg.BaseURL,
		signingSecret: cfg.SigningSecret,
		maxRetries:    cfg.MaxRetries,
		retryBackoff:  cfg.RetryBackoff,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs a single RPC method invocation. Transport failures retry up
// to maxRetries before classifying as UNAVAILABLE; application-level codes
// never retry.
func (c *Client) call(ctx context.Context, method string, req any, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return ledger.NewError(ledger.KindInternal, fmt.Sprintf("encode %s request: %v", method, err))
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ledger.NewError(ledger.KindUnavailable, ctx.Err().Error())
			case <-time.After(c.retryBackoff * time.Duration(attempt)):
			}
		}

		env, err := c.doRequest(ctx, method, body)
		if err != nil {
			lastErr = err
			c.logger.Warn("ledger rpc transport failure",
				zap.String("method", method),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		if env.Code != codeOK {
			return classify(env.Code, env.Message)
		}
		if out == nil || len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return ledger.NewError(ledger.KindInternal, fmt.Sprintf("decode %s response: %v", method, err))
		}
		return nil
	}

	return ledger.NewError(ledger.KindUnavailable, fmt.Sprintf("%s: ledger unreachable: %v", method, lastErr))
}

// doRequest executes one HTTP round trip and decodes the envelope
func (c *Client) doRequest(ctx context.Context, method string, body []byte) (*envelope, error) {
	url := fmt.Sprintf("%s/rpc/v1/%s", c.baseURL, method)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.sign(httpReq, method, body)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 5xx from the RPC host (load balancer, dead upstream) is a transport
	// failure; the envelope codes carry application-level status.
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("ledger responded %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	return &env, nil
}

// sign adds HMAC-SHA256 request authentication headers
func (c *Client) sign(req *http.Request, method string, body []byte) {
	if c.signingSecret == "" {
		return
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(c.signingSecret))
	mac.Write([]byte(method))
	mac.Write([]byte("\n"))
	mac.Write([]byte(ts))
	mac.Write([]byte("\n"))
	mac.Write(body)

	req.Header.Set("X-Billie-Timestamp", ts)
	req.Header.Set("X-Billie-Signature", hex.EncodeToString(mac.Sum(nil)))
}

// classify maps an RPC status code onto the closed error enum
func classify(code int, message string) *ledger.Error {
	switch code {
	case codeInvalidArgument:
		return ledger.NewError(ledger.KindInvalidArgument, message)
	case codeNotFound:
		return ledger.NewError(ledger.KindNotFound, message)
	case codeFailedPrecondition:
		return ledger.NewError(ledger.KindFailedPrecondition, message)
	case codeUnimplemented:
		return ledger.NewError(ledger.KindUnimplemented, message)
	case codeUnavailable:
		return ledger.NewError(ledger.KindUnavailable, message)
	default:
		return ledger.NewError(ledger.KindInternal, message)
	}
}

// Ensure Client implements the domain interface
var _ ledger.Client = (*Client)(nil)

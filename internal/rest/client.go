package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"

	"dnse-connect/common"
	"dnse-connect/internal/auth"
)

// Client executes DNSE REST calls with authentication injection, 401-triggered
// re-login and bounded retry with exponential backoff.
type Client struct {
	base      string
	accountNo string
	session   *auth.Session
	httpc     *http.Client
	log       *zap.Logger

	maxAttempts int
	retryBase   time.Duration
}

// ClientConfig configures a REST client.
type ClientConfig struct {
	BaseURL     string
	AccountNo   string
	Session     *auth.Session
	HTTPClient  *http.Client
	Logger      *zap.Logger
	MaxAttempts int
	RetryBase   time.Duration
}

// NewClient creates a REST client over an auth session.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = common.APIBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = common.MaxAttempts
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = common.RetryBaseDelay
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: common.HTTPTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:        cfg.BaseURL,
		accountNo:   cfg.AccountNo,
		session:     cfg.Session,
		httpc:       httpc,
		log:         log,
		maxAttempts: cfg.MaxAttempts,
		retryBase:   cfg.RetryBase,
	}
}

// AccountNo returns the configured trading sub-account number.
func (c *Client) AccountNo() string { return c.accountNo }

// Session exposes the underlying auth session.
func (c *Client) Session() *auth.Session { return c.session }

// Do executes one logical request. It ensures the required token layer before
// the first attempt, retries transport errors and non-200 responses with
// exponential backoff, and answers a 401 with a forced re-login followed by an
// immediate retry. A 401 retry skips the backoff sleep but still consumes an
// attempt, so a token the server keeps rejecting cannot loop forever.
func (c *Client) Do(ctx context.Context, method, rawurl string, body any, query url.Values, needTrading bool) (json.RawMessage, error) {
	return c.do(ctx, method, rawurl, body, query, needTrading, nil)
}

func (c *Client) do(ctx context.Context, method, rawurl string, body any, query url.Values, needTrading bool, extra http.Header) (json.RawMessage, error) {
	if needTrading {
		if err := c.session.EnsureSecondary(ctx); err != nil {
			return nil, err
		}
	} else {
		if err := c.session.EnsurePrimary(ctx); err != nil {
			return nil, err
		}
	}

	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawurl, "?") {
			sep = "&"
		}
		rawurl += sep + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	headers := c.session.BuildHeaders(needTrading)
	delay := &backoff.Backoff{Min: c.retryBase, Max: 30 * time.Second, Factor: 2}

	var lastStatus int
	var lastBody string
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawurl, reader)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header[k] = v
		}
		for k, v := range extra {
			req.Header[k] = v
		}

		c.log.Debug("request",
			zap.String("method", method),
			zap.String("url", rawurl),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.maxAttempts),
		)

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("request error", zap.Error(err))
			if attempt < c.maxAttempts-1 {
				if err := sleep(ctx, delay.Duration()); err != nil {
					return nil, err
				}
			}
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if len(respBody) == 0 {
				return json.RawMessage("{}"), nil
			}
			return json.RawMessage(respBody), nil

		case resp.StatusCode == http.StatusUnauthorized:
			lastStatus = resp.StatusCode
			lastBody = string(respBody)
			lastErr = nil
			if attempt < c.maxAttempts-1 {
				// Stale JWT: re-login and rebuild headers, no backoff.
				c.log.Warn("token rejected, re-authenticating")
				if err := c.session.Login(ctx); err != nil {
					return nil, err
				}
				headers = c.session.BuildHeaders(needTrading)
			}

		default:
			lastStatus = resp.StatusCode
			lastBody = string(respBody)
			lastErr = nil
			c.log.Warn("request failed",
				zap.Int("status", resp.StatusCode),
				zap.String("body", lastBody),
			)
			if attempt < c.maxAttempts-1 {
				if err := sleep(ctx, delay.Duration()); err != nil {
					return nil, err
				}
			}
		}
	}

	return nil, &RequestError{
		Method:   method,
		URL:      rawurl,
		Attempts: c.maxAttempts,
		Status:   lastStatus,
		Body:     lastBody,
		Err:      lastErr,
	}
}

// sleep blocks for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package client talks to the biz API on behalf of the console views.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/biz/internal/domain/types"
	"github.com/okian/biz/internal/i18n"
)

const (
	healthPath   = "/api/health"
	maxBodyBytes = 1 << 20
)

// Client issues GET requests against one biz base URL. It never retries.
type Client struct {
	base *url.URL
	http *http.Client
	loc  *i18n.Localizer
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the http.Client. Install one with a Timeout to
// bound requests; the default has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLocalizer sets the language of fallback error messages.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(c *Client) {
		if l != nil {
			c.loc = l
		}
	}
}

// New returns a Client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{},
		loc:  i18n.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func ok(status int) bool { return status >= 200 && status < 300 }

// FetchHealth fetches GET /api/health. Any non-2xx status yields
// ErrHealthStatus and no body.
func (c *Client) FetchHealth(ctx context.Context) (*types.HealthStatus, error) {
	status, body, err := c.get(ctx, healthPath)
	if err != nil {
		return nil, fmt.Errorf("fetch health: %w", err)
	}
	if !ok(status) {
		return nil, ErrHealthStatus
	}
	var hs types.HealthStatus
	if err := json.Unmarshal(body, &hs); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &hs, nil
}

// RunTest calls the endpoint for kind and folds every result, including
// transport failures, into a TestOutcome.
func (c *Client) RunTest(ctx context.Context, kind types.TestKind) types.TestOutcome {
	if !kind.Valid() {
		return c.networkFailure(fmt.Errorf("%w: %q", types.ErrUnknownKind, kind))
	}

	status, body, err := c.get(ctx, kind.Path())
	if err != nil {
		return c.networkFailure(err)
	}
	if !json.Valid(body) {
		return c.networkFailure(fmt.Errorf("invalid JSON response (status %d)", status))
	}
	if ok(status) {
		return types.TestOutcome{Success: true, Data: json.RawMessage(body)}
	}

	var eb types.ErrorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.Error
	if msg == "" {
		msg = c.loc.T(failedKey(kind))
	}
	return types.TestOutcome{Success: false, Error: msg}
}

func (c *Client) networkFailure(err error) types.TestOutcome {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		msg = uerr.Err.Error()
	}
	if msg == "" {
		msg = c.loc.T(i18n.NetworkError)
	}
	return types.TestOutcome{Success: false, Error: msg}
}

func failedKey(kind types.TestKind) string {
	switch kind {
	case types.KindRedis:
		return i18n.RedisTestFailed
	case types.KindMySQL:
		return i18n.MySQLTestFailed
	default:
		return i18n.AllTestFailed
	}
}

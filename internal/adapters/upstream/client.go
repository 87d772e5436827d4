// Package upstream implements the HTTP client for the chess server's
// tournament metadata endpoint and NDJSON game feed.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/gambit/internal/domain/model"
	"github.com/okian/gambit/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout = 10 * time.Second

	endpointMeta  = "meta"
	endpointGames = "games"
)

// gamesQuery asks the feed for evaluation, accuracy and move data.
const gamesQuery = "evals=true&accuracy=true&moves=true"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the upstream API root, e.g. "https://lichess.org".
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.base = base
		}
	}
}

// WithTimeout bounds each outbound call, stream included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// Client fetches tournament data from the chess server. Every call carries a
// deadline; on expiry the in-flight request is cancelled and the error
// surfaces as ErrTimeout rather than hanging.
type Client struct {
	base    string
	timeout time.Duration
	hc      *http.Client
}

// New creates a client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		base:    "https://lichess.org",
		timeout: defaultTimeout,
		hc:      &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tournament fetches the metadata document for one tournament.
func (c *Client) Tournament(ctx context.Context, kind Kind, id string) (*model.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.get(ctx, kind.metaPath(id), "", "application/json")
	metrics.RecordUpstreamRequestDuration(endpointMeta, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var t model.Tournament
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode metadata: %w", ErrUpstream, err)
	}
	return &t, nil
}

// Games opens the NDJSON game feed for one tournament. The returned stream
// stays bounded by the call deadline; closing it releases the deadline and
// the connection. Reads past the deadline fail with context.DeadlineExceeded.
func (c *Client) Games(ctx context.Context, kind Kind, id string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	start := time.Now()
	resp, err := c.get(ctx, kind.gamesPath(id), gamesQuery, "application/x-ndjson")
	metrics.RecordUpstreamRequestDuration(endpointGames, float64(time.Since(start).Milliseconds()))
	if err != nil {
		cancel()
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		_ = resp.Body.Close()
		cancel()
		return nil, err
	}
	return &gamesBody{rc: resp.Body, cancel: cancel}, nil
}

func (c *Client) get(ctx context.Context, path, query, accept string) (*http.Response, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %w", ErrUpstream, err)
	}
	u.Path = path
	u.RawQuery = query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.RecordUpstreamError("timeout")
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		metrics.RecordUpstreamError("transport")
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordUpstreamError("not_found")
		return ErrNotFound
	default:
		metrics.RecordUpstreamError("status")
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
}

// gamesBody ties the response body to its deadline cancellation.
type gamesBody struct {
	rc     io.ReadCloser
	cancel context.CancelFunc
}

func (b *gamesBody) Read(p []byte) (int, error) {
	return b.rc.Read(p)
}

func (b *gamesBody) Close() error {
	err := b.rc.Close()
	b.cancel()
	return err
}

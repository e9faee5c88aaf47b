package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/adamwoolhether/netmanager/client/dispatch"
	"github.com/adamwoolhether/netmanager/client/throttle"
	"github.com/adamwoolhether/netmanager/client/tracing"
)

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

// Client issues requests against a single base URL.
// The base URL and timeout may be changed with [Client.Configure];
// everything else is fixed at [Build].
type Client struct {
	c      *http.Client
	logger *slog.Logger
	codec  Codec
	queue  *dispatch.Queue

	mu  sync.RWMutex
	cfg Config
}

// Build creates a Client for baseURL. Trailing slashes are stripped.
func Build(baseURL string, optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	cfg := Config{BaseURL: baseURL, Timeout: defaultTimeout}
	if opts.timeout != nil {
		cfg.Timeout = *opts.timeout
	}
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
		codec:  JSONCodec{UseNumber: opts.useJSONNumber},
		queue:  dispatch.New(opts.maxInFlight),
		cfg:    cfg,
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.codec != nil {
		client.codec = opts.codec
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	if opts.tracerProvider != nil || opts.requestIDHeader != "" {
		var tracingOpts []tracing.Option
		if opts.requestIDHeader != "" {
			tracingOpts = append(tracingOpts, tracing.WithRequestID(opts.requestIDHeader))
		}
		transport = tracing.NewRoundTripper(opts.tracerProvider, transport, tracingOpts...)
	}
	client.c.Transport = transport

	return client, nil
}

// Configure overwrites the base URL and timeout. Requests already in
// flight keep the values they started with.
func (c *Client) Configure(baseURL string, timeout time.Duration) error {
	cfg := Config{BaseURL: baseURL, Timeout: timeout}.normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	return nil
}

// BaseURL returns the current base URL, without a trailing slash.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.BaseURL
}

// Timeout returns the current per-request timeout.
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.Timeout
}

// BuildURL joins path and query onto the base URL. Leading and trailing
// slashes are trimmed from path and question marks from query; each is
// appended only when something is left after trimming.
func (c *Client) BuildURL(path, query string) string {
	target := c.BaseURL()

	if p := strings.Trim(path, "/"); p != "" {
		target += "/" + p
	}

	if q := strings.Trim(query, "?"); q != "" {
		target += "?" + q
	}

	return target
}

// Wait blocks until every async request and download dispatched by
// this client has finished. It returns the transport and download
// failures among them, joined.
func (c *Client) Wait() error {
	return c.queue.Wait()
}

// Shutdown rejects async work dispatched from now on. Work already
// dispatched still runs.
func (c *Client) Shutdown() {
	c.queue.Shutdown()
}

// exec runs one request and hands the response to fn. Transport
// failures come back as *TransportError. The response body is always
// closed, and drained first when fn succeeds.
func (c *Client) exec(ctx context.Context, method, target string, payload []byte, fn execFn) error {
	if timeout := c.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("instantiating request: %w", err)}
	}

	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	c.logger.Debug("request started", "method", method, "url", redactURL(req.URL))

	resp, err := c.c.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Debug("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	c.logger.Debug("request completed", "method", method, "url", redactURL(req.URL), "statusCode", resp.StatusCode)

	if err := fn(resp); err != nil {
		discardBody = false
		return err
	}

	return nil
}

// redactURL renders u for logs with the password and every query value
// masked.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	cpy := *u
	if cpy.RawQuery != "" {
		q := cpy.Query()
		for k := range q {
			q[k] = []string{"xxxxx"}
		}
		cpy.RawQuery = q.Encode()
	}

	return cpy.Redacted()
}

// redactTarget is redactURL for a URL still in string form.
func redactTarget(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "invalid url"
	}

	return redactURL(u)
}

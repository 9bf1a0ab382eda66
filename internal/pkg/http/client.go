package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	nrpkg "github.com/piresc/nebengjek-driver/internal/pkg/newrelic"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

const (
	// DefaultTimeout for every request
	DefaultTimeout = 10 * time.Second
	// SkipBrowserWarningHeader makes tunnelling proxies (ngrok) return the
	// API response instead of their interstitial page
	SkipBrowserWarningHeader = "ngrok-skip-browser-warning"
	// RequestIDHeader carries the per-call correlation id
	RequestIDHeader = "X-Request-ID"

	maxDetailBytes = 256
)

// Config describes the shared transport
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Headers are merged over the default header set
	Headers map[string]string
	// Interceptors run in order on every outbound request; nil means DefaultInterceptors
	Interceptors []RequestInterceptor
	// Reporters observe every classified failure; nil means DefaultReporters
	Reporters []ErrorReporter
}

// Response is a successful (2xx) response with its body read in full
type Response struct {
	StatusCode int
	Header     nethttp.Header
	Body       []byte
}

// Client is the single transport shared by every driver session.
// It is immutable after NewClient and safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *nethttp.Client
	headers      nethttp.Header
	interceptors []RequestInterceptor
	reporters    []ErrorReporter
}

// NewClient creates a new HTTP client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	headers := nethttp.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set(SkipBrowserWarningHeader, "true")
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	interceptors := cfg.Interceptors
	if interceptors == nil {
		interceptors = DefaultInterceptors()
	}
	reporters := cfg.Reporters
	if reporters == nil {
		reporters = DefaultReporters()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &nethttp.Client{
			Timeout: timeout,
		},
		headers:      headers,
		interceptors: append([]RequestInterceptor(nil), interceptors...),
		reporters:    append([]ErrorReporter(nil), reporters...),
	}
}

// BaseURL returns the configured base endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Post sends body as JSON with POST
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, endpoint, body)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, endpoint string) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, endpoint, nil)
}

// Do sends one request through the interceptor pipeline. A nil error means
// a 2xx response; any other outcome is a *syncerr.SyncError that has
// already been handed to every reporter.
func (c *Client) Do(ctx context.Context, method, endpoint string, body interface{}) (*Response, error) {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(ctx, nil, &syncerr.SyncError{
				Kind:   syncerr.KindInvalidState,
				Detail: "failed to marshal body",
				Err:    err,
			})
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, c.fail(ctx, nil, syncerr.Unreachable(err))
	}
	req.Header = c.headers.Clone()

	for _, intercept := range c.interceptors {
		intercept(req)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, c.fail(ctx, req, classifyTransportError(ctx, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, req, classifyTransportError(ctx, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(ctx, req, syncerr.HTTPStatus(resp.StatusCode, detail(respBody)))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// fail hands err to every reporter and returns it
func (c *Client) fail(ctx context.Context, req *nethttp.Request, err *syncerr.SyncError) error {
	for _, report := range c.reporters {
		report(ctx, req, err)
	}
	return err
}

func detail(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxDetailBytes {
		return s[:maxDetailBytes] + "..."
	}
	return s
}

// Package session holds the cookie-bearing HTTP session shared by every step of a run.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	// DefaultTimeout bounds every request issued through a Client.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	ctxPath     = "path"
	ctxStart    = "start"
	ctxResponse = "response"
)

var successStatuses = map[int]struct{}{
	http.StatusOK:               {},
	http.StatusCreated:          {},
	http.StatusMovedPermanently: {},
	http.StatusFound:            {},
}

// IsSuccess reports whether status means "proceed" for the vendor site.
func IsSuccess(status int) bool {
	_, ok := successStatuses[status]
	return ok
}

// Response is the status and body of one exchange.
type Response struct {
	StatusCode int
	Body       []byte
	URL        string
}

// Sender issues requests against the configured site.
type Sender interface {
	Send(ctx context.Context, method, path string, header http.Header, body io.Reader) (*Response, error)
	Authenticated() bool
}

// RequireAuth fails with ErrNotAuthenticated until login has succeeded on s.
func RequireAuth(s Sender) error {
	if s == nil || !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Get issues a GET for path.
func Get(ctx context.Context, s Sender, path string, header http.Header) (*Response, error) {
	return s.Send(ctx, http.MethodGet, path, header, nil)
}

// PostForm issues a form-encoded POST for path.
func PostForm(ctx context.Context, s Sender, path string, header http.Header, form url.Values) (*Response, error) {
	hdr := header.Clone()
	if hdr == nil {
		hdr = http.Header{}
	}
	hdr.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.Send(ctx, http.MethodPost, path, hdr, strings.NewReader(form.Encode()))
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.headers.Set("User-Agent", ua)
		}
	}
}

// WithTransport replaces the network transport, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithMetrics records request metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.Metrics = m
	}
}

// Client is a single-threaded session against one site. It keeps cookies
// between calls and applies default headers to every request.
type Client struct {
	baseURL   *url.URL
	collector *colly.Collector
	headers   http.Header
	timeout   time.Duration
	transport http.RoundTripper
	Metrics   *Metrics

	authenticated bool
}

// New builds a session for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	c := &Client{
		baseURL: parsed,
		headers: http.Header{
			"User-Agent":      []string{DefaultUserAgent},
			"Accept-Language": []string{"en-US,en;q=0.9"},
		},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.UserAgent(c.headers.Get("User-Agent")),
	)
	collector.SetRequestTimeout(c.timeout)
	if c.transport != nil {
		collector.WithTransport(c.transport)
	} else {
		collector.WithTransport(&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   c.timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		})
	}
	c.collector = collector
	c.configureHandlers()
	return c, nil
}

func (c *Client) configureHandlers() {
	c.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put(ctxStart, time.Now())
		c.Metrics.IncRequest(r.Ctx.Get(ctxPath))
		slog.Debug("session request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
		)
	})

	c.collector.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxResponse, r)
		if start, ok := r.Ctx.GetAny(ctxStart).(time.Time); ok {
			c.Metrics.ObserveDuration(time.Since(start))
		}
		slog.Debug("session response",
			slog.Int("status", r.StatusCode),
			slog.String("url", r.Request.URL.String()),
			slog.Int("bytes", len(r.Body)),
		)
	})

	c.collector.OnError(func(r *colly.Response, err error) {
		category := ErrorTypeLabel(classifyError(err))
		c.Metrics.IncError(category)
		u := ""
		if r != nil && r.Request != nil && r.Request.URL != nil {
			u = r.Request.URL.String()
		}
		slog.Debug("session transport error",
			slog.String("url", u),
			slog.String("category", category),
			slog.Any("error", err),
		)
	})
}

// Send issues one request and returns its status and body. Non-success
// statuses are returned as responses; only transport failures are errors.
func (c *Client) Send(ctx context.Context, method, path string, header http.Header, body io.Reader) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: classifyError(err)}
	}

	reqCtx := colly.NewContext()
	reqCtx.Put(ctxPath, path)
	if err := c.collector.Request(method, c.resolve(path), body, reqCtx, c.mergeHeaders(header)); err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: classifyError(err)}
	}

	resp, ok := reqCtx.GetAny(ctxResponse).(*colly.Response)
	if !ok || resp == nil {
		return nil, &TransportError{Method: method, Path: path, Err: errors.New("no response received")}
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		URL:        resp.Request.URL.String(),
	}, nil
}

// Authenticated reports whether login succeeded on this session.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// SetAuthenticated records the login outcome.
func (c *Client) SetAuthenticated(ok bool) {
	c.authenticated = ok
}

// Cookies returns the cookies the session would send to the site root.
func (c *Client) Cookies() []*http.Cookie {
	return c.collector.Cookies(c.baseURL.String())
}

func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return strings.TrimSuffix(c.baseURL.String(), "/") + "/" + strings.TrimPrefix(path, "/")
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *Client) mergeHeaders(header http.Header) http.Header {
	merged := c.headers.Clone()
	for k, vals := range header {
		merged.Del(k)
		for _, v := range vals {
			merged.Add(k, v)
		}
	}
	return merged
}

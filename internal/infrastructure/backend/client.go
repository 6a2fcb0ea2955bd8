// Package backend is the HTTP side of workboard: it owns the connection to
// the marketplace backend, the per-principal session manager, and the
// gateways that translate domain calls into backend requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/net/publicsuffix"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
	"github.com/freelancehub/workboard/internal/infrastructure/metrics"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20

	tokenPath = "/api/token"
)

var errMissingAccessToken = errors.New("renewal response has no access token")

// BreakerConfig tunes the circuit breaker in front of the backend. Only
// transport failures count; HTTP error statuses never trip it.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// Config captures the settings for talking to the backend.
type Config struct {
	BaseURL string
	// Timeout bounds every request, including reading the body.
	// Defaults to 30s.
	Timeout time.Duration
	// ExplicitIntent adds an "action" field to lifecycle PATCH bodies instead
	// of letting the backend infer intent from the body shape.
	ExplicitIntent bool
	Breaker        BreakerConfig
	// Transport overrides the HTTP transport. Nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Backend holds what every client of one backend shares: the base URL, the
// connection pool and the circuit breaker.
type Backend struct {
	base           *url.URL
	timeout        time.Duration
	transport      http.RoundTripper
	breaker        *gobreaker.CircuitBreaker
	explicitIntent bool
	log            zerolog.Logger
}

// New validates cfg and builds a Backend.
func New(cfg Config, log zerolog.Logger) (*Backend, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	b := &Backend{
		base:           base,
		timeout:        timeout,
		transport:      transport,
		explicitIntent: cfg.ExplicitIntent,
		log:            log.With().Str("component", "backend").Logger(),
	}
	b.breaker = gobreaker.NewCircuitBreaker(breakerSettings(cfg.Breaker, b.log))
	return b, nil
}

func breakerSettings(cfg BreakerConfig, log zerolog.Logger) gobreaker.Settings {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	return gobreaker.Settings{
		Name:        "marketplace-backend",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= ratio
		},
		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
}

// NewClient returns a client with its own cookie jar. The jar is where the
// backend's long-lived renewal credential lives, so each principal needs a
// client of its own.
func (b *Backend) NewClient() (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("backend: cookie jar: %w", err)
	}
	return &Client{
		backend: b,
		http: &http.Client{
			Timeout:   b.timeout,
			Transport: b.transport,
			Jar:       jar,
		},
	}, nil
}

// RestoreClient returns a client whose jar starts with the cookies held in
// store. Whenever the backend changes a cookie the jar is written back, so a
// client rebuilt later from the same store can still renew.
func (b *Backend) RestoreClient(ctx context.Context, store ports.CookieStore) (*Client, error) {
	c, err := b.NewClient()
	if err != nil {
		return nil, err
	}
	cookies, err := store.LoadCookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend: restore cookies: %w", err)
	}
	if len(cookies) > 0 {
		restored := make([]*http.Cookie, len(cookies))
		for i, ck := range cookies {
			restored[i] = &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"}
		}
		c.http.Jar.SetCookies(b.cookieURL(), restored)
	}
	c.cookies = store
	c.savedCookies = cookieFingerprint(cookies)
	return c, nil
}

// cookieURL is where the renewal credential is sent; the jar is snapshotted
// and restored against it.
func (b *Backend) cookieURL() *url.URL {
	return b.base.JoinPath(tokenPath)
}

// Client sends requests to the backend without a bearer credential. The
// session manager layers authentication on top of it.
type Client struct {
	backend *Backend
	http    *http.Client

	// cookies is nil for clients that are not persisted.
	cookies      ports.CookieStore
	cookieMu     sync.Mutex
	savedCookies string
}

// Do sends req unauthenticated. Non-2xx responses are returned as *domain.APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	p, err := c.prepare(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.dispatch(ctx, p, "")
	if err != nil {
		return nil, err
	}
	return finish(resp)
}

// Renew exchanges the cookie-held credential for a new access token.
func (c *Client) Renew(ctx context.Context) (string, error) {
	p, err := c.prepare(Request{Method: http.MethodPatch, Path: tokenPath})
	if err != nil {
		return "", err
	}
	resp, err := c.dispatch(ctx, p, "")
	if err != nil {
		return "", err
	}
	if _, err := finish(resp); err != nil {
		return "", err
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", errMissingAccessToken
	}
	return out.Access, nil
}

// prepared is a request with its body already encoded so it can be sent
// more than once.
type prepared struct {
	method string
	path   string
	url    string
	header http.Header
	body   []byte
}

func (c *Client) prepare(req Request) (*prepared, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.backend.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Accept", "application/json")

	var body []byte
	switch {
	case req.Raw != nil:
		body = req.Raw
		header.Set("Content-Type", req.ContentType)
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, req.Path, err)
		}
		body = b
		header.Set("Content-Type", "application/json")
	}

	return &prepared{method: method, path: req.Path, url: u.String(), header: header, body: body}, nil
}

// dispatch sends p once. token, when non-empty, is attached as a bearer
// credential. Only transport-level problems are returned as errors.
func (c *Client) dispatch(ctx context.Context, p *prepared, token string) (*Response, error) {
	start := time.Now()
	out, err := c.backend.breaker.Execute(func() (interface{}, error) {
		var body io.Reader
		if p.body != nil {
			body = bytes.NewReader(p.body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
		if err != nil {
			return nil, err
		}
		httpReq.Header = p.header.Clone()
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
	})
	metrics.BackendRequestDuration.WithLabelValues(p.method).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(p.method, "transport_error").Inc()
		c.backend.log.Debug().Err(err).Str("method", p.method).Str("path", p.path).Msg("backend request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, p.method, p.path, err)
	}

	resp := out.(*Response)
	metrics.BackendRequestsTotal.WithLabelValues(p.method, statusClass(resp.StatusCode)).Inc()
	if len(resp.Header.Values("Set-Cookie")) > 0 {
		c.persistCookies(ctx)
	}
	return resp, nil
}

// persistCookies writes the jar back to the cookie store when it differs
// from what was last saved. Failures are logged; the live jar still works.
func (c *Client) persistCookies(ctx context.Context) {
	if c.cookies == nil {
		return
	}
	c.cookieMu.Lock()
	defer c.cookieMu.Unlock()

	current := c.http.Jar.Cookies(c.backend.cookieURL())
	fp := cookieFingerprint(current)
	if fp == c.savedCookies {
		return
	}
	if err := c.cookies.SaveCookies(context.WithoutCancel(ctx), current); err != nil {
		c.backend.log.Warn().Err(err).Msg("failed to persist backend cookies")
		return
	}
	c.savedCookies = fp
}

func cookieFingerprint(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "; ")
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Ready reports ErrTransport while the circuit breaker is open.
func (b *Backend) Ready() error {
	if b.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit breaker open", domain.ErrTransport)
	}
	return nil
}

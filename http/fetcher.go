// Package http provides an HTTP-based implementation of comprof.Fetcher
// for fetching public profile pages that don't require JavaScript
// rendering.
package http

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/comprof"
)

// Ensure Fetcher implements comprof.Fetcher at compile time.
var _ comprof.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page content over HTTP, routing each request through
// the proxy endpoint the coordinator assigned to it. Clients are cached
// per proxy so connection pools persist across requests. Fetcher is safe
// for concurrent use.
type Fetcher struct {
	timeout   time.Duration
	userAgent string

	mu      sync.Mutex
	clients map[string]*http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to comprof.DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   comprof.DefaultFetchTimeout,
		userAgent: comprof.DefaultUserAgent,
		clients:   make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// client returns the cached client for the proxy endpoint, creating it on
// first use. An empty proxyURL means a direct connection.
func (f *Fetcher) client(proxyURL string) (*http.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[proxyURL]; ok {
		return c, nil
	}

	c := &http.Client{Timeout: f.timeout}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil || u.Host == "" {
			return nil, comprof.Errorf(comprof.EINVALID, "invalid proxy URL %q", proxyURL)
		}
		c.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	}

	f.clients[proxyURL] = c
	return c, nil
}

// Fetch retrieves the page at locator through the given proxy. Failures
// are reported as *comprof.FetchError so callers can classify them for
// retry and proxy-rotation decisions.
func (f *Fetcher) Fetch(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
	client, err := f.client(proxyURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, comprof.Errorf(comprof.EINVALID, "invalid locator %q: %v", locator, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &comprof.FetchError{
			Kind:    comprof.FetchHTTPStatus,
			Locator: locator,
			Status:  resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(locator, err)
	}

	content := string(body)
	return &comprof.RawPage{
		Body:        content,
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		FetchedAt:   time.Now().UTC(),
		ContentHash: hashContent(content),
	}, nil
}

// Close releases resources. Idle connections in the cached clients are
// shut down.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		c.CloseIdleConnections()
	}
	return nil
}

// classify maps a transport error to the fetch error taxonomy: timeouts
// become timeout failures, everything else a network failure.
func classify(locator string, err error) *comprof.FetchError {
	kind := comprof.FetchNetwork

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		kind = comprof.FetchTimeout
	} else if errors.Is(err, context.DeadlineExceeded) {
		kind = comprof.FetchTimeout
	}

	return &comprof.FetchError{Kind: kind, Locator: locator, Err: err}
}

// hashContent computes xxHash of content and returns it hex encoded.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

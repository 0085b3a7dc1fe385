// Package rod provides a browser-automation implementation of
// comprof.Fetcher for profile pages that require JavaScript rendering.
package rod

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/comprof"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements comprof.Fetcher at compile time.
var _ comprof.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome. One browser is
// launched lazily per proxy endpoint, since a Chrome instance carries its
// proxy configuration for its whole lifetime. Fetcher is safe for
// concurrent use; Close must be called when it is no longer needed.
type Fetcher struct {
	mu       sync.Mutex
	browsers map[string]*browserHandle
}

type browserHandle struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewFetcher creates a new browser-based Fetcher. No browser is launched
// until the first fetch.
func NewFetcher() *Fetcher {
	return &Fetcher{browsers: make(map[string]*browserHandle)}
}

// browser returns the browser bound to the proxy endpoint, launching it on
// first use. An empty proxyURL means a direct connection.
func (f *Fetcher) browser(proxyURL string) (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if h, ok := f.browsers[proxyURL]; ok {
		return h.browser, nil
	}

	l := launcher.New().Headless(true)
	if proxyURL != "" {
		l = l.Proxy(proxyURL)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, &comprof.FetchError{Kind: comprof.FetchNetwork, Err: err}
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, &comprof.FetchError{Kind: comprof.FetchNetwork, Err: err}
	}

	f.browsers[proxyURL] = &browserHandle{browser: browser, launcher: l}
	return browser, nil
}

// Fetch navigates to the locator and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(locator, err)
	}

	browser, err := f.browser(proxyURL)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, classify(locator, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(locator); err != nil {
		return nil, classify(locator, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, classify(locator, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, classify(locator, err)
	}

	// The CDP protocol does not surface the HTTP status of the main
	// navigation here; a rendered page is treated as a 200.
	return &comprof.RawPage{
		Body:       html,
		StatusCode: 200,
		FinalURL:   locator,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// Close shuts down every launched browser.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for key, h := range f.browsers {
		if err := h.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		h.launcher.Kill()
		delete(f.browsers, key)
	}
	return firstErr
}

// classify maps a browser error to the fetch error taxonomy.
func classify(locator string, err error) *comprof.FetchError {
	kind := comprof.FetchNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		kind = comprof.FetchTimeout
	}
	return &comprof.FetchError{Kind: kind, Locator: locator, Err: err}
}

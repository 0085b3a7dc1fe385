package comprof

import (
	"context"
	"fmt"
)

// Fetcher retrieves raw page content for target locators.
// Implementations may fetch over plain HTTP or drive a browser for
// JavaScript-rendered pages; either way they route the request through the
// given proxy endpoint when proxyURL is non-empty.
type Fetcher interface {
	// Fetch retrieves the page at locator.
	// Failures are reported as *FetchError so callers can classify them
	// for retry and proxy-rotation decisions.
	Fetch(ctx context.Context, locator, proxyURL string) (*RawPage, error)

	// Close releases fetch resources (connections, browsers).
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// FetchErrorKind classifies a failed fetch attempt.
type FetchErrorKind string

// Fetch error kinds.
const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchHTTPStatus FetchErrorKind = "http_status"
	FetchNetwork    FetchErrorKind = "network"
)

// FetchError describes one failed fetch attempt.
type FetchError struct {
	Kind    FetchErrorKind
	Locator string

	// Status is the HTTP status code when Kind is FetchHTTPStatus.
	Status int

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Locator, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Locator, e.Kind, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether retrying the fetch could succeed. Timeouts,
// network errors, 408/429 and 5xx statuses are transient; any other status
// is permanent.
func (e *FetchError) Transient() bool {
	switch e.Kind {
	case FetchTimeout, FetchNetwork:
		return true
	case FetchHTTPStatus:
		return e.Status == 408 || e.Status == 429 || e.Status >= 500
	}
	return false
}

// ProxyAttributed reports whether the failure is plausibly the proxy
// endpoint's fault, in which case the coordinator rotates to the next
// endpoint before retrying. 5xx statuses come from the origin and keep the
// current proxy.
func (e *FetchError) ProxyAttributed() bool {
	switch e.Kind {
	case FetchTimeout, FetchNetwork:
		return true
	case FetchHTTPStatus:
		return e.Status == 429
	}
	return false
}

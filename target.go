package comprof

import (
	"net/url"
	"time"
)

// MaxRunTargets caps the number of locators a single run accepts.
const MaxRunTargets = 1000

// ProxyGroup names a configured pool of proxy endpoints.
type ProxyGroup string

// Well-known proxy groups. Settings files may define others.
const (
	ProxyGroupDatacenter  ProxyGroup = "datacenter"
	ProxyGroupResidential ProxyGroup = "residential"
)

// Target is one company profile locator scheduled within a run. A target is
// consumed exactly once: it ends as a success or a terminal failure.
type Target struct {
	// Locator is the profile URL to fetch.
	Locator string

	// Index is the target's position in the run's input order.
	Index int

	// ProxyGroup selects the proxy pool used for fetches.
	ProxyGroup ProxyGroup

	// Attempts counts fetch attempts made so far. Only the batch
	// coordinator mutates it; at most one attempt is in flight at a time.
	Attempts int
}

// Validate returns an error if the target cannot be scheduled. An invalid
// locator makes the target a permanent failure; it never aborts the run.
func (t *Target) Validate() error {
	u, err := url.Parse(t.Locator)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "target locator %q is not an absolute http(s) URL", t.Locator)
	}
	return nil
}

// RawPage is the fetched content of one target. It is owned by the worker
// that fetched it and is discarded after fragment location.
type RawPage struct {
	Body        string
	StatusCode  int
	FinalURL    string
	FetchedAt   time.Time
	ContentHash string
}

// RunRequest describes one batch submission.
type RunRequest struct {
	// Locators are the profile URLs to process, in input order. Duplicates
	// are processed independently; every entry gets its own outcome.
	Locators []string

	// ProxyGroup selects the proxy pool for the whole run. Empty means
	// direct fetches.
	ProxyGroup ProxyGroup
}

// Validate returns an error if the request cannot be accepted. Per-locator
// validity is a per-target concern and is not checked here.
func (r *RunRequest) Validate() error {
	if len(r.Locators) == 0 {
		return Errorf(EINVALID, "at least one locator required")
	}
	if len(r.Locators) > MaxRunTargets {
		return Errorf(EINVALID, "run accepts at most %d locators, got %d", MaxRunTargets, len(r.Locators))
	}
	return nil
}

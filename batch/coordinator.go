// Package batch drives the end-to-end extraction run: it fans targets out
// across a bounded worker pool, applies per-worker rate limiting and
// round-robin proxy assignment, retries transient fetch failures with
// exponential backoff, and collects one outcome per input in input order.
package batch

import (
	"context"
	"time"

	"github.com/fwojciec/comprof"
	"github.com/fwojciec/comprof/resolve"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Coordinator orchestrates a batch extraction run. The zero value is not
// usable; construct with New.
type Coordinator struct {
	fetcher  comprof.Fetcher
	locators []comprof.Locator
	settings comprof.Settings
	progress comprof.RunProgressFunc

	proxies *proxyCursor
	tracker *tracker
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProgressFunc installs a callback fired as the run starts, as each
// target completes, and when the run finishes. Callbacks run on worker
// goroutines and must be safe for concurrent use.
func WithProgressFunc(fn comprof.RunProgressFunc) Option {
	return func(c *Coordinator) {
		c.progress = fn
	}
}

// New creates a Coordinator processing targets with the given fetcher and
// locators. Locators are merged first-wins per fragment name, so their
// order encodes fallback priority.
func New(fetcher comprof.Fetcher, locators []comprof.Locator, settings comprof.Settings, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetcher:  fetcher,
		locators: locators,
		settings: settings.WithDefaults(),
		tracker:  newTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Progress returns a point-in-time snapshot of the running batch. It is
// safe to call concurrently with Run.
func (c *Coordinator) Progress() comprof.Progress {
	return c.tracker.snapshot()
}

// Run processes every locator in the request and returns the aggregated
// result in input order. The run always completes: per-target failures are
// surfaced as Failure outcomes and never abort remaining targets. On
// cancellation no new targets are dispatched, in-flight targets finish
// their current attempt, and the result covers only dispatched targets.
func (c *Coordinator) Run(ctx context.Context, req comprof.RunRequest) (*comprof.RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.settings.Validate(); err != nil {
		return nil, err
	}

	targets := make([]*comprof.Target, len(req.Locators))
	for i, locator := range req.Locators {
		targets[i] = &comprof.Target{
			Locator:    locator,
			Index:      i,
			ProxyGroup: req.ProxyGroup,
		}
	}

	c.proxies = newProxyCursor(c.settings.Proxies(req.ProxyGroup))
	c.tracker.reset(len(targets))

	result := &comprof.RunResult{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	c.notify(comprof.RunEvent{Type: comprof.RunEventStarted, Progress: c.tracker.snapshot()})

	workers := c.settings.Concurrency
	if workers > len(targets) {
		workers = len(targets)
	}

	// Each worker owns a limiter so aggregate throughput stays within the
	// configured ceiling without a global lock.
	perWorker := rate.Limit(float64(c.settings.RequestsPerMinute) / 60.0 / float64(workers))

	indexCh := make(chan int)
	go func() {
		defer close(indexCh)
		for i := range targets {
			select {
			case <-ctx.Done():
				return
			case indexCh <- i:
				c.tracker.dispatched.Add(1)
			}
		}
	}()

	outcomes := make([]*comprof.Outcome, len(targets))

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		limiter := rate.NewLimiter(perWorker, 1)
		g.Go(func() error {
			for i := range indexCh {
				outcome := c.process(ctx, limiter, targets[i])
				outcomes[i] = outcome
				c.tracker.completed.Add(1)
				if outcome.Succeeded() {
					c.tracker.succeeded.Add(1)
				} else {
					c.tracker.failed.Add(1)
				}
				c.notify(comprof.RunEvent{
					Type:     comprof.RunEventTargetDone,
					Locator:  outcome.Locator,
					Progress: c.tracker.snapshot(),
					Err:      outcome.Err,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	// Keep input order; on cancellation undispatched slots are nil.
	for _, outcome := range outcomes {
		if outcome != nil {
			result.Outcomes = append(result.Outcomes, *outcome)
		}
	}

	result.FinishedAt = time.Now().UTC()
	result.Stats = stats(result.Outcomes, ctx.Err() != nil)

	c.notify(comprof.RunEvent{Type: comprof.RunEventFinished, Progress: c.tracker.snapshot()})

	return result, nil
}

func (c *Coordinator) notify(event comprof.RunEvent) {
	if c.progress != nil {
		c.progress(event)
	}
}

// stats aggregates run-level statistics. Mean completeness is computed
// over successful outcomes only.
func stats(outcomes []comprof.Outcome, canceled bool) comprof.RunStats {
	s := comprof.RunStats{
		Total:    len(outcomes),
		Canceled: canceled,
	}
	var completenessSum float64
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
			completenessSum += o.Completeness
			continue
		}
		s.Failed++
		if s.FailuresByKind == nil {
			s.FailuresByKind = make(map[comprof.FailureKind]int)
		}
		s.FailuresByKind[o.FailureKind]++
	}
	if s.Succeeded > 0 {
		s.MeanCompleteness = completenessSum / float64(s.Succeeded)
	}
	return s
}

// process runs one target end-to-end: fetch with retries, locate, resolve,
// assemble. It always returns a terminal outcome.
func (c *Coordinator) process(ctx context.Context, limiter *rate.Limiter, target *comprof.Target) *comprof.Outcome {
	page, err := c.fetchWithRetry(ctx, limiter, target)
	if err != nil {
		return &comprof.Outcome{
			Locator:     target.Locator,
			Index:       target.Index,
			Attempts:    target.Attempts,
			FailureKind: comprof.FailureKindOf(err),
			Err:         err,
		}
	}

	frags := comprof.LocateAll(page, c.locators...)
	record, provenance, completeness := resolve.Assemble(target.Locator, frags)

	return &comprof.Outcome{
		Locator:      target.Locator,
		Index:        target.Index,
		Record:       record,
		Completeness: completeness,
		Provenance:   provenance,
		Attempts:     target.Attempts,
		ContentHash:  page.ContentHash,
	}
}

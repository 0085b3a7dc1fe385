package batch

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/fwojciec/comprof"
	"golang.org/x/time/rate"
)

// maxJitter is the upper bound of the random addition to each backoff
// sleep, spreading retries from concurrent workers apart.
const maxJitter = 500 * time.Millisecond

// targetState is the per-target retry state machine.
type targetState int

const (
	statePending targetState = iota
	stateFetching
	stateRetryScheduled
	stateSuccess
	stateExhausted
)

// fetchWithRetry drives one target through the retry state machine:
// Pending -> Fetching -> {Success | RetryScheduled -> Fetching | Exhausted}.
// Transient failures are retried up to the attempt ceiling with exponential
// backoff; the proxy rotates only when the failure is attributed to it. On
// cancellation remaining retries are abandoned and the last error is
// returned; the in-flight attempt itself is never interrupted.
func (c *Coordinator) fetchWithRetry(ctx context.Context, limiter *rate.Limiter, target *comprof.Target) (*comprof.RawPage, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	proxyURL := c.proxies.next()
	state := statePending
	var lastErr error

	for state != stateSuccess && state != stateExhausted {
		if err := limiter.Wait(ctx); err != nil {
			// Canceled before the attempt started.
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		state = stateFetching
		target.Attempts++

		page, err := c.fetchAttempt(ctx, target.Locator, proxyURL)
		if err == nil {
			state = stateSuccess
			return page, nil
		}
		lastErr = err

		var fetchErr *comprof.FetchError
		transient := errors.As(err, &fetchErr) && fetchErr.Transient()
		if !transient || target.Attempts >= c.settings.RetryLimit {
			state = stateExhausted
			break
		}

		state = stateRetryScheduled
		if fetchErr.ProxyAttributed() {
			proxyURL = c.proxies.next()
		}

		select {
		case <-ctx.Done():
			state = stateExhausted
		case <-time.After(c.backoff(target.Attempts)):
		}
	}

	return nil, lastErr
}

// fetchAttempt performs a single bounded fetch. The attempt runs detached
// from run cancellation so an in-flight target finishes cleanly; the fetch
// timeout still applies.
func (c *Coordinator) fetchAttempt(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
	attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.settings.FetchTimeout)
	defer cancel()
	return c.fetcher.Fetch(attemptCtx, locator, proxyURL)
}

// backoff returns the sleep before the next attempt: base * 2^(attempt-1)
// plus jitter in [0, maxJitter).
func (c *Coordinator) backoff(attempt int) time.Duration {
	d := c.settings.BackoffBase << (attempt - 1)
	return d + time.Duration(rand.Int63n(int64(maxJitter)))
}

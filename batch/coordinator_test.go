package batch_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/comprof"
	"github.com/fwojciec/comprof/batch"
	"github.com/fwojciec/comprof/goquery"
	"github.com/fwojciec/comprof/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSettings returns settings with a negligible backoff base so retries
// only pay the jitter.
func testSettings() comprof.Settings {
	return comprof.Settings{
		Concurrency:       4,
		RequestsPerMinute: 600000,
		RetryLimit:        3,
		FetchTimeout:      5 * time.Second,
		BackoffBase:       time.Nanosecond,
	}
}

func pageFor(body string) *comprof.RawPage {
	return &comprof.RawPage{Body: body, StatusCode: 200, FetchedAt: time.Now().UTC()}
}

const orgPage = `<html><head>
<script type="application/ld+json">
{"@type": "Organization", "name": "Acme Corp", "url": "https://acme.example",
 "industry": "Manufacturing",
 "address": {"@type": "PostalAddress", "addressLocality": "Tucson"}}
</script>
</head><body></body></html>`

func TestCoordinator_Run_OrderAndLength(t *testing.T) {
	t.Parallel()

	locators := make([]string, 50)
	for i := range locators {
		locators[i] = fmt.Sprintf("https://www.linkedin.com/company/co-%d", i)
	}

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			return pageFor(orgPage), nil
		},
	}

	c := batch.New(fetcher, []comprof.Locator{goquery.NewLocator()}, testSettings())
	result, err := c.Run(context.Background(), comprof.RunRequest{Locators: locators})

	require.NoError(t, err)
	require.Len(t, result.Outcomes, len(locators))
	for i, outcome := range result.Outcomes {
		assert.Equal(t, i, outcome.Index)
		assert.Equal(t, locators[i], outcome.Locator)
		require.NotNil(t, outcome.Record)
		assert.Equal(t, locators[i], outcome.Record.ProfileURL)
	}
	assert.Equal(t, len(locators), result.Stats.Succeeded)
	assert.False(t, result.Stats.Canceled)
	assert.NotEmpty(t, result.ID)
}

func TestCoordinator_Run_MixedScenario(t *testing.T) {
	t.Parallel()

	const (
		fullURL    = "https://www.linkedin.com/company/full"
		goneURL    = "https://www.linkedin.com/company/gone"
		flakyURL   = "https://www.linkedin.com/company/flaky"
		controlURL = "https://www.linkedin.com/company/control"
	)

	var mu sync.Mutex
	flakyAttempts := 0

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			switch locator {
			case fullURL, controlURL:
				return pageFor(orgPage), nil
			case goneURL:
				return nil, &comprof.FetchError{Kind: comprof.FetchHTTPStatus, Locator: locator, Status: 404}
			case flakyURL:
				mu.Lock()
				flakyAttempts++
				n := flakyAttempts
				mu.Unlock()
				if n < 3 {
					return nil, &comprof.FetchError{Kind: comprof.FetchTimeout, Locator: locator}
				}
				return pageFor(orgPage), nil
			}
			t.Errorf("unexpected locator %q", locator)
			return nil, &comprof.FetchError{Kind: comprof.FetchNetwork, Locator: locator}
		},
	}

	c := batch.New(fetcher, []comprof.Locator{goquery.NewLocator()}, testSettings())
	result, err := c.Run(context.Background(), comprof.RunRequest{
		Locators: []string{fullURL, goneURL, flakyURL, controlURL},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 4)

	full := result.Outcomes[0]
	require.True(t, full.Succeeded())
	assert.Equal(t, 1, full.Attempts)
	require.NotNil(t, full.Record.Name)
	assert.Equal(t, "Acme Corp", *full.Record.Name)
	assert.Greater(t, full.Completeness, 0.0)

	// A 404 is not retried and surfaces as a permanent failure.
	gone := result.Outcomes[1]
	assert.False(t, gone.Succeeded())
	assert.Equal(t, comprof.FailurePermanent, gone.FailureKind)
	assert.Equal(t, 1, gone.Attempts)

	flaky := result.Outcomes[2]
	require.True(t, flaky.Succeeded())
	assert.Equal(t, 3, flaky.Attempts)

	// Retrying never changes the assembled record: the flaky target's
	// record matches a first-attempt success over the same content.
	control := result.Outcomes[3]
	flakyRecord := *flaky.Record
	controlRecord := *control.Record
	flakyRecord.ProfileURL = ""
	controlRecord.ProfileURL = ""
	assert.Equal(t, controlRecord, flakyRecord)
	assert.Equal(t, control.Completeness, flaky.Completeness)

	assert.Equal(t, 3, result.Stats.Succeeded)
	assert.Equal(t, 1, result.Stats.Failed)
	assert.Equal(t, 1, result.Stats.FailuresByKind[comprof.FailurePermanent])
}

func TestCoordinator_Run_RetryExhaustion(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			return nil, &comprof.FetchError{Kind: comprof.FetchNetwork, Locator: locator}
		},
	}

	c := batch.New(fetcher, nil, testSettings())
	result, err := c.Run(context.Background(), comprof.RunRequest{
		Locators: []string{"https://www.linkedin.com/company/down"},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)

	outcome := result.Outcomes[0]
	assert.False(t, outcome.Succeeded())
	assert.Equal(t, comprof.FailureNetwork, outcome.FailureKind)
	assert.Equal(t, 3, outcome.Attempts)
}

func TestCoordinator_Run_InvalidLocator(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			t.Error("fetch must not be called for an invalid locator")
			return nil, nil
		},
	}

	c := batch.New(fetcher, nil, testSettings())
	result, err := c.Run(context.Background(), comprof.RunRequest{
		Locators: []string{"not a url"},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)

	outcome := result.Outcomes[0]
	assert.False(t, outcome.Succeeded())
	assert.Equal(t, comprof.FailurePermanent, outcome.FailureKind)
	assert.Zero(t, outcome.Attempts)
}

func TestCoordinator_Run_ProxyRotation(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.ProxyGroups = map[comprof.ProxyGroup][]string{
		comprof.ProxyGroupDatacenter: {"http://proxy-1:8080", "http://proxy-2:8080"},
	}

	t.Run("rotates on proxy-attributed failure", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var seen []string

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
				mu.Lock()
				seen = append(seen, proxyURL)
				n := len(seen)
				mu.Unlock()
				if n == 1 {
					return nil, &comprof.FetchError{Kind: comprof.FetchTimeout, Locator: locator}
				}
				return pageFor(orgPage), nil
			},
		}

		c := batch.New(fetcher, nil, settings)
		_, err := c.Run(context.Background(), comprof.RunRequest{
			Locators:   []string{"https://www.linkedin.com/company/acme"},
			ProxyGroup: comprof.ProxyGroupDatacenter,
		})
		require.NoError(t, err)
		require.Len(t, seen, 2)
		assert.NotEqual(t, seen[0], seen[1])
	})

	t.Run("keeps the proxy on an origin failure", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var seen []string

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
				mu.Lock()
				seen = append(seen, proxyURL)
				n := len(seen)
				mu.Unlock()
				if n == 1 {
					return nil, &comprof.FetchError{Kind: comprof.FetchHTTPStatus, Locator: locator, Status: 500}
				}
				return pageFor(orgPage), nil
			},
		}

		c := batch.New(fetcher, nil, settings)
		_, err := c.Run(context.Background(), comprof.RunRequest{
			Locators:   []string{"https://www.linkedin.com/company/acme"},
			ProxyGroup: comprof.ProxyGroupDatacenter,
		})
		require.NoError(t, err)
		require.Len(t, seen, 2)
		assert.Equal(t, seen[0], seen[1])
	})
}

func TestCoordinator_Run_Cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	fetches := 0

	fetcher := &mock.Fetcher{
		FetchFn: func(fctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			mu.Lock()
			fetches++
			if fetches == 2 {
				cancel()
			}
			mu.Unlock()
			return pageFor(orgPage), nil
		},
	}

	settings := testSettings()
	settings.Concurrency = 1

	locators := []string{
		"https://www.linkedin.com/company/a",
		"https://www.linkedin.com/company/b",
		"https://www.linkedin.com/company/c",
		"https://www.linkedin.com/company/d",
	}

	c := batch.New(fetcher, []comprof.Locator{goquery.NewLocator()}, settings)
	result, err := c.Run(ctx, comprof.RunRequest{Locators: locators})
	require.NoError(t, err)

	assert.True(t, result.Stats.Canceled)
	assert.GreaterOrEqual(t, len(result.Outcomes), 2)

	// In-flight targets finish cleanly: every returned outcome is fully
	// populated and input order is preserved.
	lastIndex := -1
	for _, outcome := range result.Outcomes {
		assert.Greater(t, outcome.Index, lastIndex)
		lastIndex = outcome.Index
		require.True(t, outcome.Succeeded())
		assert.Equal(t, locators[outcome.Index], outcome.Record.ProfileURL)
	}
}

func TestCoordinator_Run_DuplicateLocators(t *testing.T) {
	t.Parallel()

	const dup = "https://www.linkedin.com/company/acme"

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			return pageFor(orgPage), nil
		},
	}

	c := batch.New(fetcher, nil, testSettings())
	result, err := c.Run(context.Background(), comprof.RunRequest{Locators: []string{dup, dup, dup}})
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	for i, outcome := range result.Outcomes {
		assert.Equal(t, i, outcome.Index)
		assert.Equal(t, dup, outcome.Locator)
	}
}

func TestCoordinator_Run_Progress(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			return pageFor(orgPage), nil
		},
	}

	var mu sync.Mutex
	var events []comprof.RunEvent

	c := batch.New(fetcher, nil, testSettings(), batch.WithProgressFunc(func(e comprof.RunEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))

	locators := []string{
		"https://www.linkedin.com/company/a",
		"https://www.linkedin.com/company/b",
		"https://www.linkedin.com/company/c",
	}
	_, err := c.Run(context.Background(), comprof.RunRequest{Locators: locators})
	require.NoError(t, err)

	require.Len(t, events, 5)
	assert.Equal(t, comprof.RunEventStarted, events[0].Type)
	assert.Equal(t, comprof.RunEventFinished, events[len(events)-1].Type)
	for _, e := range events[1 : len(events)-1] {
		assert.Equal(t, comprof.RunEventTargetDone, e.Type)
	}

	snapshot := c.Progress()
	assert.Equal(t, 3, snapshot.Total)
	assert.Equal(t, 3, snapshot.Completed)
	assert.Equal(t, 3, snapshot.Succeeded)
	assert.Equal(t, 1.0, snapshot.SuccessRate())
}

func TestCoordinator_Run_RejectsOversizedBatch(t *testing.T) {
	t.Parallel()

	locators := make([]string, comprof.MaxRunTargets+1)
	for i := range locators {
		locators[i] = "https://www.linkedin.com/company/x"
	}

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
			t.Error("fetch must not be called for a rejected batch")
			return nil, nil
		},
	}

	c := batch.New(fetcher, nil, testSettings())
	_, err := c.Run(context.Background(), comprof.RunRequest{Locators: locators})
	require.Error(t, err)
	assert.Equal(t, comprof.EINVALID, comprof.ErrorCode(err))
}

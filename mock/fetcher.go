package mock

import (
	"context"

	"github.com/fwojciec/comprof"
)

var _ comprof.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of comprof.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, locator, proxyURL string) (*comprof.RawPage, error) {
	return f.FetchFn(ctx, locator, proxyURL)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

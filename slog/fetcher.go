package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/comprof"
)

// Ensure LoggingFetcher implements comprof.Fetcher.
var _ comprof.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   comprof.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next comprof.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the locator being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, locator, proxyURL string) (page *comprof.RawPage, err error) {
	defer func(begin time.Time) {
		var bytes int
		if page != nil {
			bytes = len(page.Body)
		}
		f.logger.Info("fetch",
			"locator", locator,
			"proxy", proxyURL != "",
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, locator, proxyURL)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

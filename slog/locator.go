package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/comprof"
)

// Ensure LoggingLocator implements comprof.Locator.
var _ comprof.Locator = (*LoggingLocator)(nil)

// LoggingLocator wraps a Locator with debug logging.
type LoggingLocator struct {
	next   comprof.Locator
	logger *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next comprof.Locator, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, logger: logger}
}

// Locate logs the extraction outcome and delegates to the wrapped locator.
func (l *LoggingLocator) Locate(page *comprof.RawPage) (frags *comprof.FragmentSet) {
	defer func(begin time.Time) {
		var url string
		if page != nil {
			url = page.FinalURL
		}
		var fragments int
		structured := false
		if frags != nil {
			fragments = frags.Len()
			structured = frags.Structured() != nil
		}
		l.logger.Info("locate",
			"url", url,
			"structured", structured,
			"fragments", fragments,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return l.next.Locate(page)
}

package batch

import (
	"sync/atomic"

	"github.com/fwojciec/comprof"
)

// tracker keeps the run's live counters. Workers update it with atomic
// increments; snapshot assembles a read-only view safe to poll while the
// run executes.
type tracker struct {
	total      atomic.Int64
	dispatched atomic.Int64
	completed  atomic.Int64
	succeeded  atomic.Int64
	failed     atomic.Int64
}

func newTracker() *tracker {
	return &tracker{}
}

func (t *tracker) reset(total int) {
	t.total.Store(int64(total))
	t.dispatched.Store(0)
	t.completed.Store(0)
	t.succeeded.Store(0)
	t.failed.Store(0)
}

func (t *tracker) snapshot() comprof.Progress {
	return comprof.Progress{
		Total:      int(t.total.Load()),
		Dispatched: int(t.dispatched.Load()),
		Completed:  int(t.completed.Load()),
		Succeeded:  int(t.succeeded.Load()),
		Failed:     int(t.failed.Load()),
	}
}

package comprof

import (
	"context"
	"errors"
	"time"
)

// FailureKind classifies a terminal target failure.
type FailureKind string

// Failure kinds surfaced in outcomes. Transient kinds name the last
// observed fetch error after retry exhaustion; permanent covers failures
// retrying cannot fix (404-equivalent statuses, invalid locators).
const (
	FailureTimeout    FailureKind = "timeout"
	FailureHTTPStatus FailureKind = "http_status"
	FailureNetwork    FailureKind = "network"
	FailurePermanent  FailureKind = "permanent"
)

// FailureKindOf maps a terminal error to the failure taxonomy.
func FailureKindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		if !fe.Transient() {
			return FailurePermanent
		}
		switch fe.Kind {
		case FetchTimeout:
			return FailureTimeout
		case FetchNetwork:
			return FailureNetwork
		case FetchHTTPStatus:
			return FailureHTTPStatus
		}
	}
	return FailurePermanent
}

// Outcome is the terminal result for one target. A success carries a
// record; a failure carries a kind and the terminal error. Every submitted
// target produces exactly one outcome.
type Outcome struct {
	Locator      string         `json:"locator"`
	Index        int            `json:"index"`
	Record       *CompanyRecord `json:"record,omitempty"`
	Completeness float64        `json:"completeness"`
	Provenance   Provenance     `json:"provenance,omitempty"`
	Attempts     int            `json:"attempts"`
	ContentHash  string         `json:"contentHash,omitempty"`
	FailureKind  FailureKind    `json:"failureKind,omitempty"`
	Err          error          `json:"-"`
}

// Succeeded reports whether the target produced a record.
func (o *Outcome) Succeeded() bool {
	return o.Record != nil
}

// ErrorText returns the terminal error's message, or "" for successes.
func (o *Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// RunStats summarizes a completed run.
type RunStats struct {
	Total            int                 `json:"total"`
	Succeeded        int                 `json:"succeeded"`
	Failed           int                 `json:"failed"`
	FailuresByKind   map[FailureKind]int `json:"failuresByKind,omitempty"`
	MeanCompleteness float64             `json:"meanCompleteness"`
	Canceled         bool                `json:"canceled"`
}

// RunResult is the aggregate outcome of one batch run. Outcomes are in
// input order regardless of completion order. On cancellation it covers
// the targets dispatched before the cutoff.
type RunResult struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Outcomes   []Outcome `json:"outcomes,omitempty"`
	Stats      RunStats  `json:"stats"`
}

// Progress is a point-in-time snapshot of a running batch. Snapshots are
// safe to poll from any goroutine while the run executes.
type Progress struct {
	Total      int
	Dispatched int
	Completed  int
	Succeeded  int
	Failed     int
}

// SuccessRate returns succeeded/completed, or 0 before any completion.
func (p Progress) SuccessRate() float64 {
	if p.Completed == 0 {
		return 0
	}
	return float64(p.Succeeded) / float64(p.Completed)
}

// RunEventType distinguishes run progress notifications.
type RunEventType string

// Run event types.
const (
	RunEventStarted    RunEventType = "started"
	RunEventTargetDone RunEventType = "target_done"
	RunEventFinished   RunEventType = "finished"
)

// RunEvent notifies observers as a batch advances.
type RunEvent struct {
	Type     RunEventType
	Locator  string
	Progress Progress
	Err      error
}

// RunProgressFunc is called as targets complete. Callbacks run on worker
// goroutines and must be fast and safe for concurrent use.
type RunProgressFunc func(RunEvent)

// RunService persists and retrieves archived runs.
type RunService interface {
	// SaveRun persists a completed run and its outcomes.
	SaveRun(ctx context.Context, result *RunResult) error

	// FindRunByID retrieves a run with its outcomes.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*RunResult, error)

	// FindRuns retrieves archived run summaries (no outcomes) matching the
	// filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*RunResult, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

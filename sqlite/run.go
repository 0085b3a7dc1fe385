package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/comprof"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ comprof.RunService = (*RunService)(nil)

// RunService implements comprof.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// SaveRun persists a completed run and its outcomes in one transaction.
// A run without an ID is assigned one.
func (s *RunService) SaveRun(ctx context.Context, result *comprof.RunResult) error {
	if result == nil {
		return comprof.Errorf(comprof.EINVALID, "run result required")
	}
	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, total, succeeded, failed, mean_completeness, canceled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.StartedAt.Format(time.RFC3339), result.FinishedAt.Format(time.RFC3339),
		result.Stats.Total, result.Stats.Succeeded, result.Stats.Failed,
		result.Stats.MeanCompleteness, boolToInt(result.Stats.Canceled))
	if err != nil {
		return err
	}

	for _, outcome := range result.Outcomes {
		recordJSON, provenanceJSON, err := marshalOutcome(&outcome)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO outcomes (id, run_id, position, locator, attempts, failure_kind, error, completeness, provenance, record, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), result.ID, outcome.Index, outcome.Locator, outcome.Attempts,
			string(outcome.FailureKind), outcome.ErrorText(), outcome.Completeness,
			provenanceJSON, recordJSON, outcome.ContentHash)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run with its outcomes in input order.
// Returns ENOTFOUND if the run does not exist.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*comprof.RunResult, error) {
	result, err := s.scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, total, succeeded, failed, mean_completeness, canceled
		FROM runs
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, locator, attempts, failure_kind, error, completeness, provenance, record, content_hash
		FROM outcomes
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			outcome        comprof.Outcome
			failureKind    string
			errText        string
			provenanceJSON string
			recordJSON     string
		)
		if err := rows.Scan(&outcome.Index, &outcome.Locator, &outcome.Attempts, &failureKind,
			&errText, &outcome.Completeness, &provenanceJSON, &recordJSON, &outcome.ContentHash); err != nil {
			return nil, err
		}
		outcome.FailureKind = comprof.FailureKind(failureKind)
		if errText != "" {
			// Verbatim, so a re-export matches the original export.
			outcome.Err = errors.New(errText)
		}
		if recordJSON != "" {
			var record comprof.CompanyRecord
			if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
				return nil, err
			}
			outcome.Record = &record
		}
		if provenanceJSON != "" {
			if err := json.Unmarshal([]byte(provenanceJSON), &outcome.Provenance); err != nil {
				return nil, err
			}
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// FindRuns retrieves run summaries (no outcomes) matching the filter,
// most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter comprof.RunFilter) ([]*comprof.RunResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, started_at, finished_at, total, succeeded, failed, mean_completeness, canceled
		FROM runs
		WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*comprof.RunResult
	for rows.Next() {
		result, err := s.scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *RunService) scanRun(row rowScanner) (*comprof.RunResult, error) {
	var (
		result     comprof.RunResult
		startedAt  string
		finishedAt string
		canceled   int
	)
	err := row.Scan(&result.ID, &startedAt, &finishedAt, &result.Stats.Total,
		&result.Stats.Succeeded, &result.Stats.Failed, &result.Stats.MeanCompleteness, &canceled)
	if err == sql.ErrNoRows {
		return nil, comprof.Errorf(comprof.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if result.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if result.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	result.Stats.Canceled = canceled != 0

	return &result, nil
}

func marshalOutcome(outcome *comprof.Outcome) (recordJSON, provenanceJSON string, err error) {
	if outcome.Record != nil {
		b, err := json.Marshal(outcome.Record)
		if err != nil {
			return "", "", err
		}
		recordJSON = string(b)
	}
	if len(outcome.Provenance) > 0 {
		b, err := json.Marshal(outcome.Provenance)
		if err != nil {
			return "", "", err
		}
		provenanceJSON = string(b)
	}
	return recordJSON, provenanceJSON, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

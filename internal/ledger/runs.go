package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"slidecast/internal/services"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunSucceeded   RunStatus = "succeeded"
	RunPartial     RunStatus = "partial"
	RunFailed      RunStatus = "failed"
	RunInterrupted RunStatus = "interrupted"
)

// Run is one stage execution.
type Run struct {
	ID          string
	Stage       string
	Selection   string
	Status      RunStatus
	Slides      int
	Succeeded   int
	Failed      int
	OutputPath  string
	Error       string
	FailureKind string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Outcome is the result recorded when a run ends.
type Outcome struct {
	Succeeded  int
	Failed     int
	OutputPath string
	Err        error
}

// Status derives the run status from the outcome.
func (o Outcome) Status() RunStatus {
	switch {
	case o.Err != nil:
		return RunFailed
	case o.Failed > 0:
		return RunPartial
	default:
		return RunSucceeded
	}
}

// BeginRun records a run as running.
func (l *Ledger) BeginRun(ctx context.Context, id, stage, selection string, slides int) error {
	_, err := l.exec(ctx,
		`INSERT INTO runs (id, stage, selection, status, slides, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, stage, selection, RunRunning, slides, l.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("begin run %s: %w", id, err)
	}
	return nil
}

// FinishRun stores the outcome of a run.
func (l *Ledger) FinishRun(ctx context.Context, id string, outcome Outcome) error {
	message := ""
	if outcome.Err != nil {
		message = outcome.Err.Error()
	}
	res, err := l.exec(ctx,
		`UPDATE runs SET status = ?, succeeded = ?, failed = ?, output_path = ?, error = ?, failure_kind = ?, finished_at = ?
		 WHERE id = ?`,
		outcome.Status(), outcome.Succeeded, outcome.Failed, outcome.OutputPath, message,
		services.FailureKind(outcome.Err), l.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", id, services.ErrNotFound)
	}
	return nil
}

// MarkInterrupted flags runs left in the running state by a crashed process.
// Callers hold the workspace run lock, so no live run can be affected.
func (l *Ledger) MarkInterrupted(ctx context.Context) (int64, error) {
	res, err := l.exec(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE status = ?`,
		RunInterrupted, l.timestamp(), RunRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return res.RowsAffected()
}

// RecentRuns returns up to limit runs, newest first.
func (l *Ledger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ensureContext(ctx),
		`SELECT id, stage, selection, status, slides, succeeded, failed, output_path, error, failure_kind, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Stage, &r.Selection, &r.Status, &r.Slides, &r.Succeeded, &r.Failed,
			&r.OutputPath, &r.Error, &r.FailureKind, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Package journal persists an auditable record of every sync run and each
// ledger operation it performed, so a partially failed run can be inspected
// and repaired.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run is one sync invocation.
type Run struct {
	ID         string
	Period     string // "2025-11" or "2025-11-24"
	StartedAt  time.Time
	FinishedAt *time.Time
	Added      int
	Deleted    int
	Skipped    int
	Unresolved int
	Failed     int
}

// Operation is a single ledger mutation attempted during a run.
type Operation struct {
	ID        int64
	RunID     string
	Date      string
	Action    string // add | delete | skip
	Project   string
	Task      string
	Hours     float64
	Status    string // ok | failed
	Error     string
	CreatedAt time.Time
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

type Repository interface {
	StartRun(ctx context.Context, id string, period string) error
	RecordOperation(ctx context.Context, op Operation) error
	FinishRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListOperations(ctx context.Context, runID string) ([]Operation, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StartRun(ctx context.Context, id string, period string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sync_run (id, period, started_at) VALUES (?, ?, ?)",
		id, period, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run start: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) RecordOperation(ctx context.Context, op Operation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_operation (run_id, date, action, project, task, hours, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.RunID, op.Date, op.Action, op.Project, op.Task, op.Hours, op.Status, op.Error, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record sync operation: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) FinishRun(ctx context.Context, run Run) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sync_run
		 SET finished_at = ?, added = ?, deleted = ?, skipped = ?, unresolved = ?, failed = ?
		 WHERE id = ?`,
		time.Now().UTC(), run.Added, run.Deleted, run.Skipped, run.Unresolved, run.Failed, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run completion: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, period, started_at, finished_at, added, deleted, skipped, unresolved, failed
		 FROM sync_run ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finishedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.Period, &run.StartedAt, &finishedAt,
			&run.Added, &run.Deleted, &run.Skipped, &run.Unresolved, &run.Failed); err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *RepositoryImpl) ListOperations(ctx context.Context, runID string) ([]Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, date, action, project, task, hours, status, error, created_at
		 FROM sync_operation WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync operations: %w", err)
	}
	defer rows.Close()

	var operations []Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.ID, &op.RunID, &op.Date, &op.Action, &op.Project, &op.Task,
			&op.Hours, &op.Status, &op.Error, &op.CreatedAt); err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}
	return operations, rows.Err()
}

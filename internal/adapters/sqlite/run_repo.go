// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Senhordim/boilerplate/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create persists a run and its outcomes in one transaction.
func (r *RunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO generation_runs (id, started_at, finished_at, entities, written, skipped, failed) VALUES (?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.StartedAt, run.FinishedAt, run.Entities, run.Written, run.Skipped, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	for i, outcome := range run.Outcomes {
		var errText sql.NullString
		if outcome.Error != "" {
			errText = sql.NullString{String: outcome.Error, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO artifact_outcomes (run_id, seq, app, entity, kind, path, state, reason, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			run.ID, i+1, outcome.App, outcome.Entity, outcome.Kind, outcome.Path, outcome.State, outcome.Reason, errText,
		)
		if err != nil {
			return fmt.Errorf("failed to record outcome %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// List retrieves the newest runs, without outcomes. A non-positive limit
// returns every run.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	query := "SELECT id, started_at, finished_at, entities, written, skipped, failed FROM generation_runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetByID retrieves a run and its outcomes. id may be a unique prefix.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("run id is required")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, entities, written, skipped, failed FROM generation_runs WHERE id LIKE ? || '%' ORDER BY id LIMIT 2",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var matches []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, record)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %s not found", id)
	case 1:
	default:
		return nil, fmt.Errorf("run id %s is ambiguous", id)
	}

	record := matches[0]
	outcomes, err := r.listOutcomes(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Outcomes = outcomes
	return record, nil
}

// Prune deletes all but the newest keep runs.
func (r *RunRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const stale = "SELECT id FROM generation_runs ORDER BY started_at DESC, rowid DESC LIMIT -1 OFFSET ?"

	// Outcomes are removed explicitly so pruning does not depend on the
	// connection having foreign keys enabled.
	if _, err := tx.ExecContext(ctx, "DELETE FROM artifact_outcomes WHERE run_id IN ("+stale+")", keep); err != nil {
		return 0, fmt.Errorf("failed to prune outcomes: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM generation_runs WHERE id IN ("+stale+")", keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return int(deleted), nil
}

func (r *RunRepository) listOutcomes(ctx context.Context, runID string) ([]*secondary.OutcomeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT run_id, seq, app, entity, kind, path, state, reason, error FROM artifact_outcomes WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*secondary.OutcomeRecord
	for rows.Next() {
		var errText sql.NullString
		record := &secondary.OutcomeRecord{}
		err := rows.Scan(&record.RunID, &record.Seq, &record.App, &record.Entity, &record.Kind, &record.Path, &record.State, &record.Reason, &errText)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		record.Error = errText.String
		outcomes = append(outcomes, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	return outcomes, nil
}

func scanRun(rows *sql.Rows) (*secondary.RunRecord, error) {
	var startedAt, finishedAt time.Time
	record := &secondary.RunRecord{}
	err := rows.Scan(&record.ID, &startedAt, &finishedAt, &record.Entities, &record.Written, &record.Skipped, &record.Failed)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	record.StartedAt = startedAt.UTC().Format(time.RFC3339)
	record.FinishedAt = finishedAt.UTC().Format(time.RFC3339)
	return record, nil
}

var _ secondary.RunRepository = (*RunRepository)(nil)

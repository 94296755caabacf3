package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned for an unknown sync run id.
var ErrRunNotFound = errors.New("sync run not found")

// Repository handles database operations for sync run tracking
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new sync run repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun inserts a new sync run record
func (r *Repository) CreateRun(ctx context.Context, run *SyncRun) error {
	query := `
		INSERT INTO sync_runs (
			id, source, status, total_orders, synced_orders,
			skipped_orders, failed_orders, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		run.ID, run.Source, run.Status, run.TotalOrders, run.Synced,
		run.Skipped, run.Failed, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating sync run: %w", err)
	}
	return nil
}

// UpdateRun updates counters and status of an existing run
func (r *Repository) UpdateRun(ctx context.Context, run *SyncRun) error {
	query := `
		UPDATE sync_runs
		SET status = $1, synced_orders = $2, skipped_orders = $3,
		    failed_orders = $4, completed_at = $5, error_message = $6
		WHERE id = $7
	`

	_, err := r.db.ExecContext(
		ctx, query,
		run.Status, run.Synced, run.Skipped,
		run.Failed, run.CompletedAt, run.ErrorMessage, run.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating sync run: %w", err)
	}
	return nil
}

const runColumns = `id, source, status, total_orders, synced_orders,
		       skipped_orders, failed_orders, started_at, completed_at,
		       COALESCE(error_message, '')`

// GetRun retrieves a sync run by ID
func (r *Repository) GetRun(ctx context.Context, id string) (*SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE id = $1`

	run := &SyncRun{}
	err := scanRun(r.db.QueryRowContext(ctx, query, id), run)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting sync run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs started since the given time, newest first
func (r *Repository) ListRuns(ctx context.Context, since time.Time, limit int) ([]*SyncRun, error) {
	query := `SELECT ` + runColumns + `
		FROM sync_runs
		WHERE started_at >= $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*SyncRun
	for rows.Next() {
		run := &SyncRun{}
		if err := scanRun(rows, run); err != nil {
			return nil, fmt.Errorf("error scanning sync run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner, run *SyncRun) error {
	return row.Scan(
		&run.ID, &run.Source, &run.Status, &run.TotalOrders, &run.Synced,
		&run.Skipped, &run.Failed, &run.StartedAt, &run.CompletedAt,
		&run.ErrorMessage,
	)
}

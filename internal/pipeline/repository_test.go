package pipeline

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_CreateAndUpdateRun(t *testing.T) {
	repo, mock := newMockRepository(t)
	started := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	run := &SyncRun{ID: "run-1", Source: "orders.json", Status: StatusProcessing, TotalOrders: 3, StartedAt: started}

	mock.ExpectExec(`INSERT INTO sync_runs`).
		WithArgs("run-1", "orders.json", StatusProcessing, 3, 0, 0, 0, started).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.CreateRun(context.Background(), run))

	completed := started.Add(time.Minute)
	run.Status = StatusCompleted
	run.Synced = 2
	run.Skipped = 1
	run.CompletedAt = &completed

	mock.ExpectExec(`UPDATE sync_runs`).
		WithArgs(StatusCompleted, 2, 1, 0, &completed, "", "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateRun(context.Background(), run))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetRun(t *testing.T) {
	repo, mock := newMockRepository(t)
	started := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM sync_runs WHERE id`).
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "source", "status", "total_orders", "synced_orders",
			"skipped_orders", "failed_orders", "started_at", "completed_at", "error_message",
		}).AddRow("run-1", "orders.json", "completed", 3, 2, 1, 0, started, nil, ""))

	run, err := repo.GetRun(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, 2, run.Synced)
	assert.Nil(t, run.CompletedAt)
}

func TestRepository_GetRunNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM sync_runs WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRun(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrRunNotFound)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
)

type financeRepository struct {
	db *DB
}

func NewFinanceRepository(db *DB) repository.FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) ListTransactions(ctx context.Context, from, to time.Time, offset, limit int) ([]domain.Transaction, bool, error) {
	query := `
		SELECT transaction_id, date, total_amount, revenue_type, event_type
		FROM transactions
		WHERE date >= $1 AND date < $2
		ORDER BY date, transaction_id
		LIMIT $3 OFFSET $4
	`

	var rows []domain.Transaction
	if err := r.db.SelectContext(ctx, &rows, query, from, to, limit+1, offset); err != nil {
		return nil, false, fmt.Errorf("error getting transactions: %w", err)
	}

	rows, more := page(rows, limit)
	return rows, more, nil
}

func (r *financeRepository) ListAdSpend(ctx context.Context, from, to time.Time, offset, limit int) ([]domain.AdSpend, bool, error) {
	query := `
		SELECT date, campaign_id, spend
		FROM facebook_ads
		WHERE date >= $1 AND date < $2
		ORDER BY date, campaign_id
		LIMIT $3 OFFSET $4
	`

	var rows []domain.AdSpend
	if err := r.db.SelectContext(ctx, &rows, query, from, to, limit+1, offset); err != nil {
		return nil, false, fmt.Errorf("error getting ad spend: %w", err)
	}

	rows, more := page(rows, limit)
	return rows, more, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
	"github.com/jmoiron/sqlx"
)

type insightRepository struct {
	db *DB
}

func NewInsightRepository(db *DB) repository.InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) LatestInsight(ctx context.Context) (domain.DailyInsight, error) {
	query := `
		SELECT date, title, content, status, type
		FROM ai_daily_insights
		ORDER BY date DESC
		LIMIT 1
	`

	var insight domain.DailyInsight
	err := r.db.GetContext(ctx, &insight, query)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyInsight{}, domain.ErrInsightNotFound
	}
	if err != nil {
		return domain.DailyInsight{}, fmt.Errorf("error getting latest insight: %w", err)
	}
	return insight, nil
}

func (r *insightRepository) ReplaceInsight(ctx context.Context, insight domain.DailyInsight) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ai_daily_insights WHERE date = $1`, insight.Date); err != nil {
			return fmt.Errorf("failed to clear insight: %w", err)
		}

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO ai_daily_insights (date, title, content, status, type)
			VALUES (:date, :title, :content, :status, :type)
		`, insight)
		if err != nil {
			return fmt.Errorf("failed to insert insight: %w", err)
		}
		return nil
	})
}

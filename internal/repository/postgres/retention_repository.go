package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
)

type retentionRepository struct {
	db *DB
}

func NewRetentionRepository(db *DB) repository.RetentionRepository {
	return &retentionRepository{db: db}
}

func (r *retentionRepository) ListProductChurn(ctx context.Context) ([]domain.ProductChurn, error) {
	query := `
		SELECT product,
		       COALESCE(active_subs, 0) AS active_subs,
		       COALESCE(total_lost_30d, 0) AS total_lost_30d,
		       COALESCE(m1_churn, 0) AS m1_churn,
		       COALESCE(m2_churn, 0) AS m2_churn,
		       COALESCE(mrr_lost, 0) AS mrr_lost
		FROM subscription_churn
		ORDER BY product
	`

	rows := make([]domain.ProductChurn, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting subscription churn: %w", err)
	}
	return rows, nil
}

func (r *retentionRepository) ListCohortMonths(ctx context.Context) ([]domain.CohortMonth, error) {
	query := `
		SELECT month_index, COALESCE(active, 0) AS active, COALESCE(churned, 0) AS churned
		FROM cohort_retention
		ORDER BY month_index
	`

	rows := make([]domain.CohortMonth, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting cohort retention: %w", err)
	}
	return rows, nil
}

type operatingCostRepository struct {
	db *DB
}

func NewOperatingCostRepository(db *DB) repository.OperatingCostRepository {
	return &operatingCostRepository{db: db}
}

func (r *operatingCostRepository) ListOperatingCosts(ctx context.Context) ([]domain.OperatingCost, error) {
	query := `
		SELECT name, kind, COALESCE(role, '') AS role,
		       COALESCE(daily_cost, 0) AS daily_cost,
		       COALESCE(monthly_cost, 0) AS monthly_cost
		FROM operating_costs
		ORDER BY kind DESC, monthly_cost DESC, name
	`

	rows := make([]domain.OperatingCost, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting operating costs: %w", err)
	}
	return rows, nil
}

package repository

import (
	"context"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

type RetentionRepository interface {
	ListProductChurn(ctx context.Context) ([]domain.ProductChurn, error)
	ListCohortMonths(ctx context.Context) ([]domain.CohortMonth, error)
}

type OperatingCostRepository interface {
	ListOperatingCosts(ctx context.Context) ([]domain.OperatingCost, error)
}

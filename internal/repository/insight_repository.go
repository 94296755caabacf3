package repository

import (
	"context"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

type InsightRepository interface {
	// LatestInsight returns domain.ErrInsightNotFound when nothing has been generated.
	LatestInsight(ctx context.Context) (domain.DailyInsight, error)
	// ReplaceInsight keeps one insight per date.
	ReplaceInsight(ctx context.Context, insight domain.DailyInsight) error
}

package service

import (
	"context"

	"github.com/andresuchdata/hypnoscale/internal/analytics"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
)

type RetentionService struct {
	repo   repository.RetentionRepository
	loader *ViewLoader
}

func NewRetentionService(repo repository.RetentionRepository, loader *ViewLoader) *RetentionService {
	return &RetentionService{repo: repo, loader: loader}
}

func (s *RetentionService) Churn(ctx context.Context, scope string) (domain.ChurnSummary, error) {
	return loadView(ctx, s.loader, ViewChurn, scope, "", func(ctx context.Context) (domain.ChurnSummary, error) {
		rows, err := s.repo.ListProductChurn(ctx)
		if err != nil {
			return domain.ChurnSummary{}, err
		}
		summary := analytics.SummarizeChurn(rows)
		summary.ViewStatus = domain.StatusFor(len(rows))
		return summary, nil
	}, func(err error) domain.ChurnSummary {
		summary := analytics.SummarizeChurn(nil)
		summary.ViewStatus = domain.FailedStatus(err)
		return summary
	})
}

func (s *RetentionService) Cohorts(ctx context.Context, scope string) (domain.CohortSummary, error) {
	return loadView(ctx, s.loader, ViewCohorts, scope, "", func(ctx context.Context) (domain.CohortSummary, error) {
		months, err := s.repo.ListCohortMonths(ctx)
		if err != nil {
			return domain.CohortSummary{}, err
		}
		summary := analytics.SummarizeCohorts(months)
		summary.ViewStatus = domain.StatusFor(len(months))
		return summary, nil
	}, func(err error) domain.CohortSummary {
		summary := analytics.SummarizeCohorts(nil)
		summary.ViewStatus = domain.FailedStatus(err)
		return summary
	})
}

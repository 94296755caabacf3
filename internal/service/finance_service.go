package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/analytics"
	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
	"golang.org/x/sync/errgroup"
)

type FinanceService struct {
	repo        repository.FinanceRepository
	loader      *ViewLoader
	fetch       config.FetchConfig
	assumptions domain.ProfitAssumptions
	now         Clock
}

func NewFinanceService(repo repository.FinanceRepository, loader *ViewLoader, fetch config.FetchConfig, finance config.FinanceConfig) *FinanceService {
	assumptions := analytics.DefaultProfitAssumptions
	if finance.COGSRate > 0 {
		assumptions.COGSRate = finance.COGSRate
	}
	if finance.OpExRate > 0 {
		assumptions.OpExRate = finance.OpExRate
	}

	return &FinanceService{
		repo:        repo,
		loader:      loader,
		fetch:       fetch,
		assumptions: assumptions,
		now:         utcNow,
	}
}

// Today returns the current UTC day.
func (s *FinanceService) Today() time.Time {
	return domain.TruncateDay(s.now())
}

// Dashboard builds the finance view for an inclusive range of UTC days.
func (s *FinanceService) Dashboard(ctx context.Context, scope string, r domain.DateRange) (domain.FinanceDashboard, error) {
	return loadView(ctx, s.loader, ViewFinance, scope, r.Key(), func(ctx context.Context) (domain.FinanceDashboard, error) {
		return s.build(ctx, r)
	}, func(err error) domain.FinanceDashboard {
		view := s.assemble(r, nil, nil)
		view.ViewStatus = domain.FailedStatus(err)
		return view
	})
}

// Daily returns only the time series of the finance view.
func (s *FinanceService) Daily(ctx context.Context, scope string, r domain.DateRange) ([]domain.DailyMetric, error) {
	dashboard, err := s.Dashboard(ctx, scope, r)
	if err != nil {
		return nil, err
	}
	return dashboard.Daily, nil
}

func (s *FinanceService) build(ctx context.Context, r domain.DateRange) (domain.FinanceDashboard, error) {
	from := domain.TruncateDay(r.Start)
	to := r.UpperBound()

	var (
		txs   repository.PageResult[domain.Transaction]
		spend repository.PageResult[domain.AdSpend]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = repository.FetchPages(gctx, pageOptions(s.fetch, "transactions"),
			func(ctx context.Context, offset, limit int) ([]domain.Transaction, bool, error) {
				return s.repo.ListTransactions(ctx, from, to, offset, limit)
			})
		return err
	})
	g.Go(func() error {
		var err error
		spend, err = repository.FetchPages(gctx, pageOptions(s.fetch, "facebook_ads"),
			func(ctx context.Context, offset, limit int) ([]domain.AdSpend, bool, error) {
				return s.repo.ListAdSpend(ctx, from, to, offset, limit)
			})
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.FinanceDashboard{}, fmt.Errorf("failed to load finance rows: %w", err)
	}

	view := s.assemble(r, txs.Rows, spend.Rows)
	view.ViewStatus = domain.StatusFor(len(txs.Rows) + len(spend.Rows))
	view.PossibleUndercount = txs.Truncated || spend.Truncated
	return view, nil
}

// assemble derives every finance figure from the fetched rows. With no rows
// it yields the zeroed view, daily series included.
func (s *FinanceService) assemble(r domain.DateRange, txs []domain.Transaction, spend []domain.AdSpend) domain.FinanceDashboard {
	metrics := analytics.BuildFinancialMetrics(analytics.AggregateRevenue(txs), analytics.SumAdSpend(spend))
	profit := analytics.BuildProfitBreakdown(metrics, s.assumptions)

	return domain.FinanceDashboard{
		Range:       domain.DateRange{Start: domain.TruncateDay(r.Start), End: domain.TruncateDay(r.End)},
		Metrics:     metrics,
		Profit:      profit,
		GoldenKPIs:  analytics.GoldenKPIs(metrics, profit),
		Daily:       analytics.BuildDailySeries(r.Start, r.End, txs, spend),
		GeneratedAt: s.now(),
	}
}

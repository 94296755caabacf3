package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/analytics"
	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
	"golang.org/x/sync/errgroup"
)

// CriticalStockCounter reports how many products need reordering now.
type CriticalStockCounter interface {
	Dashboard(ctx context.Context, scope string) (domain.InventoryDashboard, error)
}

type TeamService struct {
	costs     repository.OperatingCostRepository
	inventory CriticalStockCounter
	loader    *ViewLoader
	finance   config.FinanceConfig
	now       Clock
}

func NewTeamService(costs repository.OperatingCostRepository, inventory CriticalStockCounter, loader *ViewLoader, finance config.FinanceConfig) *TeamService {
	return &TeamService{costs: costs, inventory: inventory, loader: loader, finance: finance, now: utcNow}
}

func (s *TeamService) Burn(ctx context.Context, scope string) (domain.TeamBurn, error) {
	return loadView(ctx, s.loader, ViewTeam, scope, "", s.buildBurn, func(err error) domain.TeamBurn {
		burn := analytics.SummarizeBurn(nil)
		burn.ViewStatus = domain.FailedStatus(err)
		return burn
	})
}

func (s *TeamService) buildBurn(ctx context.Context) (domain.TeamBurn, error) {
	costs, err := s.costs.ListOperatingCosts(ctx)
	if err != nil {
		return domain.TeamBurn{}, err
	}
	burn := analytics.SummarizeBurn(costs)
	burn.ViewStatus = domain.StatusFor(len(costs))
	return burn, nil
}

// CFOOverview combines configured cash figures, the cost base and stock alerts.
func (s *TeamService) CFOOverview(ctx context.Context, scope string) (domain.CFOOverview, error) {
	today := domain.TruncateDay(s.now())
	return loadView(ctx, s.loader, ViewCFO, scope, domain.DayKey(today), func(ctx context.Context) (domain.CFOOverview, error) {
		var (
			burn      domain.TeamBurn
			inventory domain.InventoryDashboard
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			burn, err = s.buildBurn(gctx)
			return err
		})
		if s.inventory != nil {
			g.Go(func() error {
				var err error
				inventory, err = s.inventory.Dashboard(gctx, "")
				if err == nil && inventory.Failed() {
					err = fmt.Errorf("%w: inventory: %s", domain.ErrViewUnavailable, inventory.Error)
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return domain.CFOOverview{}, fmt.Errorf("failed to load cfo inputs: %w", err)
		}

		overview := analytics.BuildCFOOverview(s.cashPosition(burn), today, inventory.ForecastKPI.Critical)
		overview.ViewStatus = domain.ViewStatus{State: domain.ViewReady}
		return overview, nil
	}, func(err error) domain.CFOOverview {
		overview := analytics.BuildCFOOverview(s.cashPosition(analytics.SummarizeBurn(nil)), today, 0)
		overview.ViewStatus = domain.FailedStatus(err)
		return overview
	})
}

// cashPosition falls back to the recorded cost base when no monthly burn is configured.
func (s *TeamService) cashPosition(burn domain.TeamBurn) domain.CashPosition {
	pos := domain.CashPosition{
		CurrentCash:    s.finance.CurrentCash,
		MonthlyBurn:    s.finance.MonthlyBurn,
		TargetCash:     s.finance.TargetCash,
		MonthlyNetGain: s.finance.MonthlyNetGain,
	}
	if pos.MonthlyBurn <= 0 {
		pos.MonthlyBurn = burn.TotalMonthly
	}
	return pos
}

package analytics

import (
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// SummarizeBurn totals team and service costs.
func SummarizeBurn(costs []domain.OperatingCost) domain.TeamBurn {
	burn := domain.TeamBurn{
		Members:  make([]domain.OperatingCost, 0),
		Services: make([]domain.OperatingCost, 0),
	}

	for _, c := range costs {
		switch c.Kind {
		case domain.CostKindTeam:
			burn.Members = append(burn.Members, c)
			burn.TeamDaily += c.DailyCost
			burn.TeamMonthly += c.MonthlyCost
		case domain.CostKindService:
			burn.Services = append(burn.Services, c)
			burn.ServicesDaily += c.DailyCost
			burn.ServicesMonthly += c.MonthlyCost
		}
	}

	burn.TotalDaily = burn.TeamDaily + burn.ServicesDaily
	burn.TotalMonthly = burn.TeamMonthly + burn.ServicesMonthly
	burn.TeamSharePercent = safeDiv(burn.TeamDaily, burn.TotalDaily) * 100
	burn.ServiceSharePercent = safeDiv(burn.ServicesDaily, burn.TotalDaily) * 100
	burn.AnnualBurn = burn.TotalMonthly * 12

	return burn
}

// BuildCFOOverview computes runway and the months needed to reach the cash target.
func BuildCFOOverview(pos domain.CashPosition, today time.Time, criticalStock int) domain.CFOOverview {
	runway := Runway(pos.CurrentCash, pos.MonthlyBurn)
	months, reachable := MonthsToTarget(pos.CurrentCash, pos.TargetCash, pos.MonthlyNetGain)

	overview := domain.CFOOverview{
		CashPosition:    pos,
		RunwayMonths:    runway,
		RunwaySafe:      RunwaySafe(runway),
		MonthsToTarget:  months,
		TargetReachable: reachable,
		CriticalStock:   criticalStock,
	}
	if reachable {
		target := domain.TruncateDay(today).AddDate(0, months, 0)
		overview.TargetDate = &target
	}

	return overview
}

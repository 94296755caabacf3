package analytics

import "github.com/andresuchdata/hypnoscale/internal/domain"

// DefaultProfitAssumptions estimate COGS and OpEx as a share of revenue.
var DefaultProfitAssumptions = domain.ProfitAssumptions{COGSRate: 0.25, OpExRate: 0.06}

// BuildFinancialMetrics derives the headline numbers from revenue totals and ad spend.
func BuildFinancialMetrics(totals domain.RevenueTotals, adSpend float64) domain.FinancialMetrics {
	netProfit := totals.TotalRevenue - adSpend

	return domain.FinancialMetrics{
		TotalRevenue:       totals.TotalRevenue,
		ColdTrafficRevenue: totals.ColdTrafficRevenue,
		MRRRevenue:         totals.MRRRevenue,
		AdSpend:            adSpend,
		NetProfit:          netProfit,
		OrderCount:         totals.OrderCount,
		AOV:                AOV(totals.TotalRevenue, totals.OrderCount),
		Margin:             MarginPercent(totals.TotalRevenue, adSpend),
	}
}

// BuildProfitBreakdown loads estimated COGS and OpEx on top of ad spend.
func BuildProfitBreakdown(m domain.FinancialMetrics, a domain.ProfitAssumptions) domain.ProfitBreakdown {
	cogs := m.TotalRevenue * a.COGSRate
	opex := m.TotalRevenue * a.OpExRate
	totalCosts := m.AdSpend + cogs + opex
	trueMargin := MarginPercent(m.TotalRevenue, totalCosts)
	roas := ROAS(m.TotalRevenue, m.AdSpend)

	return domain.ProfitBreakdown{
		Revenue:       m.TotalRevenue,
		AdSpend:       m.AdSpend,
		EstimatedCOGS: cogs,
		EstimatedOpEx: opex,
		TotalCosts:    totalCosts,
		TrueProfit:    m.TotalRevenue - totalCosts,
		TrueMargin:    trueMargin,
		TrueMarginOK:  TrueMarginHealthy(trueMargin),
		ROAS:          roas,
		ROASHealthy:   ROASHealthy(roas),
		BlendedCAC:    BlendedCAC(m.AdSpend, m.OrderCount),
		MarginHealth:  ClassifyMargin(trueMargin),
	}
}

// GoldenKPIs compares AOV, gross margin and CAC against their targets.
func GoldenKPIs(m domain.FinancialMetrics, p domain.ProfitBreakdown) []domain.GoldenKPI {
	aovOK := m.AOV >= AOVTarget
	marginOK := p.TrueMargin >= GrossMarginTarget
	cacOK := p.BlendedCAC <= CACTarget

	return []domain.GoldenKPI{
		{
			Name:    "AOV",
			Current: m.AOV,
			Target:  AOVTarget,
			Status:  kpiStatus(aovOK),
			Action:  pick(aovOK, "Maintain current offer mix.", "Increase bundles & upsells."),
		},
		{
			Name:    "Gross Margin",
			Current: p.TrueMargin,
			Target:  GrossMarginTarget,
			Status:  kpiStatus(marginOK),
			Action:  pick(marginOK, "Profitability is healthy.", "Reduce Ad Spend or COGS."),
		},
		{
			Name:    "CAC (Blended)",
			Current: p.BlendedCAC,
			Target:  CACTarget,
			Status:  kpiStatus(cacOK),
			Action:  pick(cacOK, "Acquisition is efficient.", "Creative fatigue? Check ads."),
		},
	}
}

func pick(ok bool, whenOK, otherwise string) string {
	if ok {
		return whenOK
	}
	return otherwise
}

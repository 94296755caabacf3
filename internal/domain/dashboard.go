package domain

import "time"

// RevenueTotals is the revenue rollup of a set of transactions.
type RevenueTotals struct {
	TotalRevenue       float64 `json:"total_revenue"`
	ColdTrafficRevenue float64 `json:"cold_traffic_revenue"`
	MRRRevenue         float64 `json:"mrr_revenue"`
	OrderCount         int     `json:"order_count"`
}

// FinancialMetrics are the headline CFO numbers for a date range.
type FinancialMetrics struct {
	TotalRevenue       float64 `json:"total_revenue"`
	ColdTrafficRevenue float64 `json:"cold_traffic_revenue"`
	MRRRevenue         float64 `json:"mrr_revenue"`
	AdSpend            float64 `json:"ad_spend"`
	NetProfit          float64 `json:"net_profit"`
	OrderCount         int     `json:"order_count"`
	AOV                float64 `json:"aov"`
	Margin             float64 `json:"margin"`
}

// ProfitAssumptions are the cost ratios applied to revenue until the cost ledger covers every order.
type ProfitAssumptions struct {
	COGSRate float64 `json:"cogs_rate"`
	OpExRate float64 `json:"opex_rate"`
}

// ProfitBreakdown is the "true profit" view.
type ProfitBreakdown struct {
	Revenue       float64      `json:"revenue"`
	AdSpend       float64      `json:"ad_spend"`
	EstimatedCOGS float64      `json:"estimated_cogs"`
	EstimatedOpEx float64      `json:"estimated_opex"`
	TotalCosts    float64      `json:"total_costs"`
	TrueProfit    float64      `json:"true_profit"`
	TrueMargin    float64      `json:"true_margin"`
	TrueMarginOK  bool         `json:"true_margin_healthy"`
	ROAS          float64      `json:"roas"`
	ROASHealthy   bool         `json:"roas_healthy"`
	BlendedCAC    float64      `json:"blended_cac"`
	MarginHealth  MarginHealth `json:"margin_health"`
}

// GoldenKPI is one target-vs-actual card.
type GoldenKPI struct {
	Name    string    `json:"name"`
	Current float64   `json:"current"`
	Target  float64   `json:"target"`
	Status  KPIStatus `json:"status"`
	Action  string    `json:"action"`
}

// DailyMetric is one calendar day of the finance time series.
type DailyMetric struct {
	Date               string  `json:"date"`
	Revenue            float64 `json:"revenue"`
	ColdTrafficRevenue float64 `json:"cold_traffic_revenue"`
	MRRRevenue         float64 `json:"mrr_revenue"`
	AdSpend            float64 `json:"ad_spend"`
	Profit             float64 `json:"profit"`
	Margin             float64 `json:"margin"`
}

// FinanceDashboard is the full finance view for one date range.
type FinanceDashboard struct {
	ViewStatus
	Range              DateRange        `json:"range"`
	Metrics            FinancialMetrics `json:"metrics"`
	Profit             ProfitBreakdown  `json:"profit"`
	GoldenKPIs         []GoldenKPI      `json:"golden_kpis"`
	Daily              []DailyMetric    `json:"daily"`
	PossibleUndercount bool             `json:"possible_undercount"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

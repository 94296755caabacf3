package domain

import "time"

// ProductSummary is the rollup of all active batches of one base product.
type ProductSummary struct {
	Name       string  `json:"name"`
	TotalQty   int64   `json:"total_qty"`
	TotalValue float64 `json:"total_value"`
	BatchCount int     `json:"batch_count"`
	AvgCost    float64 `json:"avg_cost"`
	Status     string  `json:"status"`
}

// StockKPI summarizes the batch rollup.
type StockKPI struct {
	TotalValue float64 `json:"total_value"`
	LowStock   int     `json:"low_stock"`
	Healthy    int     `json:"healthy"`
}

// ProductMetadata carries catalog data the batches table does not hold.
type ProductMetadata struct {
	SKU          string `json:"sku"`
	LeadTimeDays int    `json:"lead_time_days"`
}

// StockForecast is the reorder outlook for one product.
type StockForecast struct {
	Name              string      `json:"name"`
	SKU               string      `json:"sku"`
	CurrentStock      int64       `json:"current_stock"`
	StockValue        float64     `json:"stock_value"`
	UnitCost          float64     `json:"unit_cost"`
	LeadTimeDays      int         `json:"lead_time_days"`
	DailySales        float64     `json:"daily_sales"`
	HasSalesHistory   bool        `json:"has_sales_history"`
	DaysUntilStockout int         `json:"days_until_stockout"`
	DaysUntilReorder  int         `json:"days_until_reorder"`
	StockoutDate      *time.Time  `json:"stockout_date,omitempty"`
	ReorderDate       *time.Time  `json:"reorder_date,omitempty"`
	ReorderLabel      string      `json:"reorder_label"`
	Status            StatusLevel `json:"status"`
	Badge             string      `json:"badge"`
}

// ForecastKPI counts forecasts per status.
type ForecastKPI struct {
	TotalStockValue float64 `json:"total_stock_value"`
	Critical        int     `json:"critical"`
	Warning         int     `json:"warning"`
	Healthy         int     `json:"healthy"`
}

// InventoryDashboard is the full stock management view.
type InventoryDashboard struct {
	ViewStatus
	Products           []ProductSummary `json:"products"`
	KPI                StockKPI         `json:"kpi"`
	Forecasts          []StockForecast  `json:"forecasts"`
	ForecastKPI        ForecastKPI      `json:"forecast_kpi"`
	Unmapped           []ProductMapping `json:"unmapped"`
	PossibleUndercount bool             `json:"possible_undercount"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

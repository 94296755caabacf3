package analytics

import (
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// DefaultLookbackDays is the sales window used for the daily sales average.
const DefaultLookbackDays = 30

// NoSalesLabel replaces the reorder date when a product has stock but no recent sales.
const NoSalesLabel = "No recent sales"

// DefaultCatalog holds SKU and supplier lead time for products the batches table
// does not describe.
func DefaultCatalog() map[string]domain.ProductMetadata {
	return map[string]domain.ProductMetadata{
		"Nurovita® Cooling Roller": {SKU: "CR-002", LeadTimeDays: 25},
		"Warming Oil":              {SKU: "WO-001", LeadTimeDays: 20},
		"PerfectX":                 {SKU: "PX-003", LeadTimeDays: 30},
	}
}

// DefaultProductMetadata is used for products missing from the catalog.
var DefaultProductMetadata = domain.ProductMetadata{SKU: "GEN-001", LeadTimeDays: 21}

// Forecaster turns product rollups and sales history into reorder forecasts.
type Forecaster struct {
	catalog      map[string]domain.ProductMetadata
	fallback     domain.ProductMetadata
	lookbackDays int
}

// NewForecaster creates a forecaster. A nil catalog uses DefaultCatalog.
func NewForecaster(catalog map[string]domain.ProductMetadata, fallback domain.ProductMetadata, lookbackDays int) *Forecaster {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Forecaster{
		catalog:      catalog,
		fallback:     fallback,
		lookbackDays: lookbackDays,
	}
}

// LookbackDays returns the sales window in days.
func (f *Forecaster) LookbackDays() int {
	return f.lookbackDays
}

// Metadata returns catalog data for a product, falling back to the default entry.
func (f *Forecaster) Metadata(product string) domain.ProductMetadata {
	if meta, ok := f.catalog[product]; ok {
		return meta
	}
	return f.fallback
}

// Forecast computes stockout and reorder timing per product.
// unitsSold holds base-product units sold over the look-back window.
func (f *Forecaster) Forecast(summaries []domain.ProductSummary, unitsSold map[string]int64, today time.Time) []domain.StockForecast {
	forecasts := make([]domain.StockForecast, 0, len(summaries))

	for _, s := range summaries {
		meta := f.Metadata(s.Name)
		daily := DailySalesAverage(unitsSold[s.Name], f.lookbackDays)

		fc := domain.StockForecast{
			Name:            s.Name,
			SKU:             meta.SKU,
			CurrentStock:    s.TotalQty,
			StockValue:      s.TotalValue,
			UnitCost:        s.AvgCost,
			LeadTimeDays:    meta.LeadTimeDays,
			DailySales:      daily,
			HasSalesHistory: daily > 0,
		}

		switch {
		case s.TotalQty <= 0 || fc.HasSalesHistory:
			fc.DaysUntilStockout = DaysToStockout(s.TotalQty, daily)
			fc.DaysUntilReorder = DaysToReorder(fc.DaysUntilStockout, meta.LeadTimeDays)
			stockout := AddDays(today, fc.DaysUntilStockout)
			reorder := AddDays(today, fc.DaysUntilReorder)
			fc.StockoutDate = &stockout
			fc.ReorderDate = &reorder
			fc.ReorderLabel = ReorderLabel(today, fc.DaysUntilReorder)
			fc.Status = ClassifyReorder(fc.DaysUntilReorder)
		default:
			fc.ReorderLabel = NoSalesLabel
			fc.Status = domain.StatusHealthy
		}

		fc.Badge = domain.ReorderBadge(fc.Status)
		forecasts = append(forecasts, fc)
	}

	return forecasts
}

// SummarizeForecasts counts forecasts per status.
func SummarizeForecasts(forecasts []domain.StockForecast) domain.ForecastKPI {
	var kpi domain.ForecastKPI
	for _, fc := range forecasts {
		kpi.TotalStockValue += fc.StockValue
		switch fc.Status {
		case domain.StatusCritical:
			kpi.Critical++
		case domain.StatusWarning:
			kpi.Warning++
		default:
			kpi.Healthy++
		}
	}
	return kpi
}

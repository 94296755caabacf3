package analytics

import (
	"testing"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecaster_OverdueScenario(t *testing.T) {
	today := utcDay(2025, 6, 1)
	f := NewForecaster(map[string]domain.ProductMetadata{
		"A": {SKU: "A-1", LeadTimeDays: 25},
	}, DefaultProductMetadata, 30)

	forecasts := f.Forecast(
		[]domain.ProductSummary{{Name: "A", TotalQty: 80, TotalValue: 160, AvgCost: 2}},
		map[string]int64{"A": 300},
		today,
	)

	require.Len(t, forecasts, 1)
	fc := forecasts[0]
	assert.Equal(t, 10.0, fc.DailySales)
	assert.Equal(t, 8, fc.DaysUntilStockout)
	assert.Equal(t, -17, fc.DaysUntilReorder)
	assert.Equal(t, domain.StatusCritical, fc.Status)
	assert.Equal(t, OverdueLabel, fc.ReorderLabel)
	assert.Equal(t, "Reorder Now", fc.Badge)
	require.NotNil(t, fc.StockoutDate)
	assert.Equal(t, utcDay(2025, 6, 9), *fc.StockoutDate)
	require.NotNil(t, fc.ReorderDate)
	assert.Equal(t, utcDay(2025, 5, 15), *fc.ReorderDate)
}

func TestForecaster_WarningAndHealthy(t *testing.T) {
	today := utcDay(2025, 6, 1)
	f := NewForecaster(nil, DefaultProductMetadata, 30)

	forecasts := f.Forecast([]domain.ProductSummary{
		{Name: "Warming Oil", TotalQty: 300},
		{Name: "Unknown Balm", TotalQty: 600},
	}, map[string]int64{
		"Warming Oil":  300, // 10/day → 30 days → reorder in 10
		"Unknown Balm": 300, // 10/day → 60 days → reorder in 39
	}, today)

	require.Len(t, forecasts, 2)

	assert.Equal(t, "WO-001", forecasts[0].SKU)
	assert.Equal(t, 10, forecasts[0].DaysUntilReorder)
	assert.Equal(t, domain.StatusWarning, forecasts[0].Status)
	assert.Equal(t, "Jun 11", forecasts[0].ReorderLabel)
	assert.Equal(t, "Order Soon", forecasts[0].Badge)

	assert.Equal(t, "GEN-001", forecasts[1].SKU)
	assert.Equal(t, 21, forecasts[1].LeadTimeDays)
	assert.Equal(t, 39, forecasts[1].DaysUntilReorder)
	assert.Equal(t, domain.StatusHealthy, forecasts[1].Status)
}

func TestForecaster_NoSalesHistory(t *testing.T) {
	f := NewForecaster(nil, DefaultProductMetadata, 0)
	assert.Equal(t, DefaultLookbackDays, f.LookbackDays())

	forecasts := f.Forecast([]domain.ProductSummary{
		{Name: "PerfectX", TotalQty: 40},
		{Name: "Empty", TotalQty: 0},
	}, nil, utcDay(2025, 6, 1))

	require.Len(t, forecasts, 2)
	assert.False(t, forecasts[0].HasSalesHistory)
	assert.Equal(t, NoSalesLabel, forecasts[0].ReorderLabel)
	assert.Equal(t, domain.StatusHealthy, forecasts[0].Status)
	assert.Nil(t, forecasts[0].ReorderDate)

	assert.Equal(t, 0, forecasts[1].DaysUntilStockout)
	assert.Equal(t, -21, forecasts[1].DaysUntilReorder)
	assert.Equal(t, domain.StatusCritical, forecasts[1].Status)
}

func TestSummarizeForecasts(t *testing.T) {
	kpi := SummarizeForecasts([]domain.StockForecast{
		{StockValue: 10, Status: domain.StatusCritical},
		{StockValue: 20, Status: domain.StatusWarning},
		{StockValue: 30, Status: domain.StatusHealthy},
		{StockValue: 40, Status: domain.StatusCritical},
	})

	assert.Equal(t, domain.ForecastKPI{TotalStockValue: 100, Critical: 2, Warning: 1, Healthy: 1}, kpi)
}

func TestForecaster_MetadataIsDeterministic(t *testing.T) {
	f := NewForecaster(nil, DefaultProductMetadata, 30)
	summaries := []domain.ProductSummary{{Name: "Nurovita® Cooling Roller", TotalQty: 500}}
	sold := map[string]int64{"Nurovita® Cooling Roller": 450}
	today := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := f.Forecast(summaries, sold, today)
	second := f.Forecast(summaries, sold, today)

	assert.Equal(t, first, second)
	assert.Equal(t, "CR-002", first[0].SKU)
	assert.Equal(t, 15.0, first[0].DailySales)
	assert.Equal(t, 33, first[0].DaysUntilStockout)
	assert.Equal(t, 8, first[0].DaysUntilReorder)
}

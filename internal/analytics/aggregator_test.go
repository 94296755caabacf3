package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }

func batch(product string, qty int64, cost float64) domain.InventoryBatch {
	return domain.InventoryBatch{
		BaseProduct:  product,
		UnitCost:     f64(cost),
		InitialQty:   qty,
		RemainingQty: i64(qty),
		Status:       domain.BatchStatusActive,
	}
}

func TestAggregateBatches_TwoBatchesSameProduct(t *testing.T) {
	summaries := AggregateBatches([]domain.InventoryBatch{
		batch("A", 50, 2),
		batch("A", 60, 3),
	})

	require.Len(t, summaries, 1)
	a := summaries[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, int64(110), a.TotalQty)
	assert.InDelta(t, 280.0, a.TotalValue, 1e-9)
	assert.Equal(t, 2, a.BatchCount)
	assert.InDelta(t, 2.5454545, a.AvgCost, 1e-6)
	assert.Equal(t, domain.StockHealthy, a.Status)
}

func TestAggregateBatches_LowStockAndSorting(t *testing.T) {
	summaries := AggregateBatches([]domain.InventoryBatch{
		batch("Warming Oil", 99, 1.79),
		batch("Cooling Roller", 100, 1.59),
	})

	require.Len(t, summaries, 2)
	assert.Equal(t, "Cooling Roller", summaries[0].Name)
	assert.Equal(t, domain.StockHealthy, summaries[0].Status, "exactly 100 units is healthy")
	assert.Equal(t, "Warming Oil", summaries[1].Name)
	assert.Equal(t, domain.StockLow, summaries[1].Status)
}

func TestAggregateBatches_NullFieldsContributeZero(t *testing.T) {
	summaries := AggregateBatches([]domain.InventoryBatch{
		{BaseProduct: "A", UnitCost: nil, RemainingQty: i64(10)},
		{BaseProduct: "A", UnitCost: f64(4), RemainingQty: nil},
		{BaseProduct: "B", UnitCost: f64(4), RemainingQty: i64(0)},
	})

	require.Len(t, summaries, 2)
	assert.Equal(t, int64(10), summaries[0].TotalQty)
	assert.Equal(t, 0.0, summaries[0].TotalValue)
	assert.Equal(t, 0.0, summaries[0].AvgCost)
	assert.Equal(t, 2, summaries[0].BatchCount)

	assert.Equal(t, int64(0), summaries[1].TotalQty)
	assert.Equal(t, 0.0, summaries[1].AvgCost, "zero quantity yields the zero sentinel")
}

func TestAggregateBatches_Empty(t *testing.T) {
	summaries := AggregateBatches(nil)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestAggregateBatches_OrderIndependent(t *testing.T) {
	var batches []domain.InventoryBatch
	for i := 0; i < 200; i++ {
		product := []string{"A", "B", "C"}[i%3]
		batches = append(batches, batch(product, int64(i%17+1), float64(i%5)+0.5))
	}

	want := AggregateBatches(batches)

	shuffled := append([]domain.InventoryBatch(nil), batches...)
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	got := AggregateBatches(shuffled)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].TotalQty, got[i].TotalQty)
		assert.InDelta(t, want[i].TotalValue, got[i].TotalValue, 1e-9)
	}
}

func TestSummarizeStock(t *testing.T) {
	kpi := SummarizeStock([]domain.ProductSummary{
		{Name: "A", TotalValue: 100, Status: domain.StockHealthy},
		{Name: "B", TotalValue: 50, Status: domain.StockLow},
		{Name: "C", TotalValue: 25, Status: domain.StockLow},
	})

	assert.Equal(t, 175.0, kpi.TotalValue)
	assert.Equal(t, 2, kpi.LowStock)
	assert.Equal(t, 1, kpi.Healthy)
}

func TestAggregateRevenue_SplitsByExactType(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	totals := AggregateRevenue([]domain.Transaction{
		{Date: day, TotalAmount: f64(100), RevenueType: str(domain.RevenueTypeColdTraffic)},
		{Date: day, TotalAmount: f64(50), RevenueType: str(domain.RevenueTypeMRR)},
		{Date: day, TotalAmount: f64(10), RevenueType: str("mrr revenue")},
		{Date: day, TotalAmount: nil, RevenueType: str(domain.RevenueTypeMRR)},
		{Date: day, TotalAmount: f64(-20), RevenueType: str(domain.RevenueTypeRefund)},
	})

	assert.Equal(t, 140.0, totals.TotalRevenue)
	assert.Equal(t, 100.0, totals.ColdTrafficRevenue)
	assert.Equal(t, 50.0, totals.MRRRevenue)
	assert.Equal(t, 5, totals.OrderCount)
}

func TestSumAdSpend(t *testing.T) {
	assert.Equal(t, 0.0, SumAdSpend(nil))
	assert.Equal(t, 30.5, SumAdSpend([]domain.AdSpend{{Spend: f64(10)}, {Spend: nil}, {Spend: f64(20.5)}}))
}

func TestAggregateUnitsSold(t *testing.T) {
	mappings := []domain.ProductMapping{
		{ProductID: "2489", BaseProduct: str("Nurovita® Cooling Roller"), UnitsPerVariant: 1, Status: domain.MappingVerified},
		{ProductID: "5000", BaseProduct: str("Warming Oil"), UnitsPerVariant: 2, Status: domain.MappingVerified},
		{ProductID: "9999", OfferName: "Summer Mega Bundle (6x)", UnitsPerVariant: 1, Status: domain.MappingNeedsReview},
	}
	items := []domain.TransactionItem{
		{ProductName: "Nurovita® Cooling Roller - 1x Roller", Qty: 3, ExternalProductID: str("2489")},
		{ProductName: "Natural Warming Oil - 2x Bottles", Qty: 2, ExternalProductID: str("5000")},
		{ProductName: "Summer Mega Bundle (6x)", Qty: 1, ExternalProductID: str("9999")},
		{ProductName: "PerfectX", Qty: 4},
		{ProductName: "PerfectX", Qty: 0},
	}

	units := AggregateUnitsSold(items, mappings)

	assert.Equal(t, map[string]int64{
		"Nurovita® Cooling Roller": 3,
		"Warming Oil":              4,
		"Summer Mega Bundle (6x)":  1,
		"PerfectX":                 4,
	}, units)
}

package analytics

import (
	"sort"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// AggregateBatches rolls active batches up into one summary per base product.
// Products with no batches never appear in the output.
func AggregateBatches(batches []domain.InventoryBatch) []domain.ProductSummary {
	byProduct := make(map[string]*domain.ProductSummary)

	for _, b := range batches {
		summary, ok := byProduct[b.BaseProduct]
		if !ok {
			summary = &domain.ProductSummary{Name: b.BaseProduct}
			byProduct[b.BaseProduct] = summary
		}

		qty := b.Remaining()
		summary.TotalQty += qty
		summary.TotalValue += float64(qty) * b.Cost()
		summary.BatchCount++
	}

	summaries := make([]domain.ProductSummary, 0, len(byProduct))
	for _, summary := range byProduct {
		summary.AvgCost = AverageCost(summary.TotalValue, float64(summary.TotalQty))
		summary.Status = ClassifyStockLevel(summary.TotalQty)
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// SummarizeStock computes the KPI cards of the batch rollup.
func SummarizeStock(summaries []domain.ProductSummary) domain.StockKPI {
	var kpi domain.StockKPI
	for _, s := range summaries {
		kpi.TotalValue += s.TotalValue
		if s.Status == domain.StockLow {
			kpi.LowStock++
		} else {
			kpi.Healthy++
		}
	}
	return kpi
}

// AggregateRevenue sums transactions and splits revenue by exact revenue_type.
func AggregateRevenue(transactions []domain.Transaction) domain.RevenueTotals {
	totals := domain.RevenueTotals{OrderCount: len(transactions)}

	for _, t := range transactions {
		amount := t.Amount()
		totals.TotalRevenue += amount

		switch t.Type() {
		case domain.RevenueTypeColdTraffic:
			totals.ColdTrafficRevenue += amount
		case domain.RevenueTypeMRR:
			totals.MRRRevenue += amount
		}
	}

	return totals
}

// SumAdSpend returns total spend, NULL rows contributing zero.
func SumAdSpend(rows []domain.AdSpend) float64 {
	var total float64
	for _, r := range rows {
		total += r.Amount()
	}
	return total
}

// AggregateUnitsSold converts sold items into base-product units.
// Items whose product id maps to a base product count qty × units per variant;
// the rest are attributed to their product name as sold.
func AggregateUnitsSold(items []domain.TransactionItem, mappings []domain.ProductMapping) map[string]int64 {
	byID := make(map[string]domain.ProductMapping, len(mappings))
	for _, m := range mappings {
		byID[m.ProductID] = m
	}

	units := make(map[string]int64)
	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}

		if item.ExternalProductID != nil {
			if m, ok := byID[*item.ExternalProductID]; ok && m.Base() != "" {
				units[m.Base()] += item.Qty * m.Units()
				continue
			}
		}

		units[item.ProductName] += item.Qty
	}

	return units
}

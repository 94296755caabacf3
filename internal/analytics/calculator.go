package analytics

import (
	"math"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// OverdueLabel is shown instead of a reorder date once the reorder point has passed.
const OverdueLabel = "OVERDUE"

const reorderDateLayout = "Jan 2"

// safeDiv returns 0 instead of NaN or Inf.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}

	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

// AverageCost is total value over total quantity, 0 when quantity is 0.
func AverageCost(totalValue, totalQty float64) float64 {
	return safeDiv(totalValue, totalQty)
}

// MarginPercent is (revenue - costs) / revenue × 100, 0 when revenue is 0.
func MarginPercent(revenue, costs float64) float64 {
	return safeDiv(revenue-costs, revenue) * 100
}

// Runway is months of cash left at the given monthly burn, 0 when burn is not positive.
func Runway(cash, monthlyBurn float64) float64 {
	if monthlyBurn <= 0 {
		return 0
	}
	return safeDiv(cash, monthlyBurn)
}

// DaysToStockout is floor(stock / daily sales), 0 when either is not positive.
func DaysToStockout(stock int64, dailySales float64) int {
	if stock <= 0 || dailySales <= 0 {
		return 0
	}
	return int(math.Floor(float64(stock) / dailySales))
}

// DaysToReorder may be negative, meaning the reorder is overdue.
func DaysToReorder(daysToStockout, leadTimeDays int) int {
	return daysToStockout - leadTimeDays
}

// ROAS is revenue over ad spend, 0 when spend is 0.
func ROAS(revenue, adSpend float64) float64 {
	return safeDiv(revenue, adSpend)
}

// AnnualizedChurn projects a monthly MRR loss over a year.
func AnnualizedChurn(mrrLost float64) float64 {
	return mrrLost * 12
}

// AOV is revenue per order.
func AOV(revenue float64, orders int) float64 {
	return safeDiv(revenue, float64(orders))
}

// BlendedCAC is ad spend per order.
func BlendedCAC(adSpend float64, orders int) float64 {
	return safeDiv(adSpend, float64(orders))
}

// AddDays returns today's UTC date moved by days.
func AddDays(today time.Time, days int) time.Time {
	return domain.TruncateDay(today).AddDate(0, 0, days)
}

// ReorderLabel returns OverdueLabel for negative days, otherwise the reorder date.
func ReorderLabel(today time.Time, daysToReorder int) string {
	if daysToReorder < 0 {
		return OverdueLabel
	}
	return AddDays(today, daysToReorder).Format(reorderDateLayout)
}

// GrowthPercent is period-over-period growth, 0 without a positive baseline.
func GrowthPercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return safeDiv(current-previous, previous) * 100
}

// MonthsToTarget returns whole months until cash reaches target at the given monthly gain.
// The bool is false when the target cannot be reached.
func MonthsToTarget(cash, target, monthlyGain float64) (int, bool) {
	if cash >= target {
		return 0, true
	}
	if monthlyGain <= 0 {
		return 0, false
	}
	return int(math.Ceil((target - cash) / monthlyGain)), true
}

// DailySalesAverage spreads units sold over the look-back window.
func DailySalesAverage(unitsSold int64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return safeDiv(float64(unitsSold), float64(days))
}

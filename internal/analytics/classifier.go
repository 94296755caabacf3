package analytics

import "github.com/andresuchdata/hypnoscale/internal/domain"

// Threshold constants. Boundary values belong to the better side unless noted.
const (
	LowStockThreshold = 100 // qty < 100 is low; exactly 100 is healthy

	ReorderCriticalDays = 7  // ≤ 7 critical
	ReorderWarningDays  = 14 // ≤ 14 warning

	MarginHealthyAbove = 25.0 // > 25 healthy
	MarginModerateFrom = 10.0 // ≥ 10 moderate

	ChurnHealthyMax = 10.0 // ≤ 10 healthy
	ChurnWarningMax = 15.0 // ≤ 15 warning
	AtRiskM2Churn   = 18.0 // month-2 churn above this flags the product

	CohortHighChurnAbove   = 15.0
	CohortMediumChurnAbove = 8.0
	RetentionStrongFrom    = 50.0
	RetentionFairFrom      = 35.0

	ROASHealthyAbove      = 1.8
	TrueMarginHealthyFrom = 40.0
	RunwaySafeAbove       = 3.0

	AOVTarget         = 70.0
	GrossMarginTarget = 20.0
	CACTarget         = 50.0
)

// Thresholds maps a number onto a StatusLevel.
// Descending (the default) treats low values as bad: value ≤ Critical is critical,
// value ≤ Warning is a warning. Ascending treats high values as bad:
// value > Critical is critical, value > Warning is a warning.
type Thresholds struct {
	Critical  float64
	Warning   float64
	Ascending bool
}

var (
	reorderThresholds = Thresholds{Critical: ReorderCriticalDays, Warning: ReorderWarningDays}
	churnThresholds   = Thresholds{Critical: ChurnWarningMax, Warning: ChurnHealthyMax, Ascending: true}
)

// Classify is a pure threshold comparison.
func Classify(value float64, t Thresholds) domain.StatusLevel {
	if t.Ascending {
		switch {
		case value > t.Critical:
			return domain.StatusCritical
		case value > t.Warning:
			return domain.StatusWarning
		default:
			return domain.StatusHealthy
		}
	}

	switch {
	case value <= t.Critical:
		return domain.StatusCritical
	case value <= t.Warning:
		return domain.StatusWarning
	default:
		return domain.StatusHealthy
	}
}

// ClassifyStockLevel labels a product rollup by on-hand quantity.
func ClassifyStockLevel(totalQty int64) string {
	if totalQty < LowStockThreshold {
		return domain.StockLow
	}
	return domain.StockHealthy
}

// ClassifyReorder grades days until the reorder point.
func ClassifyReorder(daysToReorder int) domain.StatusLevel {
	return Classify(float64(daysToReorder), reorderThresholds)
}

// ClassifyMargin grades a contribution margin percentage.
func ClassifyMargin(margin float64) domain.MarginHealth {
	switch {
	case margin > MarginHealthyAbove:
		return domain.MarginHealthy
	case margin >= MarginModerateFrom:
		return domain.MarginModerate
	default:
		return domain.MarginAtRisk
	}
}

// ClassifyChurn grades a product churn percentage.
func ClassifyChurn(churn float64) domain.StatusLevel {
	return Classify(churn, churnThresholds)
}

// ClassifyCohortChurn grades a cohort month churn rate.
func ClassifyCohortChurn(rate float64) domain.ChurnSeverity {
	switch {
	case rate > CohortHighChurnAbove:
		return domain.ChurnHigh
	case rate > CohortMediumChurnAbove:
		return domain.ChurnMedium
	default:
		return domain.ChurnLow
	}
}

// ClassifyRetention grades a cohort retention rate.
func ClassifyRetention(rate float64) domain.RetentionBand {
	switch {
	case rate >= RetentionStrongFrom:
		return domain.RetentionStrong
	case rate >= RetentionFairFrom:
		return domain.RetentionFair
	default:
		return domain.RetentionWeak
	}
}

// ROASHealthy reports whether ad spend is returning enough revenue.
func ROASHealthy(roas float64) bool {
	return roas > ROASHealthyAbove
}

// TrueMarginHealthy reports whether the fully loaded margin is healthy.
func TrueMarginHealthy(margin float64) bool {
	return margin >= TrueMarginHealthyFrom
}

// RunwaySafe reports whether runway exceeds the safety floor.
func RunwaySafe(months float64) bool {
	return months > RunwaySafeAbove
}

// InsightStatus is success on positive growth, warning otherwise.
func InsightStatus(growth float64) string {
	if growth > 0 {
		return domain.InsightSuccess
	}
	return domain.InsightWarning
}

func kpiStatus(onTrack bool) domain.KPIStatus {
	if onTrack {
		return domain.KPIOnTrack
	}
	return domain.KPIFlagged
}

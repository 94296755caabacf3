package domain

// StatusLevel is the three-way health used across dashboards.
type StatusLevel string

const (
	StatusHealthy  StatusLevel = "healthy"
	StatusWarning  StatusLevel = "warning"
	StatusCritical StatusLevel = "critical"
)

// Stock level labels for the batch rollup table.
const (
	StockLow     = "Low Stock"
	StockHealthy = "Healthy"
)

// MarginHealth classifies contribution margin.
type MarginHealth string

const (
	MarginHealthy  MarginHealth = "healthy"
	MarginModerate MarginHealth = "moderate"
	MarginAtRisk   MarginHealth = "at-risk"
)

// ChurnSeverity classifies a cohort month churn rate.
type ChurnSeverity string

const (
	ChurnHigh   ChurnSeverity = "high"
	ChurnMedium ChurnSeverity = "medium"
	ChurnLow    ChurnSeverity = "low"
)

// RetentionBand classifies a cohort retention rate.
type RetentionBand string

const (
	RetentionStrong RetentionBand = "strong"
	RetentionFair   RetentionBand = "fair"
	RetentionWeak   RetentionBand = "weak"
)

// KPIStatus is used by the golden KPI cards.
type KPIStatus string

const (
	KPIOnTrack KPIStatus = "on-track"
	KPIFlagged KPIStatus = "flagged"
)

// Insight statuses stored on ai_daily_insights.status.
const (
	InsightSuccess = "success"
	InsightWarning = "warning"
)

var reorderBadges = map[StatusLevel]string{
	StatusCritical: "Reorder Now",
	StatusWarning:  "Order Soon",
	StatusHealthy:  "Healthy",
}

// ReorderBadge returns the badge text for a reorder status.
func ReorderBadge(status StatusLevel) string {
	if label, ok := reorderBadges[status]; ok {
		return label
	}

	return "Unknown"
}

package domain

// ProductChurn is one row of subscription_churn.
type ProductChurn struct {
	Product      string  `json:"product" db:"product"`
	ActiveSubs   int     `json:"active_subs" db:"active_subs"`
	TotalLost30d int     `json:"total_lost_30d" db:"total_lost_30d"`
	M1Churn      float64 `json:"m1_churn" db:"m1_churn"`
	M2Churn      float64 `json:"m2_churn" db:"m2_churn"`
	MRRLost      float64 `json:"mrr_lost" db:"mrr_lost"`
}

// ProductChurnView adds derived fields to a churn row.
type ProductChurnView struct {
	ProductChurn
	WorstMonth     string      `json:"worst_month"`
	WorstChurn     float64     `json:"worst_churn"`
	AnnualizedLoss float64     `json:"annualized_loss"`
	AtRisk         bool        `json:"at_risk"`
	Status         StatusLevel `json:"status"`
}

// ChurnSummary is the churn-per-product view.
type ChurnSummary struct {
	ViewStatus
	Products          []ProductChurnView `json:"products"`
	TotalActiveSubs   int                `json:"total_active_subs"`
	TotalLost         int                `json:"total_lost"`
	TotalMRRLost      float64            `json:"total_mrr_lost"`
	AnnualizedMRRLost float64            `json:"annualized_mrr_lost"`
	AtRiskProducts    int                `json:"at_risk_products"`
}

// CohortMonth is one month of a subscriber cohort, month 0 being acquisition.
type CohortMonth struct {
	MonthIndex int `json:"month_index" db:"month_index"`
	Active     int `json:"active" db:"active"`
	Churned    int `json:"churned" db:"churned"`
}

// CohortRow is a cohort month with derived rates.
type CohortRow struct {
	CohortMonth
	RetentionRate float64       `json:"retention_rate"`
	ChurnRate     float64       `json:"churn_rate"`
	Severity      ChurnSeverity `json:"severity"`
	Retention     RetentionBand `json:"retention"`
}

// CohortSummary is the cohort retention view.
type CohortSummary struct {
	ViewStatus
	Rows             []CohortRow `json:"rows"`
	BiggestDropMonth int         `json:"biggest_drop_month"`
	BiggestDropRate  float64     `json:"biggest_drop_rate"`
	AvgMonthlyChurn  float64     `json:"avg_monthly_churn"`
	Year1Retention   float64     `json:"year1_retention"`
}

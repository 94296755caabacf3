package analytics

import (
	"sort"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// year1MonthIndex is the cohort month used for the year-one retention figure.
const year1MonthIndex = 12

// SummarizeChurn derives per-product churn views and totals.
func SummarizeChurn(rows []domain.ProductChurn) domain.ChurnSummary {
	summary := domain.ChurnSummary{Products: make([]domain.ProductChurnView, 0, len(rows))}

	for _, r := range rows {
		worstMonth, worstChurn := "M1", r.M1Churn
		if r.M2Churn >= r.M1Churn {
			worstMonth, worstChurn = "M2", r.M2Churn
		}

		view := domain.ProductChurnView{
			ProductChurn:   r,
			WorstMonth:     worstMonth,
			WorstChurn:     worstChurn,
			AnnualizedLoss: AnnualizedChurn(r.MRRLost),
			AtRisk:         r.M2Churn > AtRiskM2Churn,
			Status:         ClassifyChurn(worstChurn),
		}

		summary.Products = append(summary.Products, view)
		summary.TotalActiveSubs += r.ActiveSubs
		summary.TotalLost += r.TotalLost30d
		summary.TotalMRRLost += r.MRRLost
		if view.AtRisk {
			summary.AtRiskProducts++
		}
	}

	summary.AnnualizedMRRLost = AnnualizedChurn(summary.TotalMRRLost)
	return summary
}

// SummarizeCohorts derives retention and churn rates per cohort month.
// Retention is measured against month 0; churn against the previous month.
func SummarizeCohorts(months []domain.CohortMonth) domain.CohortSummary {
	sorted := append([]domain.CohortMonth(nil), months...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MonthIndex < sorted[j].MonthIndex })

	summary := domain.CohortSummary{Rows: make([]domain.CohortRow, 0, len(sorted))}
	if len(sorted) == 0 {
		return summary
	}

	base := float64(sorted[0].Active)
	var churnSum float64
	year1Found := false

	for i, m := range sorted {
		row := domain.CohortRow{
			CohortMonth:   m,
			RetentionRate: safeDiv(float64(m.Active), base) * 100,
		}
		if i > 0 {
			row.ChurnRate = safeDiv(float64(m.Churned), float64(sorted[i-1].Active)) * 100
			churnSum += row.ChurnRate
		}
		row.Severity = ClassifyCohortChurn(row.ChurnRate)
		row.Retention = ClassifyRetention(row.RetentionRate)

		if row.ChurnRate > summary.BiggestDropRate {
			summary.BiggestDropRate = row.ChurnRate
			summary.BiggestDropMonth = m.MonthIndex
		}
		if m.MonthIndex == year1MonthIndex {
			summary.Year1Retention = row.RetentionRate
			year1Found = true
		}

		summary.Rows = append(summary.Rows, row)
	}

	if len(sorted) > 1 {
		summary.AvgMonthlyChurn = churnSum / float64(len(sorted)-1)
	}
	if !year1Found {
		summary.Year1Retention = summary.Rows[len(summary.Rows)-1].RetentionRate
	}

	return summary
}

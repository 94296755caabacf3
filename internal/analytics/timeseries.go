package analytics

import (
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// DayRange lists every UTC day in [start, end]. It is empty when start is after end.
func DayRange(start, end time.Time) []time.Time {
	first := domain.TruncateDay(start)
	last := domain.TruncateDay(end)
	if first.After(last) {
		return nil
	}

	days := make([]time.Time, 0, int(last.Sub(first).Hours()/24)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// BuildDailySeries returns one DailyMetric per day in [start, end], ascending,
// with zero values for days that have no rows. Rows outside the range are ignored.
func BuildDailySeries(start, end time.Time, transactions []domain.Transaction, spend []domain.AdSpend) []domain.DailyMetric {
	days := DayRange(start, end)
	if len(days) == 0 {
		return []domain.DailyMetric{}
	}

	buckets := make(map[string]*domain.DailyMetric, len(days))
	for _, d := range days {
		key := domain.DayKey(d)
		buckets[key] = &domain.DailyMetric{Date: key}
	}

	for _, t := range transactions {
		bucket, ok := buckets[domain.DayKey(t.Date)]
		if !ok {
			continue
		}

		amount := t.Amount()
		bucket.Revenue += amount
		switch t.Type() {
		case domain.RevenueTypeColdTraffic:
			bucket.ColdTrafficRevenue += amount
		case domain.RevenueTypeMRR:
			bucket.MRRRevenue += amount
		}
	}

	for _, s := range spend {
		if bucket, ok := buckets[domain.DayKey(s.Date)]; ok {
			bucket.AdSpend += s.Amount()
		}
	}

	// derived fields only after every fold has landed
	series := make([]domain.DailyMetric, 0, len(days))
	for _, d := range days {
		bucket := buckets[domain.DayKey(d)]
		bucket.Profit = bucket.Revenue - bucket.AdSpend
		bucket.Margin = MarginPercent(bucket.Revenue, bucket.AdSpend)
		series = append(series, *bucket)
	}

	return series
}

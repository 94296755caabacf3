package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// BriefingWindowDays is how far back the briefing reads transactions.
	BriefingWindowDays = 14
	briefingWeekDays   = 7
	briefingTitle      = "Daily Executive Briefing"
	briefingType       = "performance"
)

// BriefingStart returns the first day of the briefing window.
func BriefingStart(today time.Time) time.Time {
	return AddDays(today, -BriefingWindowDays)
}

// BuildWeeklyBriefing compares the last seven days against the seven before them.
func BuildWeeklyBriefing(transactions []domain.Transaction, today time.Time) domain.WeeklyBriefing {
	weekStart := AddDays(today, -briefingWeekDays)

	thisWeek := decimal.Zero
	lastWeek := decimal.Zero
	mrr := decimal.Zero

	for _, t := range transactions {
		amount := decimal.NewFromFloat(t.Amount())
		if domain.TruncateDay(t.Date).Before(weekStart) {
			lastWeek = lastWeek.Add(amount)
		} else {
			thisWeek = thisWeek.Add(amount)
		}
		if t.Type() == domain.RevenueTypeMRR {
			mrr = mrr.Add(amount)
		}
	}

	growth := GrowthPercent(thisWeek.InexactFloat64(), lastWeek.InexactFloat64())

	return domain.WeeklyBriefing{
		ThisWeek:      thisWeek,
		LastWeek:      lastWeek,
		MRRRevenue:    mrr,
		GrowthPercent: growth,
		Transactions:  len(transactions),
		Insight: domain.DailyInsight{
			Date:  domain.TruncateDay(today),
			Title: briefingTitle,
			Content: fmt.Sprintf("Revenue: $%s (%+.1f%% vs last week). MRR contributed $%s.",
				FormatWholeDollars(thisWeek), growth, FormatWholeDollars(mrr)),
			Status: InsightStatus(growth),
			Type:   briefingType,
		},
	}
}

// FormatWholeDollars renders an amount rounded to whole units with thousands separators.
func FormatWholeDollars(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().StringFixed(0)

	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

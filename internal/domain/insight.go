package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyInsight is one briefing row in ai_daily_insights. There is at most one per date.
type DailyInsight struct {
	Date    time.Time `json:"date" db:"date"`
	Title   string    `json:"title" db:"title"`
	Content string    `json:"content" db:"content"`
	Status  string    `json:"status" db:"status"`
	Type    string    `json:"type" db:"type"`
}

// WeeklyBriefing holds the numbers behind a daily insight.
type WeeklyBriefing struct {
	ThisWeek      decimal.Decimal `json:"this_week"`
	LastWeek      decimal.Decimal `json:"last_week"`
	MRRRevenue    decimal.Decimal `json:"mrr_revenue"`
	GrowthPercent float64         `json:"growth_percent"`
	Transactions  int             `json:"transactions"`
	Insight       DailyInsight    `json:"insight"`
}

package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/analytics"
	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
	"github.com/rs/zerolog/log"
)

type InsightService struct {
	finance  repository.FinanceRepository
	insights repository.InsightRepository
	fetch    config.FetchConfig
	now      Clock
}

func NewInsightService(finance repository.FinanceRepository, insights repository.InsightRepository, fetch config.FetchConfig) *InsightService {
	return &InsightService{finance: finance, insights: insights, fetch: fetch, now: utcNow}
}

func (s *InsightService) Latest(ctx context.Context) (domain.DailyInsight, error) {
	return s.insights.LatestInsight(ctx)
}

// Generate writes today's briefing, replacing any earlier one for the same date.
func (s *InsightService) Generate(ctx context.Context) (domain.WeeklyBriefing, error) {
	today := domain.TruncateDay(s.now())
	from := analytics.BriefingStart(today)
	to := today.AddDate(0, 0, 1)

	txs, err := repository.FetchPages(ctx, pageOptions(s.fetch, "transactions"),
		func(ctx context.Context, offset, limit int) ([]domain.Transaction, bool, error) {
			return s.finance.ListTransactions(ctx, from, to, offset, limit)
		})
	if err != nil {
		return domain.WeeklyBriefing{}, fmt.Errorf("failed to load briefing transactions: %w", err)
	}

	briefing := analytics.BuildWeeklyBriefing(txs.Rows, today)

	if err := s.insights.ReplaceInsight(ctx, briefing.Insight); err != nil {
		return domain.WeeklyBriefing{}, err
	}

	log.Info().
		Str("date", domain.DayKey(today)).
		Str("this_week", briefing.ThisWeek.StringFixed(2)).
		Float64("growth", briefing.GrowthPercent).
		Bool("possible_undercount", txs.Truncated).
		Msg("daily insight generated")

	return briefing, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightService_LatestBeforeFirstRun(t *testing.T) {
	svc := NewInsightService(&fakeFinanceRepo{}, &fakeInsightRepo{}, config.FetchConfig{})

	_, err := svc.Latest(context.Background())

	assert.ErrorIs(t, err, domain.ErrInsightNotFound)
}

func TestInsightService_GenerateReplacesSameDay(t *testing.T) {
	finance := &fakeFinanceRepo{
		txs: []domain.Transaction{
			{TransactionID: "A", Date: utcDay(2025, 1, 3), TotalAmount: f64(100)},
			{TransactionID: "B", Date: utcDay(2025, 1, 8), TotalAmount: f64(100)},
			{TransactionID: "C", Date: utcDay(2025, 1, 14), TotalAmount: f64(50), RevenueType: str(domain.RevenueTypeMRR)},
		},
	}
	insights := &fakeInsightRepo{}
	svc := NewInsightService(finance, insights, config.FetchConfig{})
	svc.now = fixedClock(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	briefing, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, [2]time.Time{utcDay(2025, 1, 1), utcDay(2025, 1, 16)}, finance.lastRange)
	assert.True(t, briefing.ThisWeek.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 50.0, briefing.GrowthPercent)

	_, err = svc.Generate(ctx)
	require.NoError(t, err)
	assert.Len(t, insights.byDate, 1)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, utcDay(2025, 1, 15), latest.Date)
	assert.Equal(t, "Revenue: $150 (+50.0% vs last week). MRR contributed $50.", latest.Content)
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/pipeline"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	sql  string
	args []any
	err  error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql, r.args = sql, args
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestAdSpendStore_UpsertAdInsight(t *testing.T) {
	db := &recordingExecer{}
	day := time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC)

	err := NewAdSpendStore(db).UpsertAdInsight(context.Background(), pipeline.AdInsight{
		Date:          day,
		AdAccountID:   "act_1",
		AdAccountName: "HypnoScale US",
		CampaignID:    "120210",
		CampaignName:  "Roller Cold",
		Spend:         decimal.RequireFromString("41.27"),
		Impressions:   5230,
		Clicks:        88,
	})

	require.NoError(t, err)
	assert.Contains(t, db.sql, "INSERT INTO facebook_ads")
	assert.Contains(t, db.sql, "ON CONFLICT (date, campaign_id) DO UPDATE")
	assert.Contains(t, db.sql, "spend = EXCLUDED.spend")
	require.Len(t, db.args, 10)
	assert.Equal(t, day, db.args[0])
	assert.Equal(t, "120210", db.args[3])
	assert.Equal(t, "41.27", db.args[5].(decimal.Decimal).String())
}

func TestAdSpendStore_UpsertAdInsightError(t *testing.T) {
	boom := errors.New("relation \"facebook_ads\" does not exist")
	store := NewAdSpendStore(&recordingExecer{err: boom})

	err := store.UpsertAdInsight(context.Background(), pipeline.AdInsight{CampaignID: "1"})

	assert.ErrorIs(t, err, boom)
}

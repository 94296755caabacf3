package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/pipeline"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is the part of a pgx pool the ad spend store writes through.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const upsertAdInsightSQL = `
		INSERT INTO facebook_ads (
			date, ad_account_id, ad_account_name, campaign_id, campaign_name,
			spend, impressions, clicks, cpc, ctr
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (date, campaign_id) DO UPDATE SET
			ad_account_id = EXCLUDED.ad_account_id,
			ad_account_name = EXCLUDED.ad_account_name,
			campaign_name = EXCLUDED.campaign_name,
			spend = EXCLUDED.spend,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			cpc = EXCLUDED.cpc,
			ctr = EXCLUDED.ctr`

// AdSpendStore writes ad insights into facebook_ads, one row per day and campaign.
type AdSpendStore struct {
	db execer
}

// NewAdSpendStore accepts a *pgxpool.Pool or a pgx.Tx.
func NewAdSpendStore(db execer) *AdSpendStore {
	return &AdSpendStore{db: db}
}

func (s *AdSpendStore) UpsertAdInsight(ctx context.Context, in pipeline.AdInsight) error {
	_, err := s.db.Exec(ctx, upsertAdInsightSQL,
		in.Date, in.AdAccountID, in.AdAccountName, in.CampaignID, in.CampaignName,
		in.Spend, in.Impressions, in.Clicks, in.CPC, in.CTR,
	)
	if err != nil {
		return fmt.Errorf("error upserting ad insight %s on %s: %w", in.CampaignID, in.Date.Format("2006-01-02"), err)
	}
	return nil
}

var _ pipeline.AdSpendWriter = (*AdSpendStore)(nil)

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/observability"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const accountPrefix = "act_"

// RawInsight is one campaign-day row of an ads insights export.
type RawInsight struct {
	DateStart    string      `json:"date_start"`
	AccountID    flexString  `json:"account_id"`
	AccountName  string      `json:"account_name"`
	CampaignID   flexString  `json:"campaign_id"`
	CampaignName string      `json:"campaign_name"`
	Spend        flexDecimal `json:"spend"`
	Impressions  flexString  `json:"impressions"`
	Clicks       flexString  `json:"clicks"`
	CPC          flexDecimal `json:"cpc"`
	CTR          flexDecimal `json:"ctr"`
}

// insightPage is one page of the insights API as saved to disk.
type insightPage struct {
	Data   []RawInsight `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AdInsight is the facebook_ads row written for a campaign-day.
type AdInsight struct {
	Date          time.Time
	AdAccountID   string
	AdAccountName string
	CampaignID    string
	CampaignName  string
	Spend         decimal.Decimal
	Impressions   int64
	Clicks        int64
	CPC           decimal.Decimal
	CTR           decimal.Decimal
}

// NormalizeAccountID trims id and adds the act_ prefix when missing.
func NormalizeAccountID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, accountPrefix) {
		return id
	}
	return accountPrefix + id
}

// Record validates the row. account is used when the row carries no account id.
func (r RawInsight) Record(account string) (AdInsight, error) {
	campaign := strings.TrimSpace(string(r.CampaignID))
	if campaign == "" {
		return AdInsight{}, errors.New("insight has no campaign_id")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(r.DateStart))
	if err != nil {
		return AdInsight{}, fmt.Errorf("invalid date_start %q for campaign %s", r.DateStart, campaign)
	}

	if id := string(r.AccountID); id != "" {
		account = id
	}
	name := r.AccountName
	if name == "" {
		name = "Unknown"
	}

	return AdInsight{
		Date:          date,
		AdAccountID:   NormalizeAccountID(account),
		AdAccountName: name,
		CampaignID:    campaign,
		CampaignName:  r.CampaignName,
		Spend:         r.Spend.Decimal,
		Impressions:   parseCount(r.Impressions),
		Clicks:        parseCount(r.Clicks),
		CPC:           r.CPC.Decimal,
		CTR:           r.CTR.Decimal,
	}, nil
}

func parseCount(v flexString) int64 {
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(string(v), 64); ferr == nil {
			return int64(f)
		}
		return 0
	}
	return n
}

// ParseInsights reads an insights export. The input holds one or more JSON
// values, each a page object with a data array, an array of pages, or a
// bare array of rows. A page carrying an API error fails the parse.
func ParseInsights(r io.Reader) ([]RawInsight, error) {
	dec := json.NewDecoder(r)
	rows := make([]RawInsight, 0)

	for {
		var value json.RawMessage
		if err := dec.Decode(&value); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("error decoding insights: %w", err)
		}

		decoded, err := decodeInsightValue(value)
		if err != nil {
			return nil, err
		}
		rows = append(rows, decoded...)
	}
	return rows, nil
}

func decodeInsightValue(value json.RawMessage) ([]RawInsight, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil, nil
	}

	switch value[0] {
	case '{':
		var page insightPage
		if err := json.Unmarshal(value, &page); err != nil {
			return nil, fmt.Errorf("error decoding insights page: %w", err)
		}
		if page.Error != nil {
			return nil, fmt.Errorf("insights page holds an api error: %s", page.Error.Message)
		}
		return page.Data, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(value, &elems); err != nil {
			return nil, fmt.Errorf("error decoding insights: %w", err)
		}
		var rows []RawInsight
		for i, elem := range elems {
			if isInsightPage(elem) {
				page, err := decodeInsightValue(elem)
				if err != nil {
					return nil, err
				}
				rows = append(rows, page...)
				continue
			}
			var row RawInsight
			if err := json.Unmarshal(elem, &row); err != nil {
				return nil, fmt.Errorf("error decoding insight %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unexpected insights value %.20s", value)
	}
}

func isInsightPage(elem json.RawMessage) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(elem, &keys); err != nil {
		return false
	}
	_, data := keys["data"]
	_, apiErr := keys["error"]
	return data || apiErr
}

// AdSpendWriter stores ad insights keyed by day and campaign.
type AdSpendWriter interface {
	UpsertAdInsight(ctx context.Context, insight AdInsight) error
}

// AdSyncResult counts the rows of one ad spend sync.
type AdSyncResult struct {
	Saved  int
	Failed int
}

// AdSyncer upserts insights rows into facebook_ads.
type AdSyncer struct {
	store AdSpendWriter
	cfg   SyncConfig
}

func NewAdSyncer(store AdSpendWriter, cfg SyncConfig) *AdSyncer {
	return &AdSyncer{store: store, cfg: cfg}
}

// Sync writes rows one by one. A bad or failing row is logged and counted, and the run goes on.
// account is applied to rows without their own account id.
func (s *AdSyncer) Sync(ctx context.Context, account string, rows []RawInsight, progress func()) (AdSyncResult, error) {
	var result AdSyncResult

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("ad spend sync interrupted: %w", err)
		}

		s.syncOne(ctx, account, row, &result)
		if progress != nil {
			progress()
		}
	}

	log.Info().
		Str("account", NormalizeAccountID(account)).
		Int("saved", result.Saved).
		Int("failed", result.Failed).
		Msg("ad spend sync finished")
	return result, nil
}

func (s *AdSyncer) syncOne(ctx context.Context, account string, row RawInsight, result *AdSyncResult) {
	insight, err := row.Record(account)
	if err != nil {
		result.Failed++
		observability.AdInsightsSynced.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("invalid ad insight")
		return
	}

	err = withRetry(ctx, s.cfg, func(attempt int, err error) {
		log.Warn().Err(err).Str("campaign_id", insight.CampaignID).Int("attempt", attempt).Msg("retrying ad insight")
	}, func() error {
		return s.store.UpsertAdInsight(ctx, insight)
	})
	if err != nil {
		result.Failed++
		observability.AdInsightsSynced.WithLabelValues("failed").Inc()
		log.Error().Err(err).
			Str("campaign_id", insight.CampaignID).
			Str("date", insight.Date.Format("2006-01-02")).
			Msg("failed to save ad insight")
		return
	}

	result.Saved++
	observability.AdInsightsSynced.WithLabelValues("saved").Inc()
}

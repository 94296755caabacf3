package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insightsExport = `{
  "data": [
    {"date_start": "2025-12-27", "campaign_id": "120210", "campaign_name": "Roller Cold", "spend": "41.27", "impressions": "5230", "clicks": "88", "cpc": "0.47", "ctr": "1.68", "account_name": "HypnoScale US"},
    {"date_start": "2025-12-28", "campaign_id": 120210, "campaign_name": "Roller Cold", "spend": 12.5}
  ],
  "paging": {"next": "https://graph.example/v19.0/act_1/insights?after=abc"}
}
{"data": [{"date_start": "2025-12-28", "campaign_id": "120300", "spend": "3"}], "paging": {}}
`

type memoryAdStore struct {
	rows    map[string]AdInsight
	failFor map[string]int
	calls   int
}

func newMemoryAdStore() *memoryAdStore {
	return &memoryAdStore{rows: make(map[string]AdInsight), failFor: make(map[string]int)}
}

func (s *memoryAdStore) UpsertAdInsight(_ context.Context, in AdInsight) error {
	s.calls++
	if s.failFor[in.CampaignID] > 0 {
		s.failFor[in.CampaignID]--
		return errors.New("connection reset")
	}
	s.rows[in.Date.Format("2006-01-02")+"/"+in.CampaignID] = in
	return nil
}

func TestParseInsights_Pages(t *testing.T) {
	rows, err := ParseInsights(strings.NewReader(insightsExport))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "120210", string(rows[1].CampaignID))
	assert.Equal(t, "12.5", rows[1].Spend.String())
	assert.Equal(t, "120300", string(rows[2].CampaignID))
}

func TestParseInsights_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"bare rows", `[{"date_start": "2025-01-01", "campaign_id": "1"}]`, 1},
		{"array of pages", `[{"data": [{"campaign_id": "1"}, {"campaign_id": "2"}]}, {"data": []}]`, 2},
		{"empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseInsights(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestParseInsights_APIError(t *testing.T) {
	_, err := ParseInsights(strings.NewReader(`{"error": {"message": "Invalid OAuth access token"}}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestRawInsight_Record(t *testing.T) {
	rows, err := ParseInsights(strings.NewReader(insightsExport))
	require.NoError(t, err)

	first, err := rows[0].Record("1234")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "act_1234", first.AdAccountID)
	assert.Equal(t, "HypnoScale US", first.AdAccountName)
	assert.Equal(t, "41.27", first.Spend.String())
	assert.Equal(t, int64(5230), first.Impressions)
	assert.Equal(t, int64(88), first.Clicks)
	assert.Equal(t, "1.68", first.CTR.String())

	second, err := rows[1].Record("act_1234")
	require.NoError(t, err)
	assert.Equal(t, "act_1234", second.AdAccountID)
	assert.Equal(t, "Unknown", second.AdAccountName)
	assert.Zero(t, second.Impressions)
	assert.True(t, second.CPC.IsZero())

	_, err = RawInsight{DateStart: "2025-01-01"}.Record("1")
	assert.Error(t, err)
	_, err = RawInsight{DateStart: "27/12/2025", CampaignID: "1"}.Record("1")
	assert.Error(t, err)
}

func TestNormalizeAccountID(t *testing.T) {
	assert.Equal(t, "act_111", NormalizeAccountID(" 111 "))
	assert.Equal(t, "act_222", NormalizeAccountID("act_222"))
	assert.Equal(t, "", NormalizeAccountID(""))
}

func TestAdSyncer_UpsertsByDayAndCampaign(t *testing.T) {
	rows, err := ParseInsights(strings.NewReader(insightsExport))
	require.NoError(t, err)
	rows = append(rows, RawInsight{DateStart: "2025-12-27", CampaignID: "120210", Spend: flexDecimal{}}, RawInsight{CampaignID: "bad"})

	store := newMemoryAdStore()
	calls := 0
	result, err := NewAdSyncer(store, SyncConfig{}).Sync(context.Background(), "999", rows, func() { calls++ })

	require.NoError(t, err)
	assert.Equal(t, 4, result.Saved)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 5, calls)
	assert.Len(t, store.rows, 3, "a repeated day and campaign overwrites the earlier row")
	assert.True(t, store.rows["2025-12-27/120210"].Spend.IsZero())
	assert.Equal(t, "act_999", store.rows["2025-12-28/120300"].AdAccountID)
}

func TestAdSyncer_RetriesFailedWrites(t *testing.T) {
	store := newMemoryAdStore()
	store.failFor["1"] = 1
	rows := []RawInsight{{DateStart: "2025-01-01", CampaignID: "1"}}

	result, err := NewAdSyncer(store, SyncConfig{RetryAttempts: 2}).Sync(context.Background(), "act_1", rows, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 2, store.calls)
}

func TestAdSyncer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdSyncer(newMemoryAdStore(), SyncConfig{}).Sync(ctx, "1", []RawInsight{{CampaignID: "1"}}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }

func pageSlice[T any](rows []T, offset, limit int) ([]T, bool) {
	if offset >= len(rows) {
		return []T{}, false
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return append([]T(nil), rows[offset:end]...), end < len(rows)
}

// memoryCache mimics the redis cache: values round-trip through JSON and Set overwrites.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, view, params string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.data[view+"|"+params]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (c *memoryCache) Set(_ context.Context, view, params string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[view+"|"+params] = payload
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, view string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, view+"|") {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) has(view, params string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[view+"|"+params]
	return ok
}

type fakeFinanceRepo struct {
	mu        sync.Mutex
	txs       []domain.Transaction
	spend     []domain.AdSpend
	err       error
	txCalls   int
	lastRange [2]time.Time
}

func (r *fakeFinanceRepo) ListTransactions(_ context.Context, from, to time.Time, offset, limit int) ([]domain.Transaction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txCalls++
	r.lastRange = [2]time.Time{from, to}
	if r.err != nil {
		return nil, false, r.err
	}
	var in []domain.Transaction
	for _, t := range r.txs {
		if !t.Date.Before(from) && t.Date.Before(to) {
			in = append(in, t)
		}
	}
	rows, more := pageSlice(in, offset, limit)
	return rows, more, nil
}

func (r *fakeFinanceRepo) ListAdSpend(_ context.Context, from, to time.Time, offset, limit int) ([]domain.AdSpend, bool, error) {
	var in []domain.AdSpend
	for _, s := range r.spend {
		if !s.Date.Before(from) && s.Date.Before(to) {
			in = append(in, s)
		}
	}
	rows, more := pageSlice(in, offset, limit)
	return rows, more, nil
}

type fakeInventoryRepo struct {
	mu       sync.Mutex
	batches  []domain.InventoryBatch
	items    []domain.TransactionItem
	inserted []domain.NewBatch
	since    time.Time
	err      error
}

func (r *fakeInventoryRepo) ListActiveBatches(_ context.Context, offset, limit int) ([]domain.InventoryBatch, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	rows, more := pageSlice(r.batches, offset, limit)
	return rows, more, nil
}

func (r *fakeInventoryRepo) InsertBatch(_ context.Context, b domain.NewBatch) (domain.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, b)
	created := domain.InventoryBatch{
		BatchID:      int64(len(r.batches) + 1),
		BaseProduct:  b.BaseProduct,
		UnitCost:     f64(b.UnitCost),
		InitialQty:   b.Quantity,
		RemainingQty: i64(b.Quantity),
		Status:       domain.BatchStatusActive,
	}
	r.batches = append(r.batches, created)
	return created, nil
}

func (r *fakeInventoryRepo) ListTransactionItems(_ context.Context, since time.Time, offset, limit int) ([]domain.TransactionItem, bool, error) {
	r.mu.Lock()
	r.since = since
	r.mu.Unlock()
	var in []domain.TransactionItem
	for _, it := range r.items {
		if !it.Date.Before(since) {
			in = append(in, it)
		}
	}
	rows, more := pageSlice(in, offset, limit)
	return rows, more, nil
}

type fakeMappingRepo struct {
	mu    sync.Mutex
	rows  map[string]domain.ProductMapping
	saved []domain.ProductMapping
}

func newFakeMappingRepo(mappings ...domain.ProductMapping) *fakeMappingRepo {
	r := &fakeMappingRepo{rows: make(map[string]domain.ProductMapping)}
	for _, m := range mappings {
		r.rows[m.ProductID] = m
	}
	return r
}

func (r *fakeMappingRepo) ListMappings(_ context.Context) ([]domain.ProductMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ProductMapping, 0, len(r.rows))
	for _, m := range r.rows {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMappingRepo) ListUnmapped(ctx context.Context) ([]domain.ProductMapping, error) {
	all, _ := r.ListMappings(ctx)
	return unmapped(all), nil
}

func (r *fakeMappingRepo) GetMapping(_ context.Context, productID string) (domain.ProductMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[productID]
	if !ok {
		return domain.ProductMapping{}, domain.ErrMappingNotFound
	}
	return m, nil
}

func (r *fakeMappingRepo) SaveMapping(_ context.Context, m domain.ProductMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.ProductID] = m
	r.saved = append(r.saved, m)
	return nil
}

type fakeInsightRepo struct {
	byDate map[string]domain.DailyInsight
}

func (r *fakeInsightRepo) LatestInsight(_ context.Context) (domain.DailyInsight, error) {
	var latest domain.DailyInsight
	found := false
	for _, ins := range r.byDate {
		if !found || ins.Date.After(latest.Date) {
			latest, found = ins, true
		}
	}
	if !found {
		return domain.DailyInsight{}, domain.ErrInsightNotFound
	}
	return latest, nil
}

func (r *fakeInsightRepo) ReplaceInsight(_ context.Context, ins domain.DailyInsight) error {
	if r.byDate == nil {
		r.byDate = make(map[string]domain.DailyInsight)
	}
	r.byDate[domain.DayKey(ins.Date)] = ins
	return nil
}

type fakeRetentionRepo struct {
	churn   []domain.ProductChurn
	cohorts []domain.CohortMonth
	err     error
}

func (r *fakeRetentionRepo) ListProductChurn(_ context.Context) ([]domain.ProductChurn, error) {
	return r.churn, r.err
}

func (r *fakeRetentionRepo) ListCohortMonths(_ context.Context) ([]domain.CohortMonth, error) {
	return r.cohorts, r.err
}

type fakeCostRepo struct {
	costs []domain.OperatingCost
	err   error
}

func (r *fakeCostRepo) ListOperatingCosts(_ context.Context) ([]domain.OperatingCost, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.costs, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/pipeline"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderStore writes synced orders through a pgx pool. Each order runs in its own transaction.
type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

func (s *OrderStore) WithinTx(ctx context.Context, fn func(tx pipeline.StoreTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&orderTx{tx: tx})
	})
}

// SeedBatches bulk loads new active batches and returns the number of rows copied.
func (s *OrderStore) SeedBatches(ctx context.Context, batches []domain.NewBatch) (int64, error) {
	rows := make([][]any, 0, len(batches))
	for _, b := range batches {
		if err := b.Validate(); err != nil {
			return 0, fmt.Errorf("batch %q: %w", b.BaseProduct, err)
		}
		rows = append(rows, []any{b.BaseProduct, b.UnitCost, b.Quantity, b.Quantity, domain.BatchStatusActive})
	}

	copied, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"inventory_batches"},
		[]string{"base_product", "unit_cost", "initial_qty", "remaining_qty", "status"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("error seeding inventory batches: %w", err)
	}
	return copied, nil
}

type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) GetMapping(ctx context.Context, productID string) (domain.ProductMapping, error) {
	var (
		m      domain.ProductMapping
		status string
	)
	err := t.tx.QueryRow(ctx, `
		SELECT product_id, COALESCE(offer_name, ''), base_product, units_per_variant, status
		FROM product_map
		WHERE product_id = $1`, productID,
	).Scan(&m.ProductID, &m.OfferName, &m.BaseProduct, &m.UnitsPerVariant, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProductMapping{}, domain.ErrMappingNotFound
	}
	if err != nil {
		return domain.ProductMapping{}, fmt.Errorf("error getting product mapping: %w", err)
	}
	m.Status = domain.MappingStatus(status)
	return m, nil
}

func (t *orderTx) InsertMapping(ctx context.Context, m domain.ProductMapping) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO product_map (product_id, offer_name, base_product, units_per_variant, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id) DO NOTHING`,
		m.ProductID, m.OfferName, m.BaseProduct, m.UnitsPerVariant, string(m.Status),
	)
	if err != nil {
		return fmt.Errorf("error inserting product mapping: %w", err)
	}
	return nil
}

func (t *orderTx) UpsertTransaction(ctx context.Context, rec pipeline.OrderRecord) (bool, error) {
	var raw *string
	if len(rec.RawData) > 0 {
		s := string(rec.RawData)
		raw = &s
	}

	var inserted bool
	err := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (
			transaction_id, order_id, date, total_amount, status, event_type,
			revenue_type, payment_status, campaign_id, currency, raw_data
		) VALUES ($1, $1, $2, $3, 'sale', $4, $5, $6, NULLIF($7, ''), $8, $9::jsonb)
		ON CONFLICT (transaction_id) DO UPDATE SET
			date = EXCLUDED.date,
			total_amount = EXCLUDED.total_amount,
			event_type = EXCLUDED.event_type,
			revenue_type = EXCLUDED.revenue_type,
			payment_status = EXCLUDED.payment_status,
			campaign_id = EXCLUDED.campaign_id,
			currency = EXCLUDED.currency,
			raw_data = EXCLUDED.raw_data
		RETURNING (xmax = 0)`,
		rec.TransactionID, rec.Date, rec.TotalAmount, rec.EventType,
		rec.RevenueType, rec.PaymentStatus, rec.CampaignID, rec.Currency, raw,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("error upserting transaction %s: %w", rec.TransactionID, err)
	}
	return inserted, nil
}

func (t *orderTx) ReplaceItems(ctx context.Context, transactionID string, items []pipeline.OrderItem) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("error deleting transaction items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(items))
	for _, it := range items {
		var productID *string
		if it.ExternalProductID != "" {
			id := it.ExternalProductID
			productID = &id
		}
		rows = append(rows, []any{it.TransactionID, it.ProductName, it.Qty, productID, it.Price})
	}

	_, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"transaction_items"},
		[]string{"transaction_id", "product_name", "qty", "external_product_id", "price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("error inserting transaction items: %w", err)
	}
	return nil
}

func (t *orderTx) LockActiveBatches(ctx context.Context, baseProduct string) ([]domain.InventoryBatch, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT batch_id, base_product, unit_cost::float8 AS unit_cost, initial_qty, remaining_qty, status
		FROM inventory_batches
		WHERE base_product = $1 AND status = $2
		ORDER BY batch_id
		FOR UPDATE`, baseProduct, domain.BatchStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("error locking inventory batches: %w", err)
	}

	batches, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.InventoryBatch])
	if err != nil {
		return nil, fmt.Errorf("error scanning inventory batches: %w", err)
	}
	return batches, nil
}

func (t *orderTx) UpdateBatch(ctx context.Context, batchID, remaining int64, status string) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE inventory_batches SET remaining_qty = $1, status = $2 WHERE batch_id = $3`,
		remaining, status, batchID,
	)
	if err != nil {
		return fmt.Errorf("error updating inventory batch: %w", err)
	}
	return nil
}

func (t *orderTx) InsertLedger(ctx context.Context, e domain.CostLedgerEntry) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cost_ledger (transaction_id, product_name, batch_id, qty_deducted, cost_per_unit_at_time)
		VALUES ($1, $2, $3, $4, $5)`,
		e.TransactionID, e.ProductName, e.BatchID, e.QtyDeducted, e.CostPerUnitAtTime,
	)
	if err != nil {
		return fmt.Errorf("error writing cost ledger: %w", err)
	}
	return nil
}

var (
	_ pipeline.Store   = (*OrderStore)(nil)
	_ pipeline.StoreTx = (*orderTx)(nil)
)

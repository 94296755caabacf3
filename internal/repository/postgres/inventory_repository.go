package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListActiveBatches(ctx context.Context, offset, limit int) ([]domain.InventoryBatch, bool, error) {
	query := `
		SELECT batch_id, base_product, unit_cost, initial_qty, remaining_qty, status
		FROM inventory_batches
		WHERE status = $1
		ORDER BY batch_id
		LIMIT $2 OFFSET $3
	`

	var rows []domain.InventoryBatch
	if err := r.db.SelectContext(ctx, &rows, query, domain.BatchStatusActive, limit+1, offset); err != nil {
		return nil, false, fmt.Errorf("error getting inventory batches: %w", err)
	}

	rows, more := page(rows, limit)
	return rows, more, nil
}

func (r *inventoryRepository) InsertBatch(ctx context.Context, batch domain.NewBatch) (domain.InventoryBatch, error) {
	query := `
		INSERT INTO inventory_batches (base_product, unit_cost, initial_qty, remaining_qty, status)
		VALUES ($1, $2, $3, $3, $4)
		RETURNING batch_id, base_product, unit_cost, initial_qty, remaining_qty, status
	`

	var created domain.InventoryBatch
	err := r.db.QueryRowxContext(ctx, query,
		batch.BaseProduct, batch.UnitCost, batch.Quantity, domain.BatchStatusActive,
	).StructScan(&created)
	if err != nil {
		return domain.InventoryBatch{}, fmt.Errorf("failed to insert inventory batch: %w", err)
	}

	return created, nil
}

func (r *inventoryRepository) ListTransactionItems(ctx context.Context, since time.Time, offset, limit int) ([]domain.TransactionItem, bool, error) {
	query := `
		SELECT ti.transaction_id, ti.product_name, ti.qty, ti.external_product_id, t.date
		FROM transaction_items ti
		JOIN transactions t ON t.transaction_id = ti.transaction_id
		WHERE t.date >= $1
		  AND t.event_type LIKE 'sale_%'
		ORDER BY t.date, ti.transaction_id, ti.product_name
		LIMIT $2 OFFSET $3
	`

	var rows []domain.TransactionItem
	if err := r.db.SelectContext(ctx, &rows, query, since, limit+1, offset); err != nil {
		return nil, false, fmt.Errorf("error getting transaction items: %w", err)
	}

	rows, more := page(rows, limit)
	return rows, more, nil
}

type mappingRepository struct {
	db *DB
}

func NewMappingRepository(db *DB) repository.MappingRepository {
	return &mappingRepository{db: db}
}

const mappingColumns = `product_id, offer_name, base_product, units_per_variant, status`

func (r *mappingRepository) ListMappings(ctx context.Context) ([]domain.ProductMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM product_map ORDER BY product_id`

	rows := make([]domain.ProductMapping, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting product mappings: %w", err)
	}
	return rows, nil
}

func (r *mappingRepository) ListUnmapped(ctx context.Context) ([]domain.ProductMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM product_map WHERE status = $1 ORDER BY offer_name, product_id`

	rows := make([]domain.ProductMapping, 0)
	if err := r.db.SelectContext(ctx, &rows, query, domain.MappingNeedsReview); err != nil {
		return nil, fmt.Errorf("error getting unmapped products: %w", err)
	}
	return rows, nil
}

func (r *mappingRepository) GetMapping(ctx context.Context, productID string) (domain.ProductMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM product_map WHERE product_id = $1`

	var m domain.ProductMapping
	err := r.db.GetContext(ctx, &m, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProductMapping{}, domain.ErrMappingNotFound
	}
	if err != nil {
		return domain.ProductMapping{}, fmt.Errorf("error getting product mapping: %w", err)
	}
	return m, nil
}

func (r *mappingRepository) SaveMapping(ctx context.Context, m domain.ProductMapping) error {
	query := `
		UPDATE product_map
		SET base_product = $2, units_per_variant = $3, status = $4
		WHERE product_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, m.ProductID, m.BaseProduct, m.UnitsPerVariant, m.Status)
	if err != nil {
		return fmt.Errorf("failed to save product mapping: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrMappingNotFound
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

type InventoryRepository interface {
	ListActiveBatches(ctx context.Context, offset, limit int) ([]domain.InventoryBatch, bool, error)
	InsertBatch(ctx context.Context, batch domain.NewBatch) (domain.InventoryBatch, error)
	// ListTransactionItems returns items of orders placed at or after since.
	ListTransactionItems(ctx context.Context, since time.Time, offset, limit int) ([]domain.TransactionItem, bool, error)
}

type MappingRepository interface {
	ListMappings(ctx context.Context) ([]domain.ProductMapping, error)
	ListUnmapped(ctx context.Context) ([]domain.ProductMapping, error)
	// GetMapping returns domain.ErrMappingNotFound for an unknown product id.
	GetMapping(ctx context.Context, productID string) (domain.ProductMapping, error)
	SaveMapping(ctx context.Context, mapping domain.ProductMapping) error
}

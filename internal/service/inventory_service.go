package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/analytics"
	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type InventoryService struct {
	repo       repository.InventoryRepository
	mappings   repository.MappingRepository
	loader     *ViewLoader
	forecaster *analytics.Forecaster
	fetch      config.FetchConfig
	now        Clock
}

func NewInventoryService(repo repository.InventoryRepository, mappings repository.MappingRepository, loader *ViewLoader, forecaster *analytics.Forecaster, fetch config.FetchConfig) *InventoryService {
	if forecaster == nil {
		forecaster = analytics.NewForecaster(nil, analytics.DefaultProductMetadata, fetch.SalesLookbackDays)
	}
	return &InventoryService{
		repo:       repo,
		mappings:   mappings,
		loader:     loader,
		forecaster: forecaster,
		fetch:      fetch,
		now:        utcNow,
	}
}

// Dashboard builds the stock management view.
func (s *InventoryService) Dashboard(ctx context.Context, scope string) (domain.InventoryDashboard, error) {
	today := domain.TruncateDay(s.now())
	return loadView(ctx, s.loader, ViewInventory, scope, domain.DayKey(today), func(ctx context.Context) (domain.InventoryDashboard, error) {
		return s.build(ctx)
	}, func(err error) domain.InventoryDashboard {
		return domain.InventoryDashboard{
			ViewStatus:  domain.FailedStatus(err),
			Products:    []domain.ProductSummary{},
			Forecasts:   []domain.StockForecast{},
			Unmapped:    []domain.ProductMapping{},
			GeneratedAt: s.now(),
		}
	})
}

func (s *InventoryService) build(ctx context.Context) (domain.InventoryDashboard, error) {
	now := s.now()
	today := domain.TruncateDay(now)
	since := analytics.AddDays(today, -s.forecaster.LookbackDays())

	var (
		batches  repository.PageResult[domain.InventoryBatch]
		items    repository.PageResult[domain.TransactionItem]
		mappings []domain.ProductMapping
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		batches, err = repository.FetchPages(gctx, pageOptions(s.fetch, "inventory_batches"), s.repo.ListActiveBatches)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = repository.FetchPages(gctx, pageOptions(s.fetch, "transaction_items"),
			func(ctx context.Context, offset, limit int) ([]domain.TransactionItem, bool, error) {
				return s.repo.ListTransactionItems(ctx, since, offset, limit)
			})
		return err
	})
	g.Go(func() error {
		var err error
		mappings, err = s.mappings.ListMappings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.InventoryDashboard{}, fmt.Errorf("failed to load inventory rows: %w", err)
	}

	products := analytics.AggregateBatches(batches.Rows)
	forecasts := s.forecaster.Forecast(products, analytics.AggregateUnitsSold(items.Rows, mappings), today)

	return domain.InventoryDashboard{
		ViewStatus:         domain.StatusFor(len(batches.Rows) + len(items.Rows)),
		Products:           products,
		KPI:                analytics.SummarizeStock(products),
		Forecasts:          forecasts,
		ForecastKPI:        analytics.SummarizeForecasts(forecasts),
		Unmapped:           unmapped(mappings),
		PossibleUndercount: batches.Truncated || items.Truncated,
		GeneratedAt:        now,
	}, nil
}

func unmapped(mappings []domain.ProductMapping) []domain.ProductMapping {
	out := make([]domain.ProductMapping, 0)
	for _, m := range mappings {
		if m.Status == domain.MappingNeedsReview {
			out = append(out, m)
		}
	}
	return out
}

// Restock records a new active batch.
func (s *InventoryService) Restock(ctx context.Context, batch domain.NewBatch) (domain.InventoryBatch, error) {
	if err := batch.Validate(); err != nil {
		return domain.InventoryBatch{}, err
	}

	created, err := s.repo.InsertBatch(ctx, batch)
	if err != nil {
		return domain.InventoryBatch{}, err
	}

	log.Info().
		Int64("batch_id", created.BatchID).
		Str("base_product", created.BaseProduct).
		Int64("qty", created.InitialQty).
		Msg("inventory batch added")

	s.invalidate(ctx)
	return created, nil
}

// VerifyMapping applies the pending edit held for productID.
func (s *InventoryService) VerifyMapping(ctx context.Context, productID string, edits domain.PendingEdits) (domain.ProductMapping, error) {
	edit, ok := edits[productID]
	if !ok {
		return domain.ProductMapping{}, fmt.Errorf("%w %s", domain.ErrNoPendingEdit, productID)
	}

	mapping, err := s.mappings.GetMapping(ctx, productID)
	if err != nil {
		return domain.ProductMapping{}, err
	}

	if err := mapping.Verify(edit); err != nil {
		return domain.ProductMapping{}, err
	}

	if err := s.mappings.SaveMapping(ctx, mapping); err != nil {
		return domain.ProductMapping{}, err
	}

	log.Info().Str("product_id", productID).Str("base_product", mapping.Base()).Msg("product mapping verified")

	s.invalidate(ctx)
	return mapping, nil
}

func (s *InventoryService) invalidate(ctx context.Context) {
	s.loader.Invalidate(ctx, ViewInventory)
	s.loader.Invalidate(ctx, ViewCFO)
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/observability"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store opens the transaction an order is written in.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is the write surface of one order sync.
type StoreTx interface {
	// GetMapping returns domain.ErrMappingNotFound for unknown product ids.
	GetMapping(ctx context.Context, productID string) (domain.ProductMapping, error)
	InsertMapping(ctx context.Context, m domain.ProductMapping) error
	// UpsertTransaction reports whether the row was newly inserted.
	UpsertTransaction(ctx context.Context, rec OrderRecord) (bool, error)
	ReplaceItems(ctx context.Context, transactionID string, items []OrderItem) error
	// LockActiveBatches returns active batches of a base product ordered by batch id, locked for update.
	LockActiveBatches(ctx context.Context, baseProduct string) ([]domain.InventoryBatch, error)
	UpdateBatch(ctx context.Context, batchID, remaining int64, status string) error
	InsertLedger(ctx context.Context, entry domain.CostLedgerEntry) error
}

// RunRecorder persists sync run bookkeeping.
type RunRecorder interface {
	CreateRun(ctx context.Context, run *SyncRun) error
	UpdateRun(ctx context.Context, run *SyncRun) error
}

// OrderSyncer writes checkout orders into transactions, items and the FIFO cost ledger.
type OrderSyncer struct {
	store Store
	runs  RunRecorder
	cfg   SyncConfig
	now   func() time.Time
}

// NewOrderSyncer creates a syncer. runs may be nil.
func NewOrderSyncer(store Store, runs RunRecorder, cfg SyncConfig) *OrderSyncer {
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	return &OrderSyncer{
		store: store,
		runs:  runs,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type orderOutcome struct {
	inserted   bool
	discovered []string
	shortfalls []Shortfall
}

// Sync processes orders one by one. A failed order is logged and counted, and the run goes on.
// progress, when set, is called once per order.
func (s *OrderSyncer) Sync(ctx context.Context, source string, orders []RawOrder, progress func()) (SyncResult, error) {
	run := SyncRun{
		ID:          uuid.NewString(),
		Source:      source,
		Status:      StatusProcessing,
		TotalOrders: len(orders),
		StartedAt:   s.now(),
	}
	if s.runs != nil {
		if err := s.runs.CreateRun(ctx, &run); err != nil {
			return SyncResult{}, fmt.Errorf("failed to create sync run: %w", err)
		}
	}

	result := SyncResult{Discovered: []string{}, Shortfalls: []Shortfall{}}

	var runErr error
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		s.syncOne(ctx, order, &result)
		if progress != nil {
			progress()
		}
	}

	run.Synced = result.Inserted + result.Updated
	run.Skipped = result.Skipped
	run.Failed = result.Failed
	completed := s.now()
	run.CompletedAt = &completed
	run.Status = StatusCompleted
	if runErr != nil {
		run.Status = StatusFailed
		run.ErrorMessage = runErr.Error()
	}

	if s.runs != nil {
		// the caller's context may already be cancelled
		if err := s.runs.UpdateRun(context.WithoutCancel(ctx), &run); err != nil {
			log.Warn().Err(err).Str("run_id", run.ID).Msg("failed to update sync run")
		}
	}
	result.Run = run

	log.Info().
		Str("run_id", run.ID).
		Str("source", source).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("discovered", len(result.Discovered)).
		Int("shortfalls", len(result.Shortfalls)).
		Msg("order sync finished")

	if runErr != nil {
		return result, fmt.Errorf("order sync interrupted: %w", runErr)
	}
	return result, nil
}

func (s *OrderSyncer) syncOne(ctx context.Context, order RawOrder, result *SyncResult) {
	orderID := string(order.OrderID)

	if reason := SkipReason(order); reason != "" {
		result.Skipped++
		observability.OrdersSynced.WithLabelValues("skipped").Inc()
		log.Debug().Str("order_id", orderID).Str("reason", reason).Msg("skipping order")
		return
	}

	rec, items, err := buildRecord(order)
	if err != nil {
		result.Failed++
		observability.OrdersSynced.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("order_id", orderID).Msg("invalid order")
		return
	}

	outcome, err := s.writeWithRetry(ctx, rec, items)
	if err != nil {
		result.Failed++
		observability.OrdersSynced.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to sync order")
		return
	}

	if outcome.inserted {
		result.Inserted++
		observability.OrdersSynced.WithLabelValues("inserted").Inc()
	} else {
		result.Updated++
		observability.OrdersSynced.WithLabelValues("updated").Inc()
	}
	result.Discovered = append(result.Discovered, outcome.discovered...)
	for _, sf := range outcome.shortfalls {
		observability.StockShortfall.WithLabelValues(sf.BaseProduct).Add(float64(sf.Units))
		log.Warn().
			Str("order_id", sf.TransactionID).
			Str("base_product", sf.BaseProduct).
			Int64("units", sf.Units).
			Msg("not enough stock to deduct")
	}
	result.Shortfalls = append(result.Shortfalls, outcome.shortfalls...)
}

func (s *OrderSyncer) writeWithRetry(ctx context.Context, rec OrderRecord, items []OrderItem) (orderOutcome, error) {
	var outcome orderOutcome

	err := withRetry(ctx, s.cfg, func(attempt int, err error) {
		log.Warn().Err(err).Str("order_id", rec.TransactionID).Int("attempt", attempt).Msg("retrying order")
	}, func() error {
		return s.store.WithinTx(ctx, func(tx StoreTx) error {
			outcome = orderOutcome{}
			return s.apply(ctx, tx, rec, items, &outcome)
		})
	})
	if err != nil {
		return orderOutcome{}, err
	}
	return outcome, nil
}

// withRetry runs fn up to cfg.RetryAttempts times with a linear backoff.
// Context errors are not retried.
func withRetry(ctx context.Context, cfg SyncConfig, onRetry func(attempt int, err error), fn func() error) error {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || attempt == attempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.RetryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

func (s *OrderSyncer) apply(ctx context.Context, tx StoreTx, rec OrderRecord, items []OrderItem, outcome *orderOutcome) error {
	mappings := make(map[string]domain.ProductMapping)
	for _, item := range items {
		if item.ExternalProductID == "" {
			continue
		}
		if _, seen := mappings[item.ExternalProductID]; seen {
			continue
		}

		m, err := tx.GetMapping(ctx, item.ExternalProductID)
		if errors.Is(err, domain.ErrMappingNotFound) {
			m = domain.NewDiscoveredMapping(item.ExternalProductID, item.ProductName)
			if err := tx.InsertMapping(ctx, m); err != nil {
				return fmt.Errorf("error inserting product mapping %s: %w", m.ProductID, err)
			}
			outcome.discovered = append(outcome.discovered, m.ProductID)
		} else if err != nil {
			return fmt.Errorf("error getting product mapping %s: %w", item.ExternalProductID, err)
		}
		mappings[item.ExternalProductID] = m
	}

	inserted, err := tx.UpsertTransaction(ctx, rec)
	if err != nil {
		return fmt.Errorf("error upserting transaction: %w", err)
	}
	outcome.inserted = inserted

	if err := tx.ReplaceItems(ctx, rec.TransactionID, items); err != nil {
		return fmt.Errorf("error replacing items: %w", err)
	}

	// re-synced orders were deducted when first inserted
	if !inserted || !IsSale(rec.EventType) {
		return nil
	}

	for _, item := range items {
		m, ok := mappings[item.ExternalProductID]
		if !ok || m.Base() == "" || item.Qty <= 0 {
			continue
		}
		if err := s.deduct(ctx, tx, rec.TransactionID, item.ProductName, m.Base(), item.Qty*m.Units(), outcome); err != nil {
			return err
		}
	}
	return nil
}

// deduct draws units of base from its batches. Ledger rows carry the sold item's name.
func (s *OrderSyncer) deduct(ctx context.Context, tx StoreTx, transactionID, productName, base string, units int64, outcome *orderOutcome) error {
	batches, err := tx.LockActiveBatches(ctx, base)
	if err != nil {
		return fmt.Errorf("error locking batches for %s: %w", base, err)
	}

	plan, short := PlanDeduction(batches, units)
	for _, d := range plan {
		status := domain.BatchStatusActive
		if d.Depleted {
			status = domain.BatchStatusDepleted
		}
		if err := tx.UpdateBatch(ctx, d.BatchID, d.Remaining, status); err != nil {
			return fmt.Errorf("error updating batch %d: %w", d.BatchID, err)
		}
		if err := tx.InsertLedger(ctx, domain.CostLedgerEntry{
			TransactionID:     transactionID,
			ProductName:       productName,
			BatchID:           d.BatchID,
			QtyDeducted:       d.Units,
			CostPerUnitAtTime: d.CostPerUnit,
		}); err != nil {
			return fmt.Errorf("error writing cost ledger: %w", err)
		}
	}

	if short > 0 {
		outcome.shortfalls = append(outcome.shortfalls, Shortfall{TransactionID: transactionID, BaseProduct: base, Units: short})
	}
	return nil
}

func buildRecord(order RawOrder) (OrderRecord, []OrderItem, error) {
	id := strings.TrimSpace(string(order.OrderID))
	if id == "" {
		return OrderRecord{}, nil, errors.New("order has no orderId")
	}

	created, err := order.CreatedAt()
	if err != nil {
		return OrderRecord{}, nil, err
	}

	eventType, revenueType := Classify(order)
	currency := order.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	rec := OrderRecord{
		TransactionID: id,
		Date:          created,
		TotalAmount:   SignedAmount(eventType, order.TotalAmount.Decimal),
		EventType:     eventType,
		RevenueType:   revenueType,
		PaymentStatus: order.OrderStatus,
		CampaignID:    string(order.CampaignID),
		Currency:      currency,
		RawData:       order.Raw,
	}

	items := make([]OrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		items = append(items, OrderItem{
			TransactionID:     id,
			ProductName:       it.Name,
			Qty:               it.Quantity(),
			ExternalProductID: string(it.ProductID),
			Price:             it.Price.Decimal,
		})
	}

	return rec, items, nil
}

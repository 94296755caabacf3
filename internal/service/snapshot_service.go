package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/storage"
	"github.com/rs/zerolog/log"
)

// SnapshotStore persists finance views outside the database.
type SnapshotStore interface {
	SaveFinance(ctx context.Context, dashboard domain.FinanceDashboard) (string, error)
	LoadFinance(ctx context.Context, key string) (domain.FinanceDashboard, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

type SnapshotService struct {
	finance *FinanceService
	store   SnapshotStore
}

func NewSnapshotService(finance *FinanceService, store SnapshotStore) *SnapshotService {
	return &SnapshotService{finance: finance, store: store}
}

// ExportFinance builds the finance view for r and uploads it.
func (s *SnapshotService) ExportFinance(ctx context.Context, r domain.DateRange) (string, domain.FinanceDashboard, error) {
	dashboard, err := s.finance.Dashboard(ctx, "", r)
	if err != nil {
		return "", domain.FinanceDashboard{}, err
	}
	if dashboard.Failed() {
		return "", domain.FinanceDashboard{}, fmt.Errorf("%w: %s", domain.ErrViewUnavailable, dashboard.Error)
	}

	key, err := s.store.SaveFinance(ctx, dashboard)
	if err != nil {
		return "", domain.FinanceDashboard{}, err
	}

	log.Info().Str("key", key).Str("range", r.Key()).Msg("finance snapshot exported")
	return key, dashboard, nil
}

func (s *SnapshotService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.store.List(ctx)
}

// Load reads a previously exported finance view.
func (s *SnapshotService) Load(ctx context.Context, key string) (domain.FinanceDashboard, error) {
	return s.store.LoadFinance(ctx, key)
}

package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

// FinanceRepository reads revenue and ad spend rows. from is inclusive, to exclusive.
type FinanceRepository interface {
	ListTransactions(ctx context.Context, from, to time.Time, offset, limit int) ([]domain.Transaction, bool, error)
	ListAdSpend(ctx context.Context, from, to time.Time, offset, limit int) ([]domain.AdSpend, bool, error)
}

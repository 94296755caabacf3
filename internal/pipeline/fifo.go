package pipeline

import (
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/shopspring/decimal"
)

// Deduction is the units taken from one batch.
type Deduction struct {
	BatchID     int64
	Units       int64
	Remaining   int64
	Depleted    bool
	CostPerUnit decimal.Decimal
}

// PlanDeduction takes units from batches in the order given, oldest first.
// It returns the per-batch deductions and the units no batch could cover.
func PlanDeduction(batches []domain.InventoryBatch, units int64) ([]Deduction, int64) {
	need := units
	plan := make([]Deduction, 0, len(batches))

	for _, b := range batches {
		if need <= 0 {
			break
		}
		available := b.Remaining()
		if available <= 0 {
			continue
		}

		take := available
		if need < take {
			take = need
		}
		need -= take

		left := available - take
		plan = append(plan, Deduction{
			BatchID:     b.BatchID,
			Units:       take,
			Remaining:   left,
			Depleted:    left == 0,
			CostPerUnit: decimal.NewFromFloat(b.Cost()),
		})
	}

	if need < 0 {
		need = 0
	}
	return plan, need
}

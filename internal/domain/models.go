package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Revenue types stored on transactions.revenue_type. Matching is exact.
const (
	RevenueTypeColdTraffic = "Cold Traffic Revenue"
	RevenueTypeMRR         = "MRR Revenue"
	RevenueTypeRefund      = "Refund"
	RevenueTypeCancelled   = "Cancelled"
	RevenueTypeChargeback  = "Chargeback"
	RevenueTypeOther       = "Other"
)

// Batch statuses stored on inventory_batches.status.
const (
	BatchStatusActive   = "active"
	BatchStatusDepleted = "depleted"
)

// Transaction is a single order header from the transactions table.
type Transaction struct {
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Date          time.Time `json:"date" db:"date"`
	TotalAmount   *float64  `json:"total_amount" db:"total_amount"`
	RevenueType   *string   `json:"revenue_type" db:"revenue_type"`
	EventType     *string   `json:"event_type,omitempty" db:"event_type"`
}

// Amount returns the order total, treating NULL as zero.
func (t Transaction) Amount() float64 {
	return floatValue(t.TotalAmount)
}

// Type returns the revenue type, or an empty string when NULL.
func (t Transaction) Type() string {
	if t.RevenueType == nil {
		return ""
	}
	return *t.RevenueType
}

// AdSpend is one campaign-day of spend from the facebook_ads table.
type AdSpend struct {
	Date       time.Time `json:"date" db:"date"`
	CampaignID string    `json:"campaign_id" db:"campaign_id"`
	Spend      *float64  `json:"spend" db:"spend"`
}

// Amount returns the spend, treating NULL as zero.
func (a AdSpend) Amount() float64 {
	return floatValue(a.Spend)
}

// InventoryBatch is a received shipment of one base product.
type InventoryBatch struct {
	BatchID      int64    `json:"batch_id" db:"batch_id"`
	BaseProduct  string   `json:"base_product" db:"base_product"`
	UnitCost     *float64 `json:"unit_cost" db:"unit_cost"`
	InitialQty   int64    `json:"initial_qty" db:"initial_qty"`
	RemainingQty *int64   `json:"remaining_qty" db:"remaining_qty"`
	Status       string   `json:"status" db:"status"`
}

// Remaining returns the remaining quantity, treating NULL as zero.
func (b InventoryBatch) Remaining() int64 {
	if b.RemainingQty == nil {
		return 0
	}
	return *b.RemainingQty
}

// Cost returns the unit cost, treating NULL as zero.
func (b InventoryBatch) Cost() float64 {
	return floatValue(b.UnitCost)
}

// NewBatch is a restock request.
type NewBatch struct {
	BaseProduct string  `json:"base_product"`
	UnitCost    float64 `json:"unit_cost"`
	Quantity    int64   `json:"quantity"`
}

// Validate reports whether the batch can be inserted.
func (n NewBatch) Validate() error {
	if n.BaseProduct == "" || n.UnitCost <= 0 || n.Quantity <= 0 {
		return ErrInvalidBatch
	}
	return nil
}

// TransactionItem is one sold line of an order.
type TransactionItem struct {
	TransactionID     string    `json:"transaction_id" db:"transaction_id"`
	ProductName       string    `json:"product_name" db:"product_name"`
	Qty               int64     `json:"qty" db:"qty"`
	ExternalProductID *string   `json:"external_product_id" db:"external_product_id"`
	Date              time.Time `json:"date" db:"date"`
}

// CostLedgerEntry records units taken from a batch to fulfil an order.
type CostLedgerEntry struct {
	TransactionID     string          `json:"transaction_id" db:"transaction_id"`
	ProductName       string          `json:"product_name" db:"product_name"`
	BatchID           int64           `json:"batch_id" db:"batch_id"`
	QtyDeducted       int64           `json:"qty_deducted" db:"qty_deducted"`
	CostPerUnitAtTime decimal.Decimal `json:"cost_per_unit_at_time" db:"cost_per_unit_at_time"`
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

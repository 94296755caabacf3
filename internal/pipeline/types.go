package pipeline

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus is the state of a sync run.
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// SyncRun tracks one execution of the order sync.
type SyncRun struct {
	ID           string
	Source       string
	Status       RunStatus
	TotalOrders  int
	Synced       int
	Skipped      int
	Failed       int
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// SyncConfig holds retry settings for a sync run.
type SyncConfig struct {
	RetryAttempts int
	RetryBackoff  time.Duration
}

// DefaultSyncConfig returns sensible defaults
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		RetryAttempts: 3,
		RetryBackoff:  500 * time.Millisecond,
	}
}

// OrderRecord is the transactions row written for an order.
type OrderRecord struct {
	TransactionID string
	Date          time.Time
	TotalAmount   decimal.Decimal
	EventType     string
	RevenueType   string
	PaymentStatus string
	CampaignID    string
	Currency      string
	RawData       json.RawMessage
}

// OrderItem is a transaction_items row.
type OrderItem struct {
	TransactionID     string
	ProductName       string
	Qty               int64
	ExternalProductID string
	Price             decimal.Decimal
}

// Shortfall is the units a sale needed that no active batch could cover.
type Shortfall struct {
	TransactionID string `json:"transaction_id"`
	BaseProduct   string `json:"base_product"`
	Units         int64  `json:"units"`
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	Run        SyncRun
	Inserted   int
	Updated    int
	Skipped    int
	Failed     int
	Discovered []string
	Shortfalls []Shortfall
}

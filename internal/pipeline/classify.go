package pipeline

import (
	"strings"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/shopspring/decimal"
)

// Event types stored on transactions.event_type.
const (
	EventSaleNew       = "sale_new"
	EventSaleRecurring = "sale_recurring"
	EventSaleUpsell    = "sale_upsell"
	EventRefunded      = "refunded"
	EventCancelled     = "cancelled"
	EventChargeback    = "chargeback"
	EventUnknown       = "unknown"
)

var skippedStatuses = map[string]struct{}{
	"DECLINED": {},
	"FAILED":   {},
	"ERROR":    {},
	"PENDING":  {},
}

// SkipReason returns why an order is not synced, or an empty string.
func SkipReason(o RawOrder) string {
	if _, ok := skippedStatuses[strings.ToUpper(o.OrderStatus)]; ok {
		return "status " + strings.ToUpper(o.OrderStatus)
	}
	if o.Test {
		return "test order"
	}
	return ""
}

// Classify maps order status and type to event and revenue type. Status wins over type.
func Classify(o RawOrder) (eventType, revenueType string) {
	switch strings.ToUpper(o.OrderStatus) {
	case "REFUNDED":
		return EventRefunded, domain.RevenueTypeRefund
	case "CANCELLED":
		return EventCancelled, domain.RevenueTypeCancelled
	case "CHARGEBACK":
		return EventChargeback, domain.RevenueTypeChargeback
	}

	switch strings.ToUpper(o.OrderType) {
	case "NEW_SALE", "SALE":
		return EventSaleNew, domain.RevenueTypeColdTraffic
	case "RECURRING":
		return EventSaleRecurring, domain.RevenueTypeMRR
	case "UPSELL":
		return EventSaleUpsell, domain.RevenueTypeColdTraffic
	}

	return EventUnknown, domain.RevenueTypeOther
}

// IsSale reports whether the event consumes inventory.
func IsSale(eventType string) bool {
	return strings.HasPrefix(eventType, "sale_")
}

// SignedAmount negates reversals so they subtract from revenue.
func SignedAmount(eventType string, amount decimal.Decimal) decimal.Decimal {
	switch eventType {
	case EventRefunded, EventCancelled, EventChargeback:
		return amount.Abs().Neg()
	}
	return amount
}

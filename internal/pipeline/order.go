package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// flexDecimal accepts a JSON number, a numeric string, or null.
type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	if raw == "" {
		f.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	f.Decimal = d
	return nil
}

// flexBool is true for JSON true, "true" or "1".
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	v := strings.ToLower(string(raw))
	*f = flexBool(v == "true" || v == "1")
	return nil
}

// RawItem is one line of a checkout order.
type RawItem struct {
	Name      string      `json:"name"`
	Qty       flexString  `json:"qty"`
	ProductID flexString  `json:"productId"`
	Price     flexDecimal `json:"price"`
}

// Quantity defaults to 1 when the export leaves it out.
func (i RawItem) Quantity() int64 {
	if i.Qty == "" {
		return 1
	}
	n, err := strconv.ParseInt(string(i.Qty), 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(string(i.Qty), 64); ferr == nil {
			return int64(f)
		}
		return 1
	}
	return n
}

// rawItems accepts either a list of items or an object keyed by line id.
type rawItems []RawItem

func (r *rawItems) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	if data[0] == '[' {
		var list []RawItem
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*r = list
		return nil
	}

	var byKey map[string]RawItem
	if err := json.Unmarshal(data, &byKey); err != nil {
		return err
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]RawItem, 0, len(keys))
	for _, k := range keys {
		list = append(list, byKey[k])
	}
	*r = list
	return nil
}

// RawOrder is one order of a checkout export.
type RawOrder struct {
	OrderID      flexString      `json:"orderId"`
	DateCreated  string          `json:"dateCreated"`
	TotalAmount  flexDecimal     `json:"totalAmount"`
	OrderType    string          `json:"orderType"`
	OrderStatus  string          `json:"orderStatus"`
	Test         flexBool        `json:"test"`
	CampaignID   flexString      `json:"campaignId"`
	CurrencyCode string          `json:"currencyCode"`
	Items        rawItems        `json:"items"`
	Raw          json.RawMessage `json:"-"`
}

func (o *RawOrder) UnmarshalJSON(data []byte) error {
	type plain RawOrder
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = RawOrder(p)
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}

var orderDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// CreatedAt parses dateCreated as UTC.
func (o RawOrder) CreatedAt() (time.Time, error) {
	value := strings.TrimSpace(o.DateCreated)
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid dateCreated %q", o.DateCreated)
}

// ParseOrders reads a JSON export: either an array of orders or an object with a data array.
func ParseOrders(r io.Reader) ([]RawOrder, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading orders: %w", err)
	}
	payload = bytes.TrimSpace(payload)

	if len(payload) > 0 && payload[0] == '{' {
		var envelope struct {
			Data []RawOrder `json:"data"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, fmt.Errorf("error decoding orders: %w", err)
		}
		return envelope.Data, nil
	}

	var orders []RawOrder
	if err := json.Unmarshal(payload, &orders); err != nil {
		return nil, fmt.Errorf("error decoding orders: %w", err)
	}
	return orders, nil
}

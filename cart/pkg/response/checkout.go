package response

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderID tolerates the backend returning the order identifier as either a
// JSON string or a number.
type OrderID string

func (o *OrderID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = OrderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*o = OrderID(n.String())
		return nil
	}
	return fmt.Errorf("order id is neither string nor number: %s", string(b))
}

type Checkout struct {
	OrderID     OrderID         `json:"order_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

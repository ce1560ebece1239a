package service

import (
	"github.com/shopspring/decimal"
)

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	standardShippingFee   = decimal.NewFromInt(10)
)

// ShippingFee is zero for an empty cart and for subtotals at or above the
// free-shipping threshold, otherwise the flat standard fee.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return standardShippingFee
}

package store

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Identity keys a line item by product id plus the chosen variant attributes.
// The attribute part is a canonical encoding, key order never matters.
type Identity string

func NewIdentity(productID int64, attributes map[string]string) Identity {
	if len(attributes) == 0 {
		return Identity(strconv.FormatInt(productID, 10))
	}

	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(attributes[k]))
	}
	return Identity(strconv.FormatInt(productID, 10) + "|" + strings.Join(pairs, "&"))
}

// LineItem is one distinct product+variant entry in the cart. Name, ImageURL
// and UnitPrice are snapshots taken at add-to-cart time and are not re-fetched.
type LineItem struct {
	ProductID  int64
	Name       string
	ImageURL   string
	UnitPrice  decimal.Decimal
	Quantity   int32
	Attributes map[string]string
}

func (item LineItem) Identity() Identity {
	return NewIdentity(item.ProductID, item.Attributes)
}

func (item LineItem) Subtotal() decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))
}

func (item LineItem) clone() LineItem {
	if item.Attributes != nil {
		attributes := make(map[string]string, len(item.Attributes))
		for k, v := range item.Attributes {
			attributes[k] = v
		}
		item.Attributes = attributes
	}
	return item
}

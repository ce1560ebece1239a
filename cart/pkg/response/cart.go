package response

import (
	"github.com/shopspring/decimal"
)

type CartItem struct {
	GoodsID    int64             `json:"goods_id"`
	GoodsName  string            `json:"goods_name"`
	GoodsImage string            `json:"goods_image"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int32             `json:"quantity"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Cart struct {
	Items       []CartItem      `json:"items"`
	ItemCount   int32           `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

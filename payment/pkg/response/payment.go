package response

import (
	"github.com/shopspring/decimal"

	cartResponse "github.com/shopindream/storefront/cart/pkg/response"
)

type Method struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Enabled bool   `json:"enabled"`
}

type OrderItem struct {
	GoodsID   int64           `json:"goods_id"`
	GoodsName string          `json:"goods_name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
}

type Order struct {
	OrderID   cartResponse.OrderID `json:"order_id"`
	OrderNo   string               `json:"order_no"`
	Status    string               `json:"status"`
	Total     decimal.Decimal      `json:"total"`
	Email     string               `json:"email"`
	Items     []OrderItem          `json:"items"`
	CreatedAt string               `json:"created_at"`
}

type Payment struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
}

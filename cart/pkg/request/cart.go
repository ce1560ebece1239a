package request

import (
	"github.com/shopspring/decimal"
)

type AddItem struct {
	GoodsID    int64             `validate:"required,gt=0" json:"goods_id"`
	GoodsName  string            `validate:"required"      json:"goods_name"`
	GoodsImage string            `validate:"omitempty"     json:"goods_image"`
	Price      decimal.Decimal   `validate:"required"      json:"price"`
	Quantity   int32             `json:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type UpdateItem struct {
	GoodsID    int64             `validate:"required,gt=0" json:"goods_id"`
	Quantity   int32             `json:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type RemoveItem struct {
	GoodsID    int64             `validate:"required,gt=0" json:"goods_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

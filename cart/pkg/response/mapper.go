package response

import (
	"github.com/shopspring/decimal"

	"github.com/shopindream/storefront/cart/internal/store"
)

func FromState(state store.State, shippingFee decimal.Decimal) Cart {
	items := make([]CartItem, len(state.Items))
	for i, item := range state.Items {
		items[i] = CartItem{
			GoodsID:    item.ProductID,
			GoodsName:  item.Name,
			GoodsImage: item.ImageURL,
			Price:      item.UnitPrice,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal(),
			Attributes: item.Attributes,
		}
	}
	return Cart{
		Items:       items,
		ItemCount:   state.ItemCount,
		Subtotal:    state.Subtotal,
		ShippingFee: shippingFee,
		Total:       state.Subtotal.Add(shippingFee),
	}
}

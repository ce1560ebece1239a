package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopindream/storefront/cart/internal/store"
)

// Adapter persists the full cart state. Save is write-through, called on every
// mutation. Load must tolerate absent or corrupt state and return an empty
// cart in both cases instead of failing.
type Adapter interface {
	Load(c context.Context) ([]store.LineItem, error)
	Save(c context.Context, items []store.LineItem) error
	Erase(c context.Context) error
}

type persistedItem struct {
	GoodsID    int64             `json:"goods_id"`
	GoodsName  string            `json:"goods_name"`
	GoodsImage string            `json:"goods_image"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int32             `json:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func encode(items []store.LineItem) ([]byte, error) {
	persisted := make([]persistedItem, len(items))
	for i, item := range items {
		persisted[i] = persistedItem{
			GoodsID:    item.ProductID,
			GoodsName:  item.Name,
			GoodsImage: item.ImageURL,
			Price:      item.UnitPrice,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
		}
	}
	payload, err := json.Marshal(persisted)
	if err != nil {
		return nil, fmt.Errorf("failed marshaling cart state with error=%w", err)
	}
	return payload, nil
}

func decode(payload []byte) ([]store.LineItem, error) {
	persisted := []persistedItem{}
	if err := json.Unmarshal(payload, &persisted); err != nil {
		return nil, fmt.Errorf("failed unmarshaling cart state with error=%w", err)
	}
	items := make([]store.LineItem, len(persisted))
	for i, item := range persisted {
		items[i] = store.LineItem{
			ProductID:  item.GoodsID,
			Name:       item.GoodsName,
			ImageURL:   item.GoodsImage,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
		}
	}
	return items, nil
}

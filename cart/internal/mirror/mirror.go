package mirror

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/backend"
	"github.com/shopindream/storefront/internal/log"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionUpdate Action = "update"
)

// Mirror sends cart mutations to the remote cart service, best effort. Each
// push carries the desired resulting state for one identity, not a delta, so
// a lost or out-of-order push is repaired by whichever push comes next. The
// remote service is a mirror of local state, never a source of truth.
type Mirror struct {
	client  *backend.Client
	cartURL string
}

func New(client *backend.Client, cartURL string) *Mirror {
	return &Mirror{client: client, cartURL: cartURL}
}

type payload struct {
	Action     Action            `json:"action"`
	GoodsID    int64             `json:"goods_id"`
	GoodsName  string            `json:"goods_name,omitempty"`
	GoodsImage string            `json:"goods_image,omitempty"`
	Price      *decimal.Decimal  `json:"price,omitempty"`
	Quantity   int32             `json:"quantity,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Push reports one mutation to the remote cart service. Any failure is
// returned to the caller so it can flag the operation as degraded; local
// state is never touched from here.
func (m *Mirror) Push(c context.Context, action Action, item store.LineItem) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Mirror Push").
		Str(log.KeyProductID, fmt.Sprintf("%d", item.ProductID)).
		Str("action", string(action)).
		Logger()

	body := payload{
		Action:     action,
		GoodsID:    item.ProductID,
		Attributes: item.Attributes,
	}
	if action != ActionRemove {
		price := item.UnitPrice
		body.GoodsName = item.Name
		body.GoodsImage = item.ImageURL
		body.Price = &price
		body.Quantity = item.Quantity
	}

	_, err := m.client.PostJson(c, m.cartURL, body, nil)
	if err != nil {
		return fmt.Errorf("failed mirroring cart %s with error=%w", action, err)
	}
	logger.Debug().Msg("mirrored cart mutation")
	return nil
}

package request

import (
	"github.com/shopspring/decimal"
)

// SearchParams mirrors the catalog search endpoint's body. Zero-valued
// optional fields are omitted from the request.
type SearchParams struct {
	Query    string           `validate:"required" json:"q"`
	Page     int              `validate:"omitempty,gte=1" json:"page,omitempty"`
	Limit    int              `validate:"omitempty,gte=1,lte=100" json:"limit,omitempty"`
	CatID    int64            `json:"cat_id,omitempty"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
	Sort     string           `json:"sort,omitempty"`
	Status   *int             `json:"status,omitempty"`
}

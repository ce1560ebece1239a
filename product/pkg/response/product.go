package response

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Product struct {
	GoodsID      int64           `json:"goods_id"`
	GoodsName    string          `json:"goods_name"`
	GoodsNo      string          `json:"goods_no"`
	Price        decimal.Decimal `json:"price"`
	SpecialPrice decimal.Decimal `json:"special_price"`
	ActualPrice  decimal.Decimal `json:"actual_price"`
	GoodsImage   string          `json:"goods_image"`
	CatID        int64           `json:"cat_id"`
	Sales        int64           `json:"sales"`
	Score        float64         `json:"score"`
	Tag          string          `json:"tag"`
	ShortDesc    string          `json:"short_desc"`
}

type Search struct {
	Query            string                     `json:"query"`
	Total            int64                      `json:"total"`
	Page             int                        `json:"page"`
	Limit            int                        `json:"limit"`
	TotalPages       int                        `json:"total_pages"`
	ProcessingTimeMs float64                    `json:"processing_time_ms"`
	Items            []Product                  `json:"items"`
	Filters          map[string]json.RawMessage `json:"filters"`
}

type Review struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Star    int    `json:"star"`
}

type ProductDetail struct {
	Product

	GoodsSales     int64             `json:"goods_sales"`
	SeoDescription string            `json:"seo_description"`
	SeoKeywords    string            `json:"seo_keywords"`
	SeoTitle       string            `json:"seo_title"`
	VideoLink      string            `json:"video_link"`
	SpecType       int               `json:"spec_type"`
	GoodsPrice     string            `json:"goods_price"`
	StockTotal     int64             `json:"stock_total"`
	Content        string            `json:"content"`
	Status         int               `json:"status"`
	Reviews        []Review          `json:"review"`
	Pictures       []string          `json:"picture"`
	Attributes     map[string]string `json:"attr"`
}

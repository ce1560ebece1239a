package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
	"github.com/shopindream/storefront/internal/log"
	"github.com/shopindream/storefront/product/internal/otel"
	"github.com/shopindream/storefront/product/pkg/request"
	"github.com/shopindream/storefront/product/pkg/response"
)

// ProductService is a thin client for the catalog backend. It never caches,
// the backend is the only source of truth for catalog data.
type ProductService struct {
	client     *backend.Client
	productURL string
}

func NewProductService(client *backend.Client, productURL string) *ProductService {
	return &ProductService{client: client, productURL: productURL}
}

func (svc *ProductService) Search(
	c context.Context,
	params request.SearchParams,
) (response.Search, error) {
	c, span := otel.Tracer.Start(c, "ProductService Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService Search").
		Str(log.KeyProcess, "searching products").
		Str(log.KeySearchQuery, params.Query).
		Logger()

	logger.Info().Msg("searching products")
	envelope, err := svc.client.PostJson(c, svc.productURL+"/search.php", params, nil)
	if err != nil {
		err = fmt.Errorf("failed searching products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Search{}, err
	}

	result := response.Search{}
	if err := envelope.Bind(&result); err != nil {
		err = fmt.Errorf("failed reading search response with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Search{}, err
	}
	logger.Info().Int("resultCount", len(result.Items)).Msg("searched products")
	return result, nil
}

func (svc *ProductService) Detail(
	c context.Context,
	goodsID int64,
) (response.ProductDetail, error) {
	c, span := otel.Tracer.Start(c, "ProductService Detail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService Detail").
		Str(log.KeyProcess, "fetching product detail").
		Int64(log.KeyProductID, goodsID).
		Logger()

	logger.Info().Msg("fetching product detail")
	target := fmt.Sprintf("%s/detail.php?goods_id=%d", svc.productURL, goodsID)
	envelope, err := svc.client.Get(c, target, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching product detail with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductDetail{}, err
	}

	wrapper := struct {
		Detail response.ProductDetail `json:"detail"`
	}{}
	if err := envelope.Bind(&wrapper); err != nil {
		err = fmt.Errorf("failed reading product detail with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductDetail{}, err
	}
	logger.Info().Msg("fetched product detail")
	return wrapper.Detail, nil
}

// Suggestions returns autocomplete suggestions for a partial query. A backend
// that returns no suggestions yields an empty slice, not an error.
func (svc *ProductService) Suggestions(
	c context.Context,
	query string,
	limit int,
) ([]string, error) {
	c, span := otel.Tracer.Start(c, "ProductService Suggestions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService Suggestions").
		Str(log.KeyProcess, "fetching suggestions").
		Str(log.KeySearchQuery, query).
		Logger()

	if limit <= 0 {
		limit = 10
	}
	target := fmt.Sprintf(
		"%s/suggest.php?q=%s&limit=%d",
		svc.productURL,
		url.QueryEscape(query),
		limit,
	)
	envelope, err := svc.client.Get(c, target, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching suggestions with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	wrapper := struct {
		Suggestions []string `json:"suggestions"`
	}{}
	if err := envelope.Bind(&wrapper); err != nil {
		err = fmt.Errorf("failed reading suggestions with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Debug().Int("suggestionCount", len(wrapper.Suggestions)).Msg("fetched suggestions")
	return wrapper.Suggestions, nil
}

// flexNumber decodes a numeric field the random endpoint serializes
// inconsistently, sometimes quoted and sometimes not.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*n = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*n = flexNumber(s)
	return nil
}

// rawListing is the random endpoint's looser shape, with string-typed numeric
// fields and a thumbnail instead of goods_image.
type rawListing struct {
	ID           flexNumber `json:"id"`
	Name         string     `json:"name"`
	GoodsNo      string     `json:"goods_no"`
	Price        flexNumber `json:"price"`
	SpecialPrice flexNumber `json:"special_price"`
	Thumbnail    string     `json:"thumbnail"`
	GoodsImage   string     `json:"goods_image"`
	Category     string     `json:"category"`
	GoodsSales   int64      `json:"goods_sales"`
	Score        flexNumber `json:"score"`
	Tag          string     `json:"tag"`
	ShortDesc    string     `json:"short_desc"`
}

// Random fetches a random product listing for a category and normalizes the
// endpoint's loose field types into Product.
func (svc *ProductService) Random(
	c context.Context,
	category string,
	num int,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService Random")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService Random").
		Str(log.KeyProcess, "fetching random products").
		Logger()

	if num <= 0 {
		num = 8
	}
	query := url.Values{}
	query.Set("num", strconv.Itoa(num))
	if category != "" {
		query.Set("name", category)
	}
	target := svc.productURL + "/random.php?" + query.Encode()
	envelope, err := svc.client.Get(c, target, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching random products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	listings, err := bindListings(envelope)
	if err != nil {
		err = fmt.Errorf("failed reading random products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	products := make([]response.Product, len(listings))
	for i, listing := range listings {
		products[i] = normalizeListing(listing)
	}
	logger.Info().Int("resultCount", len(products)).Msg("fetched random products")
	return products, nil
}

// bindListings accepts both shapes the random endpoint is known to return:
// a bare array and an object with a nested data array.
func bindListings(envelope backend.Envelope) ([]rawListing, error) {
	listings := []rawListing{}
	if err := envelope.Bind(&listings); err == nil {
		return listings, nil
	}
	wrapper := struct {
		Data []rawListing `json:"data"`
	}{}
	if err := envelope.Bind(&wrapper); err != nil {
		return nil, err
	}
	return wrapper.Data, nil
}

func normalizeListing(listing rawListing) response.Product {
	goodsID, _ := strconv.ParseInt(string(listing.ID), 10, 64)
	price := parseDecimal(string(listing.Price))
	specialPrice := parseDecimal(string(listing.SpecialPrice))
	actualPrice := specialPrice
	if actualPrice.IsZero() {
		actualPrice = price
	}
	image := listing.Thumbnail
	if image == "" {
		image = listing.GoodsImage
	}
	score, _ := strconv.ParseFloat(string(listing.Score), 64)
	return response.Product{
		GoodsID:      goodsID,
		GoodsName:    listing.Name,
		GoodsNo:      listing.GoodsNo,
		Price:        price,
		SpecialPrice: specialPrice,
		ActualPrice:  actualPrice,
		GoodsImage:   image,
		CatID:        parseCategoryID(listing.Category),
		Sales:        listing.GoodsSales,
		Score:        score,
		Tag:          listing.Tag,
		ShortDesc:    listing.ShortDesc,
	}
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseCategoryID extracts the leading id from a "12/34" category path.
func parseCategoryID(category string) int64 {
	head, _, _ := strings.Cut(category, "/")
	id, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

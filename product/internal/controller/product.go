package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/shopindream/storefront/internal/errors"
	inHttp "github.com/shopindream/storefront/internal/http"
	"github.com/shopindream/storefront/internal/log"
	"github.com/shopindream/storefront/product/internal/otel"
	"github.com/shopindream/storefront/product/internal/service"
	"github.com/shopindream/storefront/product/pkg/request"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}

	sub := router.PathPrefix("/products").Subrouter()
	sub.HandleFunc("/search", controller.Search).Methods(http.MethodPost)
	sub.HandleFunc("/suggestions", controller.Suggestions).Methods(http.MethodGet)
	sub.HandleFunc("/random", controller.Random).Methods(http.MethodGet)
	sub.HandleFunc("/{goodsId}", controller.Detail).Methods(http.MethodGet)
}

func (t ProductController) Search(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Search").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.SearchParams{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "searching products").
		Str(log.KeySearchQuery, reqBody.Query).
		Logger()
	logger.Info().Msg("searching products")
	c = logger.WithContext(c)
	result, err := t.service.Search(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed searching products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("searched products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data":       map[string]interface{}{"result": result},
	})
}

func (t ProductController) Detail(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Detail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Detail").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing goodsId").Logger()
	goodsID, err := strconv.ParseInt(mux.Vars(r)["goodsId"], 10, 64)
	if err != nil {
		err = fmt.Errorf("failed parsing goodsId with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "fetching product detail").
		Int64(log.KeyProductID, goodsID).
		Logger()
	logger.Info().Msg("fetching product detail")
	c = logger.WithContext(c)
	detail, err := t.service.Detail(c, goodsID)
	if err != nil {
		err = fmt.Errorf("failed fetching product detail with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched product detail")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "product found",
		"data":       map[string]interface{}{"detail": detail},
	})
}

func (t ProductController) Suggestions(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Suggestions")
	defer span.End()

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Suggestions").
		Str(log.KeyProcess, "fetching suggestions").
		Str(log.KeySearchQuery, query).
		Logger()

	logger.Info().Msg("fetching suggestions")
	c = logger.WithContext(c)
	suggestions, err := t.service.Suggestions(c, query, limit)
	if err != nil {
		err = fmt.Errorf("failed fetching suggestions with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched suggestions")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "suggestions found",
		"data":       map[string]interface{}{"suggestions": suggestions},
	})
}

func (t ProductController) Random(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Random")
	defer span.End()

	category := r.URL.Query().Get("category")
	num, _ := strconv.Atoi(r.URL.Query().Get("num"))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Random").
		Str(log.KeyProcess, "fetching random products").
		Logger()

	logger.Info().Msg("fetching random products")
	c = logger.WithContext(c)
	products, err := t.service.Random(c, category, num)
	if err != nil {
		err = fmt.Errorf("failed fetching random products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched random products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data":       map[string]interface{}{"products": products},
	})
}

func statusCodeFor(err error) int {
	if errors.Is(err, inErrors.ErrBackendStatus) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

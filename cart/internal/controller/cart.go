package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/cart/internal/otel"
	"github.com/shopindream/storefront/cart/internal/service"
	"github.com/shopindream/storefront/cart/internal/session"
	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/cart/pkg/request"
	"github.com/shopindream/storefront/cart/pkg/response"
	inErrors "github.com/shopindream/storefront/internal/errors"
	inHttp "github.com/shopindream/storefront/internal/http"
	"github.com/shopindream/storefront/internal/log"
)

type CartController struct {
	sessions *session.Manager
}

func AttachCartController(router *mux.Router, sessions *session.Manager) {
	controller := CartController{sessions: sessions}

	sub := router.PathPrefix("/carts").Subrouter()
	sub.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	sub.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	sub.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	sub.HandleFunc("/items", controller.UpdateItem).Methods(http.MethodPut)
	sub.HandleFunc("/items", controller.RemoveItem).Methods(http.MethodDelete)
	sub.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting session cart").Logger()
	c = logger.WithContext(c)
	cart, err := t.sessions.Cart(c, log.SessionIDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}

	state := cart.State()
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart found",
		"data": map[string]interface{}{
			"cart": response.FromState(state, service.ShippingFee(state.Subtotal)),
		},
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddItem{}
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

	// An omitted quantity means one of the item, not an invalid request.
	quantity := reqBody.Quantity
	if quantity == 0 {
		quantity = 1
	}

	logger = logger.With().
		Str(log.KeyProcess, "adding item to cart").
		Int64(log.KeyProductID, reqBody.GoodsID).
		Int32(log.KeyItemQuantity, quantity).
		Logger()
	logger.Info().Msg("adding item to cart")
	c = logger.WithContext(c)
	cart, err := t.sessions.Cart(c, log.SessionIDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	state, outcome, err := cart.AddItem(c, store.LineItem{
		ProductID:  reqBody.GoodsID,
		Name:       reqBody.GoodsName,
		ImageURL:   reqBody.GoodsImage,
		UnitPrice:  reqBody.Price,
		Attributes: reqBody.Attributes,
	}, quantity)
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeySyncOutcome, string(outcome)).Msg("added item to cart")

	writeCartResponse(c, w, "item added to cart", state, outcome)
}

func (t CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateItem{}
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
		Str(log.KeyProcess, "updating item quantity").
		Int64(log.KeyProductID, reqBody.GoodsID).
		Int32(log.KeyItemQuantity, reqBody.Quantity).
		Logger()
	logger.Info().Msg("updating item quantity")
	c = logger.WithContext(c)
	cart, err := t.sessions.Cart(c, log.SessionIDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	state, outcome, err := cart.UpdateQuantity(
		c,
		reqBody.GoodsID,
		reqBody.Attributes,
		reqBody.Quantity,
	)
	if err != nil {
		err = fmt.Errorf("failed updating item quantity with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeySyncOutcome, string(outcome)).Msg("updated item quantity")

	writeCartResponse(c, w, "item quantity updated", state, outcome)
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.RemoveItem{}
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
		Str(log.KeyProcess, "removing item from cart").
		Int64(log.KeyProductID, reqBody.GoodsID).
		Logger()
	logger.Info().Msg("removing item from cart")
	c = logger.WithContext(c)
	cart, err := t.sessions.Cart(c, log.SessionIDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	state, outcome, err := cart.RemoveItem(c, reqBody.GoodsID, reqBody.Attributes)
	if err != nil {
		err = fmt.Errorf("failed removing item from cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeySyncOutcome, string(outcome)).Msg("removed item from cart")

	writeCartResponse(c, w, "item removed from cart", state, outcome)
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	cart, err := t.sessions.Cart(c, log.SessionIDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	if err := cart.Clear(c); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart cleared",
	})
}

func (t CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.ShippingForm{}
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

	logger = logger.With().Str(log.KeyProcess, "submitting checkout").Logger()
	logger.Info().Msg("submitting checkout")
	c = logger.WithContext(c)
	cart, err := t.sessions.Cart(c, log.SessionIDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	confirmed, fieldErrors, err := cart.Checkout(c, reqBody, bearerToken(r))
	if fieldErrors != nil {
		logger.Info().Any("fieldErrors", fieldErrors).Msg("shipping form is invalid")
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    "shipping form is invalid",
			"errors":     fieldErrors,
		})
		return
	}
	if err != nil {
		err = fmt.Errorf("failed submitting checkout with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeyOrderID, string(confirmed.OrderID)).Msg("order placed")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "order placed",
		"data":       map[string]interface{}{"order": confirmed},
	})
}

func writeCartResponse(
	c context.Context,
	w http.ResponseWriter,
	message string,
	state store.State,
	outcome service.Outcome,
) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    message,
		"data": map[string]interface{}{
			"cart":        response.FromState(state, service.ShippingFee(state.Subtotal)),
			"sync_status": outcome,
		},
	})
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrInvalidQuantity),
		errors.Is(err, inErrors.ErrItemNotFound),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrBackendStatus):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(inHttp.KeyHeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/shopindream/storefront/internal/errors"
	inHttp "github.com/shopindream/storefront/internal/http"
	"github.com/shopindream/storefront/internal/log"
	"github.com/shopindream/storefront/payment/internal/otel"
	"github.com/shopindream/storefront/payment/internal/service"
	"github.com/shopindream/storefront/payment/pkg/request"
)

type PaymentController struct {
	service *service.PaymentService
}

func AttachPaymentController(router *mux.Router, service *service.PaymentService) {
	controller := PaymentController{service: service}

	sub := router.PathPrefix("/payments").Subrouter()
	sub.HandleFunc("/methods", controller.Methods).Methods(http.MethodGet)
	sub.HandleFunc("/orders/{orderId}", controller.Order).Methods(http.MethodGet)
	sub.HandleFunc("/process", controller.Process).Methods(http.MethodPost)
}

func (t PaymentController) Methods(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController Methods")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController Methods").
		Str(log.KeyProcess, "listing payment methods").
		Logger()

	logger.Info().Msg("listing payment methods")
	c = logger.WithContext(c)
	methods := t.service.Methods(c)
	logger.Info().Int("methodCount", len(methods)).Msg("listed payment methods")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "payment methods found",
		"data":       map[string]interface{}{"methods": methods},
	})
}

func (t PaymentController) Order(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController Order")
	defer span.End()

	orderID := mux.Vars(r)["orderId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController Order").
		Str(log.KeyProcess, "fetching order").
		Str(log.KeyOrderID, orderID).
		Logger()

	logger.Info().Msg("fetching order")
	c = logger.WithContext(c)
	order, err := t.service.Order(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed fetching order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "order found",
		"data":       map[string]interface{}{"order": order},
	})
}

func (t PaymentController) Process(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController Process")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController Process").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.ProcessPayment{}
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
		Str(log.KeyProcess, "processing payment").
		Str(log.KeyOrderID, reqBody.OrderID).
		Str(log.KeyPaymentMethod, reqBody.PaymentMethod).
		Logger()
	logger.Info().Msg("processing payment")
	c = logger.WithContext(c)
	confirmed, fieldErrors, err := t.service.Process(c, reqBody)
	if fieldErrors != nil {
		logger.Info().Any("fieldErrors", fieldErrors).Msg("card input is invalid")
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    "card input is invalid",
			"errors":     fieldErrors,
		})
		return
	}
	if err != nil {
		err = fmt.Errorf("failed processing payment with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFor(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("processed payment")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "payment accepted",
		"data":       map[string]interface{}{"payment": confirmed},
	})
}

func statusCodeFor(err error) int {
	if errors.Is(err, inErrors.ErrBackendStatus) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

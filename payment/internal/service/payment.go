package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
	"github.com/shopindream/storefront/internal/log"
	"github.com/shopindream/storefront/payment/internal/card"
	"github.com/shopindream/storefront/payment/internal/otel"
	"github.com/shopindream/storefront/payment/pkg/request"
	"github.com/shopindream/storefront/payment/pkg/response"
)

const methodCard = "stripe"

// fallbackMethods keeps the payment page usable when the backend cannot list
// its methods.
var fallbackMethods = []response.Method{
	{ID: "stripe", Name: "Card", Type: "credit_card", Icon: "card", Enabled: true},
	{ID: "paypal", Name: "PayPal", Type: "paypal", Icon: "paypal", Enabled: true},
	{ID: "crypto", Name: "Crypto", Type: "crypto", Icon: "bitcoin", Enabled: true},
}

type PaymentService struct {
	client     *backend.Client
	paymentURL string
	orderURL   string
	now        func() time.Time
}

func NewPaymentService(client *backend.Client, paymentURL string, orderURL string) *PaymentService {
	return &PaymentService{
		client:     client,
		paymentURL: paymentURL,
		orderURL:   orderURL,
		now:        time.Now,
	}
}

// Methods lists the payment methods the backend offers, falling back to the
// static set when the backend is unavailable or returns nothing.
func (svc *PaymentService) Methods(c context.Context) []response.Method {
	c, span := otel.Tracer.Start(c, "PaymentService Methods")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService Methods").
		Str(log.KeyProcess, "fetching payment methods").
		Logger()

	logger.Info().Msg("fetching payment methods")
	envelope, err := svc.client.Get(c, svc.paymentURL+"/methods.php", nil)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg("payment methods unavailable, using fallback set")
		return fallbackMethods
	}

	methods := []response.Method{}
	if err := envelope.Bind(&methods); err != nil || len(methods) == 0 {
		if err != nil {
			inErrors.HandleError(err, span)
		}
		logger.Warn().Err(err).Msg("payment methods unreadable, using fallback set")
		return fallbackMethods
	}
	logger.Info().Int("methodCount", len(methods)).Msg("fetched payment methods")
	return methods
}

// Order fetches the order the payment page is collecting payment for.
func (svc *PaymentService) Order(c context.Context, orderID string) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "PaymentService Order")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService Order").
		Str(log.KeyProcess, "fetching order").
		Str(log.KeyOrderID, orderID).
		Logger()

	logger.Info().Msg("fetching order")
	target := svc.orderURL + "/order.php?order_id=" + url.QueryEscape(orderID)
	envelope, err := svc.client.Get(c, target, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	order := response.Order{}
	if err := envelope.Bind(&order); err != nil {
		err = fmt.Errorf("failed reading order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("fetched order")
	return order, nil
}

// ValidateCard checks the card fields of a payment request. The returned map
// holds one message per invalid field, empty fields included, so the whole
// form can be marked up in one pass.
func (svc *PaymentService) ValidateCard(req request.ProcessPayment) map[string]string {
	fieldErrors := map[string]string{}
	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if !card.ValidateNumber(number) {
		fieldErrors["card_number"] = "Invalid card number"
	}
	if !card.ValidateExpiry(req.CardExpiry, svc.now()) {
		fieldErrors["card_expiry"] = "Invalid or expired date"
	}
	if !card.ValidateCvc(req.CardCvc, req.CardNumber) {
		fieldErrors["card_cvc"] = "Incorrect CVC length"
	}
	if strings.TrimSpace(req.CardHolder) == "" {
		fieldErrors["card_holder"] = "Cardholder name required"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

type paymentDetails struct {
	Country    string `json:"country"`
	CardNumber string `json:"card_number,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"`
	CardCvc    string `json:"card_cvc,omitempty"`
	CardHolder string `json:"card_holder,omitempty"`
}

type processPayload struct {
	OrderID        string         `json:"order_id"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentDetails paymentDetails `json:"payment_details"`
}

// Process validates card input for the card method and submits the payment.
// Validation failures come back as a field error map, not an error.
func (svc *PaymentService) Process(
	c context.Context,
	req request.ProcessPayment,
) (response.Payment, map[string]string, error) {
	c, span := otel.Tracer.Start(c, "PaymentService Process")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService Process").
		Str(log.KeyOrderID, req.OrderID).
		Str(log.KeyPaymentMethod, req.PaymentMethod).
		Logger()

	if req.PaymentMethod == methodCard {
		logger = logger.With().Str(log.KeyProcess, "validating card").Logger()
		logger.Info().Msg("validating card")
		if fieldErrors := svc.ValidateCard(req); fieldErrors != nil {
			logger.Info().Any("fieldErrors", fieldErrors).Msg("card input is invalid")
			return response.Payment{}, fieldErrors, nil
		}
		logger.Info().Msg("validated card")
	}

	details := paymentDetails{Country: req.Country}
	if req.PaymentMethod == methodCard {
		details.CardNumber = strings.ReplaceAll(req.CardNumber, " ", "")
		details.CardExpiry = req.CardExpiry
		details.CardCvc = req.CardCvc
		details.CardHolder = req.CardHolder
	}
	payload := processPayload{
		OrderID:        req.OrderID,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: details,
	}

	logger = logger.With().Str(log.KeyProcess, "submitting payment").Logger()
	logger.Info().Msg("submitting payment")
	envelope, err := svc.client.PostJson(c, svc.paymentURL+"/process.php", payload, nil)
	if err != nil {
		err = fmt.Errorf("failed submitting payment with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, nil, err
	}

	confirmed := response.Payment{}
	if err := envelope.Bind(&confirmed); err != nil {
		err = fmt.Errorf("failed reading payment confirmation with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, nil, err
	}
	if confirmed.OrderID == "" {
		confirmed.OrderID = req.OrderID
	}
	if confirmed.PaymentMethod == "" {
		confirmed.PaymentMethod = req.PaymentMethod
	}
	logger.Info().Msg("payment accepted")
	return confirmed, nil, nil
}

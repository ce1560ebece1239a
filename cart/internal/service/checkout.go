package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopindream/storefront/cart/internal/otel"
	"github.com/shopindream/storefront/cart/pkg/request"
	"github.com/shopindream/storefront/cart/pkg/response"
	inErrors "github.com/shopindream/storefront/internal/errors"
	inHttp "github.com/shopindream/storefront/internal/http"
	"github.com/shopindream/storefront/internal/log"
)

// ValidateShippingForm trims every field, then validates the form as a unit.
// On failure it returns one human-readable message per violated field, keyed
// by the field's wire name. On success it returns the normalized form.
func ValidateShippingForm(form request.ShippingForm) (request.ShippingForm, map[string]string) {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Country = strings.TrimSpace(form.Country)
	form.State = strings.TrimSpace(form.State)
	form.City = strings.TrimSpace(form.City)
	form.Address = strings.TrimSpace(form.Address)
	form.ZipCode = strings.TrimSpace(form.ZipCode)

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.Struct(form)
	if err == nil {
		return form, nil
	}

	validationErrors := validator.ValidationErrors{}
	if !errors.As(err, &validationErrors) {
		return request.ShippingForm{}, map[string]string{"form": err.Error()}
	}

	fieldErrors := map[string]string{}
	for _, fieldError := range validationErrors {
		if _, ok := fieldErrors[fieldError.Field()]; ok {
			continue
		}
		fieldErrors[fieldError.Field()] = fieldMessage(fieldError)
	}
	return request.ShippingForm{}, fieldErrors
}

func fieldMessage(fieldError validator.FieldError) string {
	switch fieldError.Field() {
	case "first_name":
		return "First name required"
	case "last_name":
		return "Last name required"
	case "email":
		return "Invalid email address"
	case "country":
		return "Country required"
	case "city":
		return "City required"
	case "address":
		return "Address required"
	case "zip_code":
		return "ZIP code required"
	}
	return fmt.Sprintf("%s is invalid", fieldError.Field())
}

type checkoutAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	State     string `json:"state"`
	City      string `json:"city"`
	Address   string `json:"address"`
	ZipCode   string `json:"zip_code"`
}

type checkoutItem struct {
	GoodsID    int64             `json:"goods_id"`
	GoodsName  string            `json:"goods_name"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int32             `json:"quantity"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type checkoutPayload struct {
	Email           string          `json:"email"`
	ShippingAddress checkoutAddress `json:"shipping_address"`
	Items           []checkoutItem  `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Total           decimal.Decimal `json:"total"`
}

// Checkout validates the shipping form, submits the cart to the checkout
// backend and clears the cart once the backend confirms the order. Field
// errors are returned as a complete set, never partially applied.
func (svc *CartService) Checkout(
	c context.Context,
	form request.ShippingForm,
	authToken string,
) (response.Checkout, map[string]string, error) {
	c, span := otel.Tracer.Start(c, "CartService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating shipping form").Logger()
	logger.Info().Msg("validating shipping form")
	normalized, fieldErrors := ValidateShippingForm(form)
	if fieldErrors != nil {
		logger.Info().Any("fieldErrors", fieldErrors).Msg("shipping form is invalid")
		return response.Checkout{}, fieldErrors, nil
	}
	logger.Info().Msg("validated shipping form")

	state := svc.store.Snapshot()
	if len(state.Items) == 0 {
		err := inErrors.ErrEmptyCart
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, nil, err
	}

	logger = logger.With().
		Str(log.KeyProcess, "submitting checkout").
		Str(log.KeyCartSubtotal, state.Subtotal.String()).
		Logger()
	logger.Info().Msg("submitting checkout to order backend")

	shippingFee := ShippingFee(state.Subtotal)
	items := make([]checkoutItem, len(state.Items))
	for i, item := range state.Items {
		items[i] = checkoutItem{
			GoodsID:    item.ProductID,
			GoodsName:  item.Name,
			Price:      item.UnitPrice,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal(),
			Attributes: item.Attributes,
		}
	}
	payload := checkoutPayload{
		Email: normalized.Email,
		ShippingAddress: checkoutAddress{
			FirstName: normalized.FirstName,
			LastName:  normalized.LastName,
			Phone:     normalized.Phone,
			Country:   normalized.Country,
			State:     normalized.State,
			City:      normalized.City,
			Address:   normalized.Address,
			ZipCode:   normalized.ZipCode,
		},
		Items:           items,
		Subtotal:        state.Subtotal,
		ShippingFee:     shippingFee,
		Total:           state.Subtotal.Add(shippingFee),
	}

	headers := map[string]string{}
	if authToken != "" {
		headers[inHttp.KeyHeaderAuthorization] = "Bearer " + authToken
	}
	envelope, err := svc.client.PostJson(c, svc.checkoutURL, payload, headers)
	if err != nil {
		err = fmt.Errorf("failed submitting checkout with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "binding order id").Logger()
	confirmed := struct {
		OrderID response.OrderID `json:"order_id"`
	}{}
	if err := envelope.Bind(&confirmed); err != nil {
		err = fmt.Errorf("failed reading order id from checkout response with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, nil, err
	}
	logger = logger.With().Str(log.KeyOrderID, string(confirmed.OrderID)).Logger()
	logger.Info().Msg("order placed")

	logger = logger.With().Str(log.KeyProcess, "clearing cart after order").Logger()
	logger.Info().Msg("clearing cart after order")
	if err := svc.Clear(c); err != nil {
		// The order exists, losing the erase is not a checkout failure.
		logger.Warn().Err(err).Msg("failed clearing cart after order")
	}

	return response.Checkout{
		OrderID:     confirmed.OrderID,
		Subtotal:    payload.Subtotal,
		ShippingFee: payload.ShippingFee,
		Total:       payload.Total,
	}, nil, nil
}

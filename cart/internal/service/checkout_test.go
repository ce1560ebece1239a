package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopindream/storefront/cart/internal/mirror"
	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/cart/pkg/request"
	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
)

func validForm() request.ShippingForm {
	return request.ShippingForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Country:   "United Kingdom",
		City:      "London",
		Address:   "12 St James Square",
		ZipCode:   "SW1Y 4JH",
	}
}

func TestValidateShippingForm(t *testing.T) {
	tests := map[string]struct {
		mutate   func(form *request.ShippingForm)
		expected map[string]string
	}{
		"valid form": {
			mutate:   func(form *request.ShippingForm) {},
			expected: nil,
		},
		"optional fields may be empty": {
			mutate: func(form *request.ShippingForm) {
				form.Phone = ""
				form.State = ""
			},
			expected: nil,
		},
		"missing first name": {
			mutate: func(form *request.ShippingForm) {
				form.FirstName = ""
			},
			expected: map[string]string{"first_name": "First name required"},
		},
		"whitespace-only first name": {
			mutate: func(form *request.ShippingForm) {
				form.FirstName = "   "
			},
			expected: map[string]string{"first_name": "First name required"},
		},
		"invalid email": {
			mutate: func(form *request.ShippingForm) {
				form.Email = "not-an-email"
			},
			expected: map[string]string{"email": "Invalid email address"},
		},
		"multiple violations are reported together": {
			mutate: func(form *request.ShippingForm) {
				form.Email = ""
				form.Country = ""
				form.ZipCode = ""
			},
			expected: map[string]string{
				"email":    "Invalid email address",
				"country":  "Country required",
				"zip_code": "ZIP code required",
			},
		},
		"short address": {
			mutate: func(form *request.ShippingForm) {
				form.Address = "a"
			},
			expected: map[string]string{"address": "Address required"},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			test.mutate(&form)

			_, fieldErrors := ValidateShippingForm(form)

			assert.Equal(t, test.expected, fieldErrors)
		})
	}
}

func TestValidateShippingFormTrimsFields(t *testing.T) {
	form := validForm()
	form.FirstName = "  Ada  "
	form.Email = " ada@example.com "

	normalized, fieldErrors := ValidateShippingForm(form)

	require.Nil(t, fieldErrors)
	assert.Equal(t, "Ada", normalized.FirstName)
	assert.Equal(t, "ada@example.com", normalized.Email)
}

func TestShippingFee(t *testing.T) {
	tests := map[string]struct {
		subtotal decimal.Decimal
		expected decimal.Decimal
	}{
		"empty cart ships free":      {decimal.Zero, decimal.Zero},
		"below threshold":            {decimal.NewFromInt(45), decimal.NewFromInt(10)},
		"just below threshold":       {decimal.NewFromFloat(49.99), decimal.NewFromInt(10)},
		"at threshold":               {decimal.NewFromInt(50), decimal.Zero},
		"above threshold":            {decimal.NewFromInt(52), decimal.Zero},
		"small cart still pays flat": {decimal.NewFromFloat(0.01), decimal.NewFromInt(10)},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.True(t, test.expected.Equal(ShippingFee(test.subtotal)))
		})
	}
}

func newCheckoutService(t *testing.T, checkoutHandler http.HandlerFunc) *CartService {
	t.Helper()
	mirrorServer := syncedMirror(t)
	checkoutServer := httptest.NewServer(checkoutHandler)
	t.Cleanup(checkoutServer.Close)

	client := backend.NewClient(2 * time.Second)
	return NewCartService(
		store.NewStore(),
		&memoryAdapter{},
		mirror.New(client, mirrorServer.URL),
		client,
		checkoutServer.URL,
	)
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	var received checkoutPayload
	var authHeader string
	svc := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"data":{"order_id":90741}}`))
	})
	_, _, err := svc.AddItem(context.Background(), shirt(), 2)
	require.NoError(t, err)

	confirmed, fieldErrors, err := svc.Checkout(context.Background(), validForm(), "token-abc")

	require.NoError(t, err)
	require.Nil(t, fieldErrors)
	assert.EqualValues(t, "90741", confirmed.OrderID)
	assert.True(t, decimal.NewFromInt(40).Equal(confirmed.Subtotal))
	assert.True(t, decimal.NewFromInt(10).Equal(confirmed.ShippingFee))
	assert.True(t, decimal.NewFromInt(50).Equal(confirmed.Total))

	assert.Equal(t, "Bearer token-abc", authHeader)
	assert.Equal(t, "ada@example.com", received.Email)
	require.Len(t, received.Items, 1)
	assert.EqualValues(t, 10, received.Items[0].GoodsID)
	assert.True(t, decimal.NewFromInt(40).Equal(received.Items[0].Subtotal))

	assert.Empty(t, svc.State().Items, "cart clears once the order is confirmed")
}

func TestCheckoutFreeShippingAboveThreshold(t *testing.T) {
	svc := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"data":{"order_id":"ord-7"}}`))
	})
	_, _, err := svc.AddItem(context.Background(), shirt(), 3)
	require.NoError(t, err)

	confirmed, fieldErrors, err := svc.Checkout(context.Background(), validForm(), "")

	require.NoError(t, err)
	require.Nil(t, fieldErrors)
	assert.EqualValues(t, "ord-7", confirmed.OrderID)
	assert.True(t, decimal.Zero.Equal(confirmed.ShippingFee))
	assert.True(t, decimal.NewFromInt(60).Equal(confirmed.Total))
}

func TestCheckoutInvalidFormDoesNotCallBackend(t *testing.T) {
	called := false
	svc := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, _, err := svc.AddItem(context.Background(), shirt(), 1)
	require.NoError(t, err)

	form := validForm()
	form.Email = "nope"
	_, fieldErrors, err := svc.Checkout(context.Background(), form, "")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "Invalid email address"}, fieldErrors)
	assert.False(t, called)
	assert.Len(t, svc.State().Items, 1, "cart survives a rejected form")
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":{"order_id":"x"}}`))
	})

	_, fieldErrors, err := svc.Checkout(context.Background(), validForm(), "")

	require.ErrorIs(t, err, inErrors.ErrEmptyCart)
	assert.Nil(t, fieldErrors)
}

func TestCheckoutBackendFailureKeepsCart(t *testing.T) {
	svc := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, _, err := svc.AddItem(context.Background(), shirt(), 1)
	require.NoError(t, err)

	_, _, err = svc.Checkout(context.Background(), validForm(), "")

	require.ErrorIs(t, err, inErrors.ErrBackendStatus)
	assert.Len(t, svc.State().Items, 1, "cart survives a failed checkout")
}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopindream/storefront/internal/backend"
	"github.com/shopindream/storefront/payment/pkg/request"
)

func newPaymentService(t *testing.T, handler http.HandlerFunc) *PaymentService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc := NewPaymentService(backend.NewClient(2*time.Second), server.URL, server.URL)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	}
	return svc
}

func cardRequest() request.ProcessPayment {
	return request.ProcessPayment{
		OrderID:       "ord-1",
		PaymentMethod: "stripe",
		Country:       "United Kingdom",
		CardNumber:    "4532 0151 1283 0366",
		CardExpiry:    "06/26",
		CardCvc:       "123",
		CardHolder:    "Ada Lovelace",
	}
}

func TestMethodsFromBackend(t *testing.T) {
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/methods.php", r.URL.Path)
		w.Write([]byte(`{"code":200,"data":[
			{"id":"stripe","name":"Card","type":"credit_card","icon":"card","enabled":true},
			{"id":"paypal","name":"PayPal","type":"paypal","icon":"paypal","enabled":true}
		]}`))
	})

	methods := svc.Methods(context.Background())

	require.Len(t, methods, 2)
	assert.Equal(t, "stripe", methods[0].ID)
	assert.Equal(t, "paypal", methods[1].ID)
}

func TestMethodsFallbackWhenBackendFails(t *testing.T) {
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	methods := svc.Methods(context.Background())

	require.Len(t, methods, 3)
	assert.Equal(t, "stripe", methods[0].ID)
	assert.Equal(t, "paypal", methods[1].ID)
	assert.Equal(t, "crypto", methods[2].ID)
}

func TestMethodsFallbackWhenBackendEmpty(t *testing.T) {
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":[]}`))
	})

	methods := svc.Methods(context.Background())

	require.Len(t, methods, 3)
}

func TestOrder(t *testing.T) {
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/order.php", r.URL.Path)
		assert.Equal(t, "ord-9", r.URL.Query().Get("order_id"))
		w.Write([]byte(`{"code":200,"data":{
			"order_id":"ord-9","order_no":"20250901-9","status":"pending",
			"total":129.99,"email":"ada@example.com","items":[],
			"created_at":"2025-09-01T10:00:00Z"
		}}`))
	})

	order, err := svc.Order(context.Background(), "ord-9")

	require.NoError(t, err)
	assert.EqualValues(t, "ord-9", order.OrderID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "129.99", order.Total.String())
}

func TestValidateCard(t *testing.T) {
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {})

	tests := map[string]struct {
		mutate   func(req *request.ProcessPayment)
		expected map[string]string
	}{
		"valid card": {
			mutate:   func(req *request.ProcessPayment) {},
			expected: nil,
		},
		"bad checksum": {
			mutate: func(req *request.ProcessPayment) {
				req.CardNumber = "4532015112830367"
			},
			expected: map[string]string{"card_number": "Invalid card number"},
		},
		"expired card": {
			mutate: func(req *request.ProcessPayment) {
				req.CardExpiry = "05/25"
			},
			expected: map[string]string{"card_expiry": "Invalid or expired date"},
		},
		"wrong cvc length": {
			mutate: func(req *request.ProcessPayment) {
				req.CardCvc = "1234"
			},
			expected: map[string]string{"card_cvc": "Incorrect CVC length"},
		},
		"missing holder": {
			mutate: func(req *request.ProcessPayment) {
				req.CardHolder = "   "
			},
			expected: map[string]string{"card_holder": "Cardholder name required"},
		},
		"everything wrong at once": {
			mutate: func(req *request.ProcessPayment) {
				req.CardNumber = "1"
				req.CardExpiry = "13/10"
				req.CardCvc = ""
				req.CardHolder = ""
			},
			expected: map[string]string{
				"card_number": "Invalid card number",
				"card_expiry": "Invalid or expired date",
				"card_cvc":    "Incorrect CVC length",
				"card_holder": "Cardholder name required",
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			req := cardRequest()
			test.mutate(&req)
			assert.Equal(t, test.expected, svc.ValidateCard(req))
		})
	}
}

func TestProcessCardPayment(t *testing.T) {
	var received processPayload
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/process.php", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"code":200,"data":{"order_id":"ord-1","payment_method":"stripe","status":"paid"}}`))
	})

	confirmed, fieldErrors, err := svc.Process(context.Background(), cardRequest())

	require.NoError(t, err)
	require.Nil(t, fieldErrors)
	assert.Equal(t, "paid", confirmed.Status)
	assert.Equal(t, "4532015112830366", received.PaymentDetails.CardNumber,
		"card number is sent without spaces")
	assert.Equal(t, "Ada Lovelace", received.PaymentDetails.CardHolder)
}

func TestProcessInvalidCardDoesNotCallBackend(t *testing.T) {
	called := false
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := cardRequest()
	req.CardNumber = "1234"
	_, fieldErrors, err := svc.Process(context.Background(), req)

	require.NoError(t, err)
	assert.Contains(t, fieldErrors, "card_number")
	assert.False(t, called)
}

func TestProcessNonCardMethodSkipsCardValidation(t *testing.T) {
	var received processPayload
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"code":200,"data":{"order_id":"ord-1","payment_method":"paypal","status":"paid"}}`))
	})

	req := request.ProcessPayment{
		OrderID:       "ord-1",
		PaymentMethod: "paypal",
		Country:       "France",
	}
	confirmed, fieldErrors, err := svc.Process(context.Background(), req)

	require.NoError(t, err)
	require.Nil(t, fieldErrors)
	assert.Equal(t, "paid", confirmed.Status)
	assert.Empty(t, received.PaymentDetails.CardNumber)
	assert.Equal(t, "France", received.PaymentDetails.Country)
}

func TestProcessBackendFailure(t *testing.T) {
	svc := newPaymentService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":500,"message":"payment gateway error"}`))
	})

	_, fieldErrors, err := svc.Process(context.Background(), cardRequest())

	require.Error(t, err)
	assert.Nil(t, fieldErrors)
	assert.ErrorContains(t, err, "payment gateway error")
}

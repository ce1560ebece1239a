package mirror

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/backend"
)

func item() store.LineItem {
	return store.LineItem{
		ProductID:  10,
		Name:       "Basic Tee",
		ImageURL:   "https://cdn.shopindream.shop/tee.jpg",
		UnitPrice:  decimal.NewFromFloat(19.99),
		Quantity:   3,
		Attributes: map[string]string{"size": "M"},
	}
}

func TestPushAddSendsDesiredState(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Write([]byte(`{"status":200,"message":"ok"}`))
		}),
	)
	defer server.Close()

	m := New(backend.NewClient(time.Second), server.URL)
	err := m.Push(context.Background(), ActionAdd, item())
	assert.NoError(t, err)

	assert.Equal(t, "add", received["action"])
	assert.EqualValues(t, 10, received["goods_id"])
	assert.Equal(t, "Basic Tee", received["goods_name"])
	assert.EqualValues(t, 3, received["quantity"])
	assert.Equal(t, map[string]interface{}{"size": "M"}, received["attributes"])
}

func TestPushRemoveOmitsSnapshotFields(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Write([]byte(`{"code":200}`))
		}),
	)
	defer server.Close()

	m := New(backend.NewClient(time.Second), server.URL)
	err := m.Push(context.Background(), ActionRemove, item())
	assert.NoError(t, err)

	assert.Equal(t, "remove", received["action"])
	assert.EqualValues(t, 10, received["goods_id"])
	assert.NotContains(t, received, "goods_name")
	assert.NotContains(t, received, "price")
	assert.NotContains(t, received, "quantity")
}

func TestPushServerError(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"status":500,"message":"boom"}`))
		}),
	)
	defer server.Close()

	m := New(backend.NewClient(time.Second), server.URL)
	assert.Error(t, m.Push(context.Background(), ActionAdd, item()))
}

func TestPushEnvelopeFailure(t *testing.T) {
	// HTTP 200 but the envelope reports a non-success status.
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":403,"message":"forbidden"}`))
		}),
	)
	defer server.Close()

	m := New(backend.NewClient(time.Second), server.URL)
	assert.Error(t, m.Push(context.Background(), ActionAdd, item()))
}

func TestPushMalformedResponse(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}),
	)
	defer server.Close()

	m := New(backend.NewClient(time.Second), server.URL)
	assert.Error(t, m.Push(context.Background(), ActionAdd, item()))
}

func TestPushUnreachableBackend(t *testing.T) {
	m := New(backend.NewClient(100*time.Millisecond), "http://127.0.0.1:1/cart.php")
	assert.Error(t, m.Push(context.Background(), ActionAdd, item()))
}

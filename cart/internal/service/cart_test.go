package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopindream/storefront/cart/internal/mirror"
	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
)

// memoryAdapter keeps persisted state in memory so tests can inspect exactly
// what a mutation wrote through.
type memoryAdapter struct {
	mu      sync.Mutex
	items   []store.LineItem
	saved   int
	erased  int
	saveErr error
}

func (a *memoryAdapter) Load(_ context.Context) ([]store.LineItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]store.LineItem{}, a.items...), nil
}

func (a *memoryAdapter) Save(_ context.Context, items []store.LineItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saveErr != nil {
		return a.saveErr
	}
	a.items = append([]store.LineItem{}, items...)
	a.saved++
	return nil
}

func (a *memoryAdapter) Erase(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = nil
	a.erased++
	return nil
}

func newTestService(mirrorURL string) (*CartService, *memoryAdapter) {
	adapter := &memoryAdapter{}
	client := backend.NewClient(2 * time.Second)
	svc := NewCartService(
		store.NewStore(),
		adapter,
		mirror.New(client, mirrorURL),
		client,
		"",
	)
	return svc, adapter
}

func syncedMirror(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":200,"message":"ok","data":null}`))
		}),
	)
	t.Cleanup(server.Close)
	return server
}

func failingMirror(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}),
	)
	t.Cleanup(server.Close)
	return server
}

func shirt() store.LineItem {
	return store.LineItem{
		ProductID:  10,
		Name:       "Linen Shirt",
		UnitPrice:  decimal.NewFromInt(20),
		Attributes: map[string]string{"size": "M"},
	}
}

func TestCartServiceAddItemSynced(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)

	state, outcome, err := svc.AddItem(context.Background(), shirt(), 2)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSynced, outcome)
	require.Len(t, state.Items, 1)
	assert.EqualValues(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 1, adapter.saved)
	require.Len(t, adapter.items, 1)
	assert.EqualValues(t, 2, adapter.items[0].Quantity)
}

func TestCartServiceAddItemDegradedKeepsLocalState(t *testing.T) {
	server := failingMirror(t)
	svc, adapter := newTestService(server.URL)

	state, outcome, err := svc.AddItem(context.Background(), shirt(), 1)

	require.NoError(t, err)
	assert.Equal(t, OutcomeDegraded, outcome)
	require.Len(t, state.Items, 1)
	assert.EqualValues(t, 1, state.Items[0].Quantity)
	require.Len(t, adapter.items, 1, "write-through persist must not depend on the mirror")
}

func TestCartServiceAddItemUnreachableMirrorDegrades(t *testing.T) {
	svc, _ := newTestService("http://127.0.0.1:1")

	state, outcome, err := svc.AddItem(context.Background(), shirt(), 1)

	require.NoError(t, err)
	assert.Equal(t, OutcomeDegraded, outcome)
	assert.Len(t, state.Items, 1)
}

func TestCartServiceAddItemInvalidQuantity(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)

	_, _, err := svc.AddItem(context.Background(), shirt(), 0)

	require.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
	assert.Empty(t, svc.State().Items)
	assert.Zero(t, adapter.saved)
}

func TestCartServiceAddItemPersistFailure(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)
	adapter.saveErr = assert.AnError

	_, _, err := svc.AddItem(context.Background(), shirt(), 1)

	require.ErrorIs(t, err, assert.AnError)
}

func TestCartServiceRemoveItem(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)
	_, _, err := svc.AddItem(context.Background(), shirt(), 2)
	require.NoError(t, err)

	state, outcome, err := svc.RemoveItem(
		context.Background(),
		10,
		map[string]string{"size": "M"},
	)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSynced, outcome)
	assert.Empty(t, state.Items)
	assert.Empty(t, adapter.items)
}

func TestCartServiceRemoveAbsentItemIsNoOp(t *testing.T) {
	server := syncedMirror(t)
	svc, _ := newTestService(server.URL)

	state, outcome, err := svc.RemoveItem(context.Background(), 99, nil)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSynced, outcome)
	assert.Empty(t, state.Items)
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	server := syncedMirror(t)
	svc, _ := newTestService(server.URL)
	_, _, err := svc.AddItem(context.Background(), shirt(), 1)
	require.NoError(t, err)

	state, outcome, err := svc.UpdateQuantity(
		context.Background(),
		10,
		map[string]string{"size": "M"},
		5,
	)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSynced, outcome)
	require.Len(t, state.Items, 1)
	assert.EqualValues(t, 5, state.Items[0].Quantity)
}

func TestCartServiceUpdateQuantityBelowOneRemoves(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)
	_, _, err := svc.AddItem(context.Background(), shirt(), 3)
	require.NoError(t, err)

	state, outcome, err := svc.UpdateQuantity(
		context.Background(),
		10,
		map[string]string{"size": "M"},
		0,
	)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSynced, outcome)
	assert.Empty(t, state.Items)
	assert.Empty(t, adapter.items)
}

func TestCartServiceUpdateQuantityMissingItem(t *testing.T) {
	server := syncedMirror(t)
	svc, _ := newTestService(server.URL)

	_, _, err := svc.UpdateQuantity(context.Background(), 99, nil, 2)

	require.ErrorIs(t, err, inErrors.ErrItemNotFound)
}

func TestCartServiceHydrateRoundTrip(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)
	_, _, err := svc.AddItem(context.Background(), shirt(), 2)
	require.NoError(t, err)

	rehydrated := NewCartService(
		store.NewStore(),
		adapter,
		mirror.New(backend.NewClient(2*time.Second), server.URL),
		backend.NewClient(2*time.Second),
		"",
	)
	require.NoError(t, rehydrated.Hydrate(context.Background()))

	state := rehydrated.State()
	require.Len(t, state.Items, 1)
	assert.EqualValues(t, 2, state.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(40).Equal(state.Subtotal))
}

func TestCartServiceClear(t *testing.T) {
	server := syncedMirror(t)
	svc, adapter := newTestService(server.URL)
	_, _, err := svc.AddItem(context.Background(), shirt(), 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background()))

	assert.Empty(t, svc.State().Items)
	assert.Empty(t, adapter.items)
	assert.Equal(t, 1, adapter.erased)
}

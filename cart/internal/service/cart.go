package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/cart/internal/mirror"
	"github.com/shopindream/storefront/cart/internal/otel"
	"github.com/shopindream/storefront/cart/internal/storage"
	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
	"github.com/shopindream/storefront/internal/log"
)

// Outcome tells the caller whether a locally successful mutation also reached
// the remote cart service. Degraded is still success, the soft warning is the
// caller's concern.
type Outcome string

const (
	OutcomeSynced   Outcome = "synced"
	OutcomeDegraded Outcome = "degraded"
)

// CartService applies every mutation in two phases with separate failure
// domains: a synchronous local apply plus write-through persist, then an
// advisory push to the remote mirror. The second phase never rolls back the
// first.
type CartService struct {
	mu          sync.Mutex
	store       *store.Store
	storage     storage.Adapter
	mirror      *mirror.Mirror
	client      *backend.Client
	checkoutURL string
}

func NewCartService(
	st *store.Store,
	adapter storage.Adapter,
	m *mirror.Mirror,
	client *backend.Client,
	checkoutURL string,
) *CartService {
	return &CartService{
		store:       st,
		storage:     adapter,
		mirror:      m,
		client:      client,
		checkoutURL: checkoutURL,
	}
}

// Hydrate loads persisted cart state into the store. A corrupt blob was
// already recovered to an empty cart by the storage adapter.
func (svc *CartService) Hydrate(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CartService Hydrate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Hydrate").
		Str(log.KeyProcess, "loading persisted cart").
		Logger()

	logger.Info().Msg("loading persisted cart")
	items, err := svc.storage.Load(c)
	if err != nil {
		err = fmt.Errorf("failed loading persisted cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	svc.store.Hydrate(items)
	logger.Info().Int(log.KeyItemCount, len(items)).Msg("loaded persisted cart")

	return nil
}

func (svc *CartService) AddItem(
	c context.Context,
	item store.LineItem,
	quantity int32,
) (store.State, Outcome, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Int64(log.KeyProductID, item.ProductID).
		Int32(log.KeyItemQuantity, quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "applying local mutation").Logger()
	logger.Info().Msg("adding item to cart")
	svc.mu.Lock()
	merged, err := svc.store.Add(item, quantity)
	if err != nil {
		svc.mu.Unlock()
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, "", err
	}
	state, err := svc.persistLocked(c)
	svc.mu.Unlock()
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, "", err
	}
	logger.Info().
		Int32(log.KeyItemCount, state.ItemCount).
		Msg("added item to cart")

	outcome := svc.push(c, mirror.ActionAdd, merged)
	return state, outcome, nil
}

func (svc *CartService) RemoveItem(
	c context.Context,
	productID int64,
	attributes map[string]string,
) (store.State, Outcome, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	identity := store.NewIdentity(productID, attributes)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyItemIdentity, string(identity)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "applying local mutation").Logger()
	logger.Info().Msg("removing item from cart")
	svc.mu.Lock()
	removed := svc.store.Remove(identity)
	state, err := svc.persistLocked(c)
	svc.mu.Unlock()
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, "", err
	}
	if !removed {
		logger.Info().Msg("item was not in cart, nothing to remove")
	} else {
		logger.Info().Msg("removed item from cart")
	}

	outcome := svc.push(c, mirror.ActionRemove, store.LineItem{
		ProductID:  productID,
		Attributes: attributes,
	})
	return state, outcome, nil
}

func (svc *CartService) UpdateQuantity(
	c context.Context,
	productID int64,
	attributes map[string]string,
	quantity int32,
) (store.State, Outcome, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	// Decrementing to zero or below is removal, not a zero-quantity state.
	if quantity < 1 {
		return svc.RemoveItem(c, productID, attributes)
	}

	identity := store.NewIdentity(productID, attributes)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyItemIdentity, string(identity)).
		Int32(log.KeyItemQuantity, quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "applying local mutation").Logger()
	logger.Info().Msg("updating item quantity")
	svc.mu.Lock()
	updated, err := svc.store.SetQuantity(identity, quantity)
	if err != nil {
		svc.mu.Unlock()
		err = fmt.Errorf("failed updating item quantity with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, "", err
	}
	state, err := svc.persistLocked(c)
	svc.mu.Unlock()
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.State{}, "", err
	}
	logger.Info().Msg("updated item quantity")

	outcome := svc.push(c, mirror.ActionUpdate, updated)
	return state, outcome, nil
}

// Clear empties the cart and erases persisted state. It is local-only, the
// backend already learned about the order through checkout.
func (svc *CartService) Clear(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	svc.mu.Lock()
	svc.store.Clear()
	err := svc.storage.Erase(c)
	svc.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("failed erasing persisted cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared cart")

	return nil
}

func (svc *CartService) State() store.State {
	return svc.store.Snapshot()
}

// persistLocked writes the current state through to storage. Callers must
// hold svc.mu so two rapid mutations serialize through local state.
func (svc *CartService) persistLocked(c context.Context) (store.State, error) {
	state := svc.store.Snapshot()
	if err := svc.storage.Save(c, state.Items); err != nil {
		return store.State{}, fmt.Errorf("failed persisting cart with error=%w", err)
	}
	return state, nil
}

// push mirrors one mutation to the remote cart service. Failure downgrades
// the outcome, it never fails the operation or rolls back local state.
func (svc *CartService) push(c context.Context, action mirror.Action, item store.LineItem) Outcome {
	c, span := otel.Tracer.Start(c, "CartService push")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService push").
		Str(log.KeyProcess, "mirroring mutation to cart backend").
		Logger()

	if err := svc.mirror.Push(c, action, item); err != nil {
		inErrors.HandleError(err, span)
		logger.Warn().
			Err(err).
			Str(log.KeySyncOutcome, string(OutcomeDegraded)).
			Msg("cart backend unreachable, keeping local state")
		return OutcomeDegraded
	}
	logger.Info().
		Str(log.KeySyncOutcome, string(OutcomeSynced)).
		Msg("mirrored mutation to cart backend")
	return OutcomeSynced
}

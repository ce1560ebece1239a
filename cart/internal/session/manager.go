package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/cart/internal/service"
	"github.com/shopindream/storefront/internal/log"
)

// Factory builds the cart service for one session. The manager owns caching
// and hydration, the factory only wires dependencies.
type Factory func(sessionID string) *service.CartService

// Manager hands out one CartService per session and hydrates it from
// persisted state the first time the session shows up.
type Manager struct {
	mu      sync.Mutex
	carts   map[string]*service.CartService
	factory Factory
}

func NewManager(factory Factory) *Manager {
	return &Manager{
		carts:   map[string]*service.CartService{},
		factory: factory,
	}
}

func (m *Manager) Cart(c context.Context, sessionID string) (*service.CartService, error) {
	m.mu.Lock()
	cart, ok := m.carts[sessionID]
	m.mu.Unlock()
	if ok {
		return cart, nil
	}

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionManager Cart").
		Str(log.KeySessionID, sessionID).
		Logger()

	logger.Info().Msg("initializing cart for new session")
	cart = m.factory(sessionID)
	if err := cart.Hydrate(c); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.carts[sessionID]; ok {
		// Another request won the race, its hydrated cart is the one to keep.
		return existing, nil
	}
	m.carts[sessionID] = cart
	logger.Info().Msg("initialized cart for new session")
	return cart, nil
}

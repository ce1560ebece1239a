package store

import (
	"sync"

	"github.com/shopspring/decimal"

	inErrors "github.com/shopindream/storefront/internal/errors"
)

// State is a read-only snapshot of the cart. ItemCount and Subtotal are always
// recomputed from the line items, never stored.
type State struct {
	Items     []LineItem
	ItemCount int32
	Subtotal  decimal.Decimal
}

// Store holds the ordered cart line items, unique by identity. Adding to an
// existing identity merges quantities instead of appending.
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

func NewStore() *Store {
	return &Store{}
}

// Hydrate replaces the store contents with persisted line items. Duplicate
// identities in the blob are merged so the uniqueness invariant holds even for
// hand-edited or partially written state.
func (s *Store) Hydrate(items []LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i, ok := s.index(item.Identity()); ok {
			s.items[i].Quantity += item.Quantity
			continue
		}
		s.items = append(s.items, item.clone())
	}
}

// Add merges quantity into an existing line item with the same identity or
// appends a new one. It returns the resulting line item.
func (s *Store) Add(item LineItem, quantity int32) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, inErrors.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index(item.Identity()); ok {
		s.items[i].Quantity += quantity
		return s.items[i].clone(), nil
	}

	item = item.clone()
	item.Quantity = quantity
	s.items = append(s.items, item)
	return item.clone(), nil
}

// Remove deletes the line item with the given identity. Removing an absent
// identity is a no-op, not an error.
func (s *Store) Remove(identity Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(identity)
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// SetQuantity sets the quantity of an existing line item. Callers must handle
// quantity < 1 as removal before calling.
func (s *Store) SetQuantity(identity Identity, quantity int32) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, inErrors.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index(identity)
	if !ok {
		return LineItem{}, inErrors.ErrItemNotFound
	}
	s.items[i].Quantity = quantity
	return s.items[i].clone(), nil
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{Items: make([]LineItem, 0, len(s.items)), Subtotal: decimal.Zero}
	for _, item := range s.items {
		state.Items = append(state.Items, item.clone())
		state.ItemCount += item.Quantity
		state.Subtotal = state.Subtotal.Add(item.Subtotal())
	}
	return state
}

func (s *Store) index(identity Identity) (int, bool) {
	for i, item := range s.items {
		if item.Identity() == identity {
			return i, true
		}
	}
	return 0, false
}

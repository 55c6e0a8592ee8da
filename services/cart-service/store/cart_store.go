package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lumora-candles/backend/services/cart-service/models"
)

// Persistence is what the store needs from the cart repository.
type Persistence interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

// CartStore is the single owner of cart state. Every mutation goes through
// it, and subscribers receive a snapshot of the new state as soon as the
// mutation lands, instead of polling for changes.
type CartStore struct {
	repo Persistence

	mu        sync.Mutex
	subs      map[string]map[int]chan models.Cart
	nextSubID int
}

func NewCartStore(repo Persistence) *CartStore {
	return &CartStore{
		repo: repo,
		subs: make(map[string]map[int]chan models.Cart),
	}
}

// Get returns the session's cart, or an empty cart when none exists yet.
func (s *CartStore) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{SessionID: sessionID, Items: []models.CartItem{}}
	}
	return cart, nil
}

// AddItem merges an item into the cart. Adding a product already present
// accumulates its quantity; name, price and image take the latest values.
func (s *CartStore) AddItem(ctx context.Context, sessionID string, item models.CartItem) (*models.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i, existing := range cart.Items {
		if existing.ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			cart.Items[i].Name = item.Name
			cart.Items[i].Price = item.Price
			cart.Items[i].Image = item.Image
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	s.notify(sessionID, *cart)
	return cart, nil
}

// RemoveItem drops the whole line for productID. Removing a product that is
// not in the cart is a no-op.
func (s *CartStore) RemoveItem(ctx context.Context, sessionID, productID string) (*models.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	cart.Items = filtered

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	s.notify(sessionID, *cart)
	return cart, nil
}

// Clear empties the session's cart.
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil {
		return err
	}
	s.notify(sessionID, models.Cart{SessionID: sessionID, Items: []models.CartItem{}})
	return nil
}

// Subscribe registers for snapshots of the session's cart. The returned
// channel receives the full cart after every mutation; call the cancel
// function to unsubscribe.
func (s *CartStore) Subscribe(sessionID string) (<-chan models.Cart, func()) {
	ch := make(chan models.Cart, 8)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	if s.subs[sessionID] == nil {
		s.subs[sessionID] = make(map[int]chan models.Cart)
	}
	s.subs[sessionID][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if chans, ok := s.subs[sessionID]; ok {
			delete(chans, id)
			if len(chans) == 0 {
				delete(s.subs, sessionID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *CartStore) notify(sessionID string, snapshot models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[sessionID] {
		select {
		case ch <- snapshot:
		default:
			zap.L().Warn("Dropping cart snapshot for slow subscriber",
				zap.String("sessionId", sessionID))
		}
	}
}

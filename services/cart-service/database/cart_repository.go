package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumora-candles/backend/services/cart-service/models"
)

// CartRepository persists session carts in Redis with a TTL, so abandoned
// carts expire on their own.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CartRepository) getKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// GetCart returns the stored cart, or nil when the session has none.
func (r *CartRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(cart.SessionID), data, r.ttl).Err()
}

func (r *CartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.getKey(sessionID)).Err()
}

func (r *CartRepository) getIdemKey(key string) string {
	return "idem:checkout:" + key
}

// GetIdempotency returns the order id previously recorded for an
// Idempotency-Key, or "" when none exists.
func (r *CartRepository) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getIdemKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *CartRepository) SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.getIdemKey(key), orderID, ttl).Err()
}

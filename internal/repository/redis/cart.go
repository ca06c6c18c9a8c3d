package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
)

const cartKeyPrefix = "cart:"

// CartStore keeps per-user carts as JSON blobs in Redis.
type CartStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCartStore builds a CartStore. Carts expire after ttl of inactivity; a
// non-positive ttl keeps them forever.
func NewCartStore(client *goredis.Client, ttl time.Duration) *CartStore {
	return &CartStore{client: client, ttl: ttl}
}

// Get loads the cart for userID. A missing cart is returned empty, not as
// an error.
func (s *CartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return &cart, nil
}

// Save writes the cart back, resetting its TTL.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing cart: %w", err)
	}
	return nil
}

// Delete removes the cart for userID.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

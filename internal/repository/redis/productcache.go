package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

const featuredKey = "featured_products"

// FeaturedCache caches the featured product listing under a single key so
// the hot landing-page query skips Postgres.
type FeaturedCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewFeaturedCache builds a FeaturedCache. A non-positive ttl caches until
// the next invalidation.
func NewFeaturedCache(client *goredis.Client, ttl time.Duration) *FeaturedCache {
	return &FeaturedCache{client: client, ttl: ttl}
}

// Get returns the cached listing, or ErrNotFound on a cache miss.
func (c *FeaturedCache) Get(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, featuredKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, apperrors.NotFoundMsg("featured products not cached")
		}
		return nil, fmt.Errorf("loading featured cache: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decoding featured cache: %w", err)
	}
	return products, nil
}

// Set replaces the cached listing.
func (c *FeaturedCache) Set(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encoding featured cache: %w", err)
	}
	if err := c.client.Set(ctx, featuredKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing featured cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing so the next read refills it.
func (c *FeaturedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, featuredKey).Err(); err != nil {
		return fmt.Errorf("invalidating featured cache: %w", err)
	}
	return nil
}

// Package repository defines the persistence interfaces used by the service
// layer. Postgres-backed and Redis-backed implementations live in the
// subpackages.
package repository

import (
	"context"
	"time"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
	ListFeatured(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListRandom(ctx context.Context, n int) ([]domain.Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// SessionStore keeps the single active refresh token per user. Put
// overwrites any previous entry so a later login wins.
type SessionStore interface {
	Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// CartStore persists per-user carts.
type CartStore interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// FeaturedCache caches the featured product listing.
type FeaturedCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

func TestFeaturedCacheMiss(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewFeaturedCache(client, 0)

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFeaturedCacheSetGet(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewFeaturedCache(client, 0)
	ctx := context.Background()

	products := []domain.Product{{ID: "p1", Name: "Runner", IsFeatured: true}}
	require.NoError(t, cache.Set(ctx, products))

	cached, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "p1", cached[0].ID)
}

func TestFeaturedCacheInvalidate(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewFeaturedCache(client, 0)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []domain.Product{{ID: "p1"}}))
	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

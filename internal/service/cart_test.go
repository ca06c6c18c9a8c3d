package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

func newCartFixture() (*CartService, *fakeCartStore, *mockProductRepo) {
	carts := newFakeCartStore()
	products := &mockProductRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCartService(carts, products, logger), carts, products
}

func TestCartAddItemMergesQuantities(t *testing.T) {
	svc, _, products := newCartFixture()
	ctx := context.Background()

	p1 := &domain.Product{ID: "p1", Price: 1000}
	products.On("GetByID", mock.Anything, "p1").Return(p1, nil)
	products.On("ListByIDs", mock.Anything, []string{"p1"}).Return([]domain.Product{*p1}, nil)

	_, err := svc.AddItem(ctx, "user-1", "p1")
	require.NoError(t, err)

	view, err := svc.AddItem(ctx, "user-1", "p1")
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(2000), view.Total)
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, _, products := newCartFixture()

	products.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.AddItem(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartGetDropsDeletedProducts(t *testing.T) {
	svc, carts, products := newCartFixture()
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: "gone", Quantity: 1}, {ProductID: "p1", Quantity: 1}},
	}))
	products.On("ListByIDs", mock.Anything, []string{"gone", "p1"}).
		Return([]domain.Product{{ID: "p1", Price: 500}}, nil)

	view, err := svc.Get(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p1", view.Items[0].Product.ID)
	assert.Equal(t, int64(500), view.Total)
}

func TestCartUpdateQuantity(t *testing.T) {
	svc, carts, products := newCartFixture()
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}))
	products.On("ListByIDs", mock.Anything, []string{"p1"}).
		Return([]domain.Product{{ID: "p1", Price: 100}}, nil)

	view, err := svc.UpdateQuantity(ctx, "user-1", "p1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	svc, carts, products := newCartFixture()
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}))
	products.On("ListByIDs", mock.Anything, []string{}).Return([]domain.Product{}, nil)

	view, err := svc.UpdateQuantity(ctx, "user-1", "p1", 0)

	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartUpdateQuantityUnknownItem(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.UpdateQuantity(context.Background(), "user-1", "missing", 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartUpdateQuantityNegative(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.UpdateQuantity(context.Background(), "user-1", "p1", -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCartRemoveItem(t *testing.T) {
	svc, carts, products := newCartFixture()
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}))
	products.On("ListByIDs", mock.Anything, []string{}).Return([]domain.Product{}, nil)

	view, err := svc.RemoveItem(ctx, "user-1", "p1")

	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = svc.RemoveItem(ctx, "user-1", "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartClear(t *testing.T) {
	svc, carts, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, carts.Save(ctx, &domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 2}},
	}))

	require.NoError(t, svc.Clear(ctx, "user-1"))

	cart, err := carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

package service

import (
	"context"
	"log/slog"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/internal/repository"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

// CartLine is a cart item joined with its product.
type CartLine struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// CartView is the cart as returned to clients, with line items priced.
type CartView struct {
	Items []CartLine `json:"items"`
	Total int64      `json:"total"`
}

// CartService implements the shopping cart operations.
type CartService struct {
	carts    repository.CartStore
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService builds a CartService.
func NewCartService(carts repository.CartStore, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// Get returns the user's cart joined with product details. Items whose
// product has since been deleted are dropped from the view.
func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.ListByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &CartView{Items: []CartLine{}}
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		view.Items = append(view.Items, CartLine{Product: product, Quantity: item.Quantity})
		view.Total += product.Price * int64(item.Quantity)
	}
	return view, nil
}

// AddItem adds one unit of a product to the cart, creating the cart if
// needed. The product must exist.
func (s *CartService) AddItem(ctx context.Context, userID, productID string) (*CartView, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.AddItem(productID)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateQuantity sets the quantity of a cart item. A quantity of zero
// removes the item.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(productID, quantity) {
		return nil, apperrors.NotFoundMsg("item not found in cart")
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem deletes a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.RemoveItem(productID) {
		return nil, apperrors.NotFoundMsg("item not found in cart")
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))
	return nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/internal/repository"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
	"github.com/kevalmehta17/EclipseStore/pkg/pagination"
	"github.com/kevalmehta17/EclipseStore/pkg/slug"
)

const recommendedCount = 3

// ProductEvents receives the events the catalog flows emit.
type ProductEvents interface {
	ProductCreated(ctx context.Context, product *domain.Product)
	ProductDeleted(ctx context.Context, productID string)
}

// ProductService implements the catalog operations.
type ProductService struct {
	products repository.ProductRepository
	featured repository.FeaturedCache
	events   ProductEvents
	logger   *slog.Logger
}

// NewProductService builds a ProductService.
func NewProductService(
	products repository.ProductRepository,
	featured repository.FeaturedCache,
	events ProductEvents,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{products: products, featured: featured, events: events, logger: logger}
}

// CreateProductInput are the fields required to add a catalog entry.
type CreateProductInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Category    string `json:"category" validate:"required"`
	IsFeatured  bool   `json:"is_featured"`
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug.Generate(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		IsFeatured:  in.IsFeatured,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	if product.IsFeatured {
		s.refreshFeaturedCache(ctx)
	}

	s.events.ProductCreated(ctx, product)
	s.logger.InfoContext(ctx, "product created", slog.String("product_id", product.ID))
	return product, nil
}

// GetByID returns a single product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List returns a page of the catalog.
func (s *ProductService) List(ctx context.Context, params pagination.Params) (*pagination.Result[domain.Product], error) {
	products, err := s.products.List(ctx, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	result := pagination.NewResult(products, int(total), params)
	return &result, nil
}

// Featured returns the featured listing, reading through the cache. A cache
// read failure falls back to the database rather than failing the request.
func (s *ProductService) Featured(ctx context.Context) ([]domain.Product, error) {
	cached, err := s.featured.Get(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "featured cache read failed", slog.String("error", err.Error()))
	}

	products, err := s.products.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperrors.NotFoundMsg("no featured products found")
	}

	if err := s.featured.Set(ctx, products); err != nil {
		s.logger.WarnContext(ctx, "featured cache write failed", slog.String("error", err.Error()))
	}
	return products, nil
}

// ByCategory returns every product in a category, or ErrNotFound when the
// category has none.
func (s *ProductService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.products.ListByCategory(ctx, strings.ToLower(strings.TrimSpace(category)))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperrors.NotFoundMsg("no products found in category")
	}
	return products, nil
}

// Recommended returns a small random sample of the catalog.
func (s *ProductService) Recommended(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListRandom(ctx, recommendedCount)
}

// ToggleFeatured flips the featured flag on a product and rewrites the
// featured cache.
func (s *ProductService) ToggleFeatured(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.IsFeatured = !product.IsFeatured
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.refreshFeaturedCache(ctx)
	return product, nil
}

// Delete removes a product and invalidates the featured cache.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.featured.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "featured cache invalidation failed", slog.String("error", err.Error()))
	}
	s.events.ProductDeleted(ctx, id)
	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// refreshFeaturedCache rewrites the cache from the database. Failures are
// logged, never surfaced.
func (s *ProductService) refreshFeaturedCache(ctx context.Context) {
	products, err := s.products.ListFeatured(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "featured cache refresh failed", slog.String("error", err.Error()))
		return
	}
	if err := s.featured.Set(ctx, products); err != nil {
		s.logger.WarnContext(ctx, "featured cache write failed", slog.String("error", err.Error()))
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

// ProductRepository stores catalog entries in Postgres.
type ProductRepository struct {
	db DB
}

// NewProductRepository builds a ProductRepository on top of db.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = "id, name, slug, description, price, image_url, category, is_featured, created_at, updated_at"

// Create inserts a new product and fills in the generated id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, slug, description, price, image_url, category, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Category, p.IsFeatured).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// GetByID fetches a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ImageURL,
		&p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return &p, nil
}

// List returns a page of products ordered by creation time, newest first.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Count returns the total number of products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}

// ListFeatured returns every product flagged as featured.
func (r *ProductRepository) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE is_featured ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing featured products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListByCategory returns every product in category.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE category = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("listing products by category: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListRandom returns up to n products in random order.
func (r *ProductRepository) ListRandom(ctx context.Context, n int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		ORDER BY RANDOM() LIMIT $1`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("listing random products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListByIDs returns the products whose id appears in ids. Unknown ids are
// silently skipped.
func (r *ProductRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("listing products by ids: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Update rewrites every mutable column of the product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, image_url = $6,
		    category = $7, is_featured = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Category, p.IsFeatured).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", p.ID)
		}
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ImageURL,
			&p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/internal/service"
	"github.com/kevalmehta17/EclipseStore/pkg/pagination"
	"github.com/kevalmehta17/EclipseStore/pkg/validator"
)

// ListProducts returns a page of the catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.productSvc.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetProduct returns a single product by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.Product{"product": product})
}

// FeaturedProducts returns the featured listing.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.Featured(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Product{"products": products})
}

// ProductsByCategory returns every product in a category.
func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Product{"products": products})
}

// RecommendedProducts returns a random catalog sample.
func (h *Handler) RecommendedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.Recommended(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Product{"products": products})
}

// CreateProduct adds a catalog entry. Admin only.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.CreateProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validator.Validate(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, err := h.productSvc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]*domain.Product{"product": product})
}

// ToggleFeaturedProduct flips the featured flag. Admin only.
func (h *Handler) ToggleFeaturedProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.ToggleFeatured(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.Product{"product": product})
}

// DeleteProduct removes a catalog entry. Admin only.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

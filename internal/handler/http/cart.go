package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
	"github.com/kevalmehta17/EclipseStore/pkg/validator"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the authenticated user's cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
		return
	}

	view, err := h.cartSvc.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddCartItem adds one unit of a product to the cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
		return
	}

	var in addItemRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validator.Validate(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.cartSvc.AddItem(r.Context(), user.ID, in.ProductID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateCartItem sets the quantity of a cart item; zero removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
		return
	}

	var in updateQuantityRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.cartSvc.UpdateQuantity(r.Context(), user.ID, chi.URLParam(r, "productID"), in.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveCartItem deletes a product from the cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
		return
	}

	view, err := h.cartSvc.RemoveItem(r.Context(), user.ID, chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
		return
	}

	if err := h.cartSvc.Clear(r.Context(), user.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cart cleared successfully")
}

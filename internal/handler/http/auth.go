package http

import (
	"net/http"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/internal/service"
	"github.com/kevalmehta17/EclipseStore/pkg/validator"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Signup creates an account and starts a session.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validator.Validate(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, pair, err := h.authSvc.Signup(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.setSession(w, pair)
	writeJSON(w, http.StatusCreated, sessionResponse{Message: "User created successfully", User: user})
}

// Login verifies credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validator.Validate(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, pair, err := h.authSvc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.setSession(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{Message: "Login successful", User: user})
}

// Logout revokes the session and clears both cookies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	refresh := readCookie(r, refreshTokenCookie)

	if err := h.authSvc.Logout(r.Context(), refresh); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.clear(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Refresh mints a new access token from a valid refresh cookie.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refresh := readCookie(r, refreshTokenCookie)

	access, err := h.authSvc.Refresh(r.Context(), refresh)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.setAccess(w, access)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "Access token refreshed successfully",
		"access_token": access,
	})
}

// Profile returns the authenticated user's public fields.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized access")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kevalmehta17/EclipseStore/internal/auth"
	"github.com/kevalmehta17/EclipseStore/internal/domain"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
	"github.com/kevalmehta17/EclipseStore/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// userFromContext returns the authenticated user stored by Protect.
func userFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// Protect authenticates the request from the access token cookie, falling
// back to an Authorization bearer header, and loads the user so downstream
// handlers see the current role.
func (h *Handler) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := readCookie(r, accessTokenCookie)
		if token == "" {
			token = bearerToken(r)
		}
		if token == "" {
			writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
			return
		}

		claims, err := h.tokens.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, r, h.logger, apperrors.Unauthorized("access token expired"))
				return
			}
			writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
			return
		}

		user, err := h.authSvc.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, h.logger, apperrors.Unauthorized("unauthorized access"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = logger.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly rejects requests from non-admin users. It must run after
// Protect.
func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok || user.Role != domain.RoleAdmin {
			writeError(w, r, h.logger, apperrors.Forbidden("access denied, admin only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORS allows the configured browser origins to call the API with cookies.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Correlation-ID")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

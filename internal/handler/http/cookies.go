package http

import (
	"net/http"
	"time"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// cookieManager binds the session tokens to HttpOnly cookies. Cookies are
// marked Secure in production and never readable from scripts.
type cookieManager struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newCookieManager(secure bool, accessTTL, refreshTTL time.Duration) *cookieManager {
	return &cookieManager{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// setSession binds both tokens of a fresh session.
func (c *cookieManager) setSession(w http.ResponseWriter, pair *domain.TokenPair) {
	c.setAccess(w, pair.AccessToken)
	c.set(w, refreshTokenCookie, pair.RefreshToken, c.refreshTTL)
}

// setAccess rebinds only the access token, used on refresh.
func (c *cookieManager) setAccess(w http.ResponseWriter, token string) {
	c.set(w, accessTokenCookie, token, c.accessTTL)
}

// clear expires both cookies.
func (c *cookieManager) clear(w http.ResponseWriter) {
	c.expire(w, accessTokenCookie)
	c.expire(w, refreshTokenCookie)
}

func (c *cookieManager) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c *cookieManager) expire(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// readCookie returns the named cookie value, or "" when absent.
func readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

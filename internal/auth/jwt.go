// Package auth issues and validates the JWT pair used for sessions. Access
// and refresh tokens are signed with distinct secrets so one cannot be
// presented where the other is expected.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "eclipse-store"

var (
	// ErrTokenExpired is returned when a structurally valid token is past
	// its expiry claim.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens, bad signatures and
	// unexpected signing methods.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the custom claims embedded in both token kinds.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewManager builds a Manager. Both secrets are required.
func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if accessSecret == "" {
		return nil, fmt.Errorf("access token secret is required")
	}
	if refreshSecret == "" {
		return nil, fmt.Errorf("refresh token secret is required")
	}
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// RefreshTTL returns the lifetime of refresh tokens, which is also the TTL
// of the server-side session entry.
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// AccessTTL returns the lifetime of access tokens.
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// GenerateAccessToken mints a fresh access token for userID.
func (m *Manager) GenerateAccessToken(userID string) (string, error) {
	return m.sign(userID, m.accessSecret, m.accessTTL)
}

// GenerateRefreshToken mints a fresh refresh token for userID.
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(userID, m.refreshSecret, m.refreshTTL)
}

// IssueTokenPair mints a matching access and refresh token for userID.
func (m *Manager) IssueTokenPair(userID string) (access, refresh string, err error) {
	access, err = m.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("generating access token: %w", err)
	}
	refresh, err = m.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("generating refresh token: %w", err)
	}
	return access, refresh, nil
}

// ValidateAccessToken verifies signature and expiry of an access token and
// returns its claims.
func (m *Manager) ValidateAccessToken(token string) (*Claims, error) {
	return m.parse(token, m.accessSecret)
}

// ValidateRefreshToken verifies signature and expiry of a refresh token and
// returns its claims.
func (m *Manager) ValidateRefreshToken(token string) (*Claims, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *Manager) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

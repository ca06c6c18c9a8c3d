// Package redis contains the Redis-backed stores for sessions, carts and
// the featured product cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

const sessionKeyPrefix = "refresh_token:"

// SessionStore holds the single active refresh token per user. Each write
// replaces whatever token was stored before, so only the most recent login
// can refresh.
type SessionStore struct {
	client *goredis.Client
}

// NewSessionStore builds a SessionStore on top of client.
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put stores refreshToken for userID with the given ttl, overwriting any
// existing entry.
func (s *SessionStore) Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(userID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}
	return nil
}

// Get returns the stored refresh token for userID, or ErrNotFound when no
// session exists.
func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", apperrors.NotFound("session", userID)
		}
		return "", fmt.Errorf("loading refresh token: %w", err)
	}
	return token, nil
}

// Delete removes the session entry for userID. Deleting a missing entry is
// not an error.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("deleting refresh token: %w", err)
	}
	return nil
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// Package service implements the business logic on top of the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kevalmehta17/EclipseStore/internal/auth"
	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/internal/repository"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

const bcryptCost = 12

// AuthEvents receives the events the auth flows emit. Publishing is fire and
// forget.
type AuthEvents interface {
	UserRegistered(ctx context.Context, user *domain.User)
}

// AuthService coordinates accounts, token issuance and the session cache.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	tokens   *auth.Manager
	events   AuthEvents
	logger   *slog.Logger
}

// NewAuthService builds an AuthService.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionStore,
	tokens *auth.Manager,
	events AuthEvents,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, events: events, logger: logger}
}

// SignupInput are the fields required to create an account.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// Signup creates a new account, starts a session and returns the user with
// a fresh token pair.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, *domain.TokenPair, error) {
	user := &domain.User{
		Email: normalizeEmail(in.Email),
		Name:  strings.TrimSpace(in.Name),
		Role:  domain.RoleUser,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, apperrors.Internal(fmt.Errorf("hashing password: %w", err))
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.events.UserRegistered(ctx, user)
	s.logger.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Login verifies credentials and starts a session, replacing any previous
// session for the same user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.InvalidInput("invalid email or password")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.InvalidInput("invalid email or password")
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Logout removes the session cache entry for the user embedded in the
// refresh token. The entry is deleted without comparing it to the presented
// token, so any outstanding refresh token for the user stops working.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.InvalidInput("no refresh token provided")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return apperrors.Unauthorized("refresh token expired")
		}
		return apperrors.Internal(fmt.Errorf("validating refresh token: %w", err))
	}

	if err := s.sessions.Delete(ctx, claims.UserID); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", claims.UserID))
	return nil
}

// Refresh validates the presented refresh token against the session cache
// and mints a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.InvalidInput("no refresh token provided")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.Unauthorized("invalid or expired refresh token")
	}

	cached, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Unauthorized("invalid or expired refresh token")
		}
		return "", apperrors.Internal(err)
	}
	if cached != refreshToken {
		return "", apperrors.Unauthorized("invalid or expired refresh token")
	}

	access, err := s.tokens.GenerateAccessToken(claims.UserID)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return access, nil
}

// GetProfile loads the public profile of a user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// startSession issues a token pair and stores the refresh token in the
// session cache, replacing any previous entry for the user.
func (s *AuthService) startSession(ctx context.Context, userID string) (*domain.TokenPair, error) {
	access, refresh, err := s.tokens.IssueTokenPair(userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.sessions.Put(ctx, userID, refresh, s.tokens.RefreshTTL()); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

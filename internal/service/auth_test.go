package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevalmehta17/EclipseStore/internal/auth"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

type authFixture struct {
	svc      *AuthService
	users    *fakeUserRepo
	sessions *fakeSessionStore
	tokens   *auth.Manager
	events   *recordingEvents
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := auth.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	f := &authFixture{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionStore(),
		tokens:   tokens,
		events:   &recordingEvents{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewAuthService(f.users, f.sessions, f.tokens, f.events, logger)
	return f
}

func validSignup() SignupInput {
	return SignupInput{Email: "a@x.com", Password: "abcdef", Name: "A"}
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "abcdef", user.PasswordHash)

	cached, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, cached)

	claims, err := f.tokens.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	assert.Equal(t, []string{user.ID}, f.events.registered)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, _, err = f.svc.Signup(ctx, validSignup())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, 1, f.sessions.len())
}

func TestSignupNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validSignup()
	in.Email = "  A@X.Com "
	user, _, err := f.svc.Signup(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	_, _, err = f.svc.Login(ctx, "A@x.com", "abcdef")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	before, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Failed login leaves the session cache untouched.
	after, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Login(context.Background(), "nobody@x.com", "abcdef")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	access, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.tokens.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The refresh token itself is not rotated.
	cached, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, cached)
}

func TestRefreshWithoutToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRefreshAfterSecondLoginRevokesFirst(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, pairA, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, pairB, err := f.svc.Login(ctx, "a@x.com", "abcdef")
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pairA.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Refresh(ctx, pairB.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshAfterLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshExpiredTokenFailsRegardlessOfCache(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	expired, err := auth.NewManager("access-secret", "refresh-secret", 15*time.Minute, -time.Minute)
	require.NoError(t, err)
	token, err := expired.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	require.NoError(t, f.sessions.Put(ctx, "user-1", token, time.Hour))

	_, err = f.svc.Refresh(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogoutWithoutToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Logout(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLogoutExpiredToken(t *testing.T) {
	f := newAuthFixture(t)

	expired, err := auth.NewManager("access-secret", "refresh-secret", 15*time.Minute, -time.Minute)
	require.NoError(t, err)
	token, err := expired.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	err = f.svc.Logout(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogoutMalformedToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Logout(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestLogoutIsIdempotentOnCache(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
	// The token is still structurally valid, so a replayed logout succeeds
	// and the cache stays empty.
	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
	assert.Equal(t, 0, f.sessions.len())
}

func TestGetProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	got, err := f.svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = f.svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

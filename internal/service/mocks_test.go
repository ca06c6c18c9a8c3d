package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.AlreadyExists("user", "email", user.Email)
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("user", email)
}

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: map[string]string{}}
}

func (f *fakeSessionStore) Put(_ context.Context, userID, refreshToken string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = refreshToken
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[userID]
	if !ok {
		return "", apperrors.NotFound("session", userID)
	}
	return token, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, userID)
	return nil
}

func (f *fakeSessionStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

// recordingEvents counts emitted auth events.
type recordingEvents struct {
	mu         sync.Mutex
	registered []string
}

func (r *recordingEvents) UserRegistered(_ context.Context, user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, user.ID)
}

// mockProductRepo is a testify mock for ProductRepository.
type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListRandom(ctx context.Context, n int) ([]domain.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// mockFeaturedCache is a testify mock for FeaturedCache.
type mockFeaturedCache struct {
	mock.Mock
}

func (m *mockFeaturedCache) Get(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockFeaturedCache) Set(ctx context.Context, products []domain.Product) error {
	return m.Called(ctx, products).Error(0)
}

func (m *mockFeaturedCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// noopProductEvents discards catalog events.
type noopProductEvents struct{}

func (noopProductEvents) ProductCreated(context.Context, *domain.Product) {}
func (noopProductEvents) ProductDeleted(context.Context, string)         {}

// fakeCartStore is an in-memory CartStore.
type fakeCartStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*domain.Cart{}}
}

func (f *fakeCartStore) Get(_ context.Context, userID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	clone := *c
	clone.Items = append([]domain.CartItem{}, c.Items...)
	return &clone, nil
}

func (f *fakeCartStore) Save(_ context.Context, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *cart
	clone.Items = append([]domain.CartItem{}, cart.Items...)
	f.carts[cart.UserID] = &clone
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return nil
}

package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevalmehta17/EclipseStore/internal/auth"
	"github.com/kevalmehta17/EclipseStore/internal/domain"
	redisrepo "github.com/kevalmehta17/EclipseStore/internal/repository/redis"
	"github.com/kevalmehta17/EclipseStore/internal/service"
	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
	"github.com/kevalmehta17/EclipseStore/pkg/health"
)

// memUserRepo is an in-memory UserRepository for handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.AlreadyExists("user", "email", user.Email)
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	clone := *u
	return &clone, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("user", email)
}

// seed inserts a user directly, bypassing signup.
func (m *memUserRepo) seed(t *testing.T, email, password, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Email: email, PasswordHash: string(hash), Name: "Seeded", Role: role}
	require.NoError(t, m.Create(context.Background(), user))
	return user
}

// memProductRepo is an in-memory ProductRepository for handler tests.
type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	order    []string
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*domain.Product{}}
}

func (m *memProductRepo) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Slug == p.Slug {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	m.products[p.ID] = &clone
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	clone := *p
	return &clone, nil
}

func (m *memProductRepo) List(_ context.Context, limit, offset int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for i := offset; i < len(m.order) && len(out) < limit; i++ {
		out = append(out, *m.products[m.order[i]])
	}
	return out, nil
}

func (m *memProductRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

func (m *memProductRepo) ListFeatured(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, id := range m.order {
		if m.products[id].IsFeatured {
			out = append(out, *m.products[id])
		}
	}
	return out, nil
}

func (m *memProductRepo) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, id := range m.order {
		if m.products[id].Category == category {
			out = append(out, *m.products[id])
		}
	}
	return out, nil
}

func (m *memProductRepo) ListRandom(_ context.Context, n int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, id := range m.order {
		if len(out) == n {
			break
		}
		out = append(out, *m.products[id])
	}
	return out, nil
}

func (m *memProductRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepo) Update(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return apperrors.NotFound("product", p.ID)
	}
	clone := *p
	m.products[p.ID] = &clone
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(m.products, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type noopAuthEvents struct{}

func (noopAuthEvents) UserRegistered(context.Context, *domain.User) {}

type noopProductEvents struct{}

func (noopProductEvents) ProductCreated(context.Context, *domain.Product) {}
func (noopProductEvents) ProductDeleted(context.Context, string)         {}

type testServer struct {
	handler  http.Handler
	users    *memUserRepo
	products *memProductRepo
	tokens   *auth.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens, err := auth.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := newMemUserRepo()
	products := newMemProductRepo()
	carts := redisrepo.NewCartStore(client, time.Hour)
	featured := redisrepo.NewFeaturedCache(client, 0)

	authSvc := service.NewAuthService(users, redisrepo.NewSessionStore(client), tokens, noopAuthEvents{}, logger)
	productSvc := service.NewProductService(products, featured, noopProductEvents{}, logger)
	cartSvc := service.NewCartService(carts, products, logger)

	h := NewHandler(Options{
		AuthService:    authSvc,
		ProductService: productSvc,
		CartService:    cartSvc,
		Tokens:         tokens,
		SecureCookies:  false,
		Logger:         logger,
	})

	handler := h.Routes(RouterOptions{
		ServiceName:    "eclipse-store-test",
		AllowedOrigins: []string{"http://localhost:3000"},
		Health:         health.NewHandler(),
		Logger:         logger,
	})

	return &testServer{
		handler:  handler,
		users:    users,
		products: products,
		tokens:   tokens,
	}
}

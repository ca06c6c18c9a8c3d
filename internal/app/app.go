// Package app wires the service together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kevalmehta17/EclipseStore/internal/auth"
	"github.com/kevalmehta17/EclipseStore/internal/config"
	"github.com/kevalmehta17/EclipseStore/internal/event"
	httphandler "github.com/kevalmehta17/EclipseStore/internal/handler/http"
	"github.com/kevalmehta17/EclipseStore/internal/repository/postgres"
	redisrepo "github.com/kevalmehta17/EclipseStore/internal/repository/redis"
	"github.com/kevalmehta17/EclipseStore/internal/service"
	"github.com/kevalmehta17/EclipseStore/migrations"
	"github.com/kevalmehta17/EclipseStore/pkg/database"
	"github.com/kevalmehta17/EclipseStore/pkg/health"
	"github.com/kevalmehta17/EclipseStore/pkg/kafka"
	"github.com/kevalmehta17/EclipseStore/pkg/tracing"
)

const serviceName = "eclipse-store"

// App owns every long-lived resource of the service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	redis    *goredis.Client
	producer *kafka.Producer
	server   *http.Server

	shutdownTracer func(context.Context) error
}

// New builds the full dependency graph: stores, services, handlers and the
// HTTP server. It runs migrations before returning.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(serviceName))
	if err != nil {
		return nil, fmt.Errorf("initializing tracer: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)

	tokens, err := auth.NewManager(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	if err != nil {
		pool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("configuring token manager: %w", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	sessionStore := redisrepo.NewSessionStore(redisClient)
	cartStore := redisrepo.NewCartStore(redisClient, cfg.CartTTL)
	featuredCache := redisrepo.NewFeaturedCache(redisClient, 0)

	events := event.NewPublisher(producer, logger)

	authSvc := service.NewAuthService(userRepo, sessionStore, tokens, events, logger)
	productSvc := service.NewProductService(productRepo, featuredCache, events, logger)
	cartSvc := service.NewCartService(cartStore, productRepo, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	handler := httphandler.NewHandler(httphandler.Options{
		AuthService:    authSvc,
		ProductService: productSvc,
		CartService:    cartSvc,
		Tokens:         tokens,
		SecureCookies:  cfg.IsProduction(),
		Logger:         logger,
	})

	router := handler.Routes(httphandler.RouterOptions{
		ServiceName:    serviceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Health:         healthHandler,
		Logger:         logger,
	})

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		server:         httphandler.Server(fmt.Sprintf(":%d", cfg.HTTPPort), router),
		shutdownTracer: shutdownTracer,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	return a.Shutdown()
}

// Shutdown stops the server and closes every resource, newest first.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.producer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("kafka close: %w", err))
	}
	if err := a.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis close: %w", err))
	}
	a.pool.Close()
	if err := a.shutdownTracer(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}
	return errors.Join(errs...)
}

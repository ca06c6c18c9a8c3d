// Command seed populates the store with a sample catalog and an admin
// account for local development.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kevalmehta17/EclipseStore/internal/config"
	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/internal/repository/postgres"
	"github.com/kevalmehta17/EclipseStore/migrations"
	"github.com/kevalmehta17/EclipseStore/pkg/database"
	"github.com/kevalmehta17/EclipseStore/pkg/logger"
	"github.com/kevalmehta17/EclipseStore/pkg/slug"
)

var sampleProducts = []domain.Product{
	{Name: "Aurora Runner", Description: "Lightweight everyday running shoe", Price: 8999, Category: "shoes", ImageURL: "https://cdn.eclipse.store/products/aurora-runner.jpg", IsFeatured: true},
	{Name: "Trailblazer Boot", Description: "Waterproof hiking boot", Price: 14999, Category: "shoes", ImageURL: "https://cdn.eclipse.store/products/trailblazer-boot.jpg"},
	{Name: "Eclipse Hoodie", Description: "Heavyweight fleece hoodie", Price: 6499, Category: "apparel", ImageURL: "https://cdn.eclipse.store/products/eclipse-hoodie.jpg", IsFeatured: true},
	{Name: "Meridian Tee", Description: "Organic cotton t-shirt", Price: 2499, Category: "apparel", ImageURL: "https://cdn.eclipse.store/products/meridian-tee.jpg"},
	{Name: "Nomad Backpack", Description: "28L commuter backpack", Price: 10999, Category: "accessories", ImageURL: "https://cdn.eclipse.store/products/nomad-backpack.jpg", IsFeatured: true},
	{Name: "Orbit Cap", Description: "Six-panel twill cap", Price: 1999, Category: "accessories", ImageURL: "https://cdn.eclipse.store/products/orbit-cap.jpg"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.New("eclipse-store-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	users := postgres.NewUserRepository(pool)
	hash, err := bcrypt.GenerateFromPassword([]byte(envOr("SEED_ADMIN_PASSWORD", "admin123")), 12)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	admin := &domain.User{
		Email:        envOr("SEED_ADMIN_EMAIL", "admin@eclipse.store"),
		PasswordHash: string(hash),
		Name:         "Store Admin",
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		// Re-running the seed against an existing database is fine.
		log.Warn("admin account not created", "error", err.Error())
	} else {
		log.Info("admin account created", "email", admin.Email)
	}

	products := postgres.NewProductRepository(pool)
	created := 0
	for i := range sampleProducts {
		p := sampleProducts[i]
		p.Slug = slug.Generate(p.Name)
		if err := products.Create(ctx, &p); err != nil {
			log.Warn("product not created", "name", p.Name, "error", err.Error())
			continue
		}
		created++
	}
	log.Info("seed complete", "products_created", created)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

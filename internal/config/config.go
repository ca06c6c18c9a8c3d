package config

import (
	"fmt"
	"time"

	"github.com/kevalmehta17/EclipseStore/pkg/config"
	"github.com/kevalmehta17/EclipseStore/pkg/database"
	"github.com/kevalmehta17/EclipseStore/pkg/tracing"
)

// Config holds every runtime setting, populated from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"eclipse_store"`
	PostgresSSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`

	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET" envDefault:"dev-access-secret"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET" envDefault:"dev-refresh-secret"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	CartTTL time.Duration `env:"CART_TTL" envDefault:"720h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	OTELEnabled  bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampling float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces settings that must not ship with dev defaults.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.AccessTokenSecret == "" || c.AccessTokenSecret == "dev-access-secret" {
			return fmt.Errorf("ACCESS_TOKEN_SECRET must be set in production")
		}
		if c.RefreshTokenSecret == "" || c.RefreshTokenSecret == "dev-refresh-secret" {
			return fmt.Errorf("REFRESH_TOKEN_SECRET must be set in production")
		}
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("access and refresh token secrets must differ")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Postgres returns the connection settings for the primary database.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSLMode,
	}
}

// Redis returns the connection settings for the session and cart store.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing returns the OpenTelemetry exporter settings.
func (c *Config) Tracing(serviceName string) tracing.Config {
	return tracing.Config{
		Enabled:      c.OTELEnabled,
		OTLPEndpoint: c.OTELEndpoint,
		ServiceName:  serviceName,
		Environment:  c.Environment,
		SampleRate:   c.OTELSampling,
	}
}

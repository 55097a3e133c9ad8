package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/sundayezeilo/shortlinks/internal/idgen"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Store         StoreConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	Link          LinkConfig
	App           AppConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" required:"true"`
	FallbackURL     string        `envconfig:"SERVER_FALLBACK_URL" default:"/"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.FallbackURL == "" {
		return fmt.Errorf("fallback URL cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// StoreConfig selects the backing store for links and audit entries.
type StoreConfig struct {
	Driver     string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/shortlinks.db"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMemory:
		return nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite path cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("invalid store driver: %s (must be one of: postgres, sqlite, memory)", c.Driver)
	}
}

// DatabaseConfig holds PostgreSQL connection configuration. It is only
// loaded and checked when the postgres driver is selected.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     string `envconfig:"DB_PORT" required:"true"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" required:"true"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" required:"true"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" required:"true"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	switch c.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// CacheConfig configures the optional Redis link cache.
type CacheConfig struct {
	Enabled   bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"shortlinks"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("redis address is required when the cache is enabled")
	}
	if c.DB < 0 {
		return fmt.Errorf("redis db must not be negative")
	}
	return nil
}

// LinkConfig tunes slug generation and the activity view.
type LinkConfig struct {
	SlugLength     int    `envconfig:"LINK_SLUG_LENGTH" default:"6"`
	SlugMaxRetries int    `envconfig:"LINK_SLUG_MAX_RETRIES" default:"3"`
	LogLimit       int    `envconfig:"LINK_LOG_LIMIT" default:"10"`
	IDVersion      string `envconfig:"LINK_ID_VERSION" default:"v7"` // v4 or v7
}

// Validate validates the link configuration.
func (c *LinkConfig) Validate() error {
	if c.SlugLength < 6 || c.SlugLength > 64 {
		return fmt.Errorf("slug length must be between 6 and 64, got %d", c.SlugLength)
	}
	if c.SlugMaxRetries <= 0 {
		return fmt.Errorf("slug max retries must be positive")
	}
	if c.LogLimit <= 0 {
		return fmt.Errorf("log limit must be positive")
	}
	if _, err := idgen.ParseVersion(c.IDVersion); err != nil {
		return err
	}
	return nil
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	switch c.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// ObservabilityConfig holds configuration for tracing.
type ObservabilityConfig struct {
	Enabled           bool    `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName       string  `envconfig:"OTEL_SERVICE_NAME" default:"shortlinks"`
	ServiceVersion    string  `envconfig:"OTEL_SERVICE_VERSION" default:"dev"`
	OTelEndpoint      string  `envconfig:"OTEL_ENDPOINT"`
	OTelInsecure      bool    `envconfig:"OTEL_INSECURE"`
	TracingSampleRate float64 `envconfig:"OTEL_TRACING_SAMPLE_RATE" default:"1"`
}

// Validate validates the observability configuration.
func (c *ObservabilityConfig) Validate() error {
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be between 0 and 1, got %f", c.TracingSampleRate)
	}

	// Only require these when observability is enabled.
	if c.Enabled {
		if c.ServiceName == "" {
			return fmt.Errorf("service name is required when observability is enabled")
		}
		if c.OTelEndpoint == "" {
			return fmt.Errorf("OTEL endpoint is required when observability is enabled")
		}
		if c.ServiceVersion == "" {
			return fmt.Errorf("service version is required when observability is enabled")
		}
	}
	return nil
}

type section struct {
	name     string
	target   any
	validate func() error
}

// Load loads configuration from environment variables only.
// (.env loading happens in internal/app for development and test.)
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []section{
		{"Server", &cfg.Server, cfg.Server.Validate},
		{"Store", &cfg.Store, cfg.Store.Validate},
		{"Cache", &cfg.Cache, cfg.Cache.Validate},
		{"Link", &cfg.Link, cfg.Link.Validate},
		{"App", &cfg.App, cfg.App.Validate},
		{"Observability", &cfg.Observability, cfg.Observability.Validate},
	}
	for _, s := range sections {
		if err := load(s); err != nil {
			return nil, err
		}
	}

	if cfg.Store.Driver == DriverPostgres {
		if err := load(section{"Database", &cfg.Database, cfg.Database.Validate}); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func load(s section) error {
	if err := envconfig.Process("", s.target); err != nil {
		return fmt.Errorf("failed to load %s config: %w", s.name, err)
	}
	if err := s.validate(); err != nil {
		return fmt.Errorf("invalid %s config: %w", s.name, err)
	}
	return nil
}

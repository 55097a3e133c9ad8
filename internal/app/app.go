package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/shortlinks/internal/config"
	"github.com/sundayezeilo/shortlinks/internal/database"
	"github.com/sundayezeilo/shortlinks/internal/db/migrations"
	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
	"github.com/sundayezeilo/shortlinks/internal/linkcache"
	"github.com/sundayezeilo/shortlinks/internal/server"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
	"github.com/sundayezeilo/shortlinks/internal/shortener/httpapi"
	"github.com/sundayezeilo/shortlinks/internal/telemetry"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service shortener.Service
	Server  *server.Server

	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func(context.Context) error
}

type options struct {
	logOutput io.Writer
	envFile   string
}

// Option customizes New.
type Option func(*options)

// WithLogOutput sends structured logs to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.logOutput = w
		}
	}
}

// WithEnvFile overrides the .env file read in development and test.
func WithEnvFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.envFile = path
		}
	}
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stdout, envFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}

	loadEnv(o.envFile)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel, o.logOutput)
	return NewWithConfig(ctx, cfg, logger)
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	if err := a.wire(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg, logger := a.Config, a.Logger

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.Observability.ServiceVersion,
		"store", cfg.Store.Driver,
	)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Observability, cfg.App.Environment, logger)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	a.onClose("tracing", shutdownTracing)

	st, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	links := st.links
	if cfg.Cache.Enabled {
		links = a.wrapCache(ctx, links)
	}

	idVersion := idgen.V7
	if cfg.Link.IDVersion != "" {
		if idVersion, err = idgen.ParseVersion(cfg.Link.IDVersion); err != nil {
			return err
		}
	}

	a.Service = shortener.NewService(links, st.audit, &shortener.ServiceConfig{
		IDGenerator:    idgen.New(idVersion, 1),
		SlugLength:     cfg.Link.SlugLength,
		SlugMaxRetries: cfg.Link.SlugMaxRetries,
		LogLimit:       cfg.Link.LogLimit,
		BaseURL:        cfg.Server.BaseURL,
	})

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Service:     a.Service,
		Logger:      logger,
		FallbackURL: cfg.Server.FallbackURL,
	})
	a.Server = server.New(cfg, logger, handler, st.ping)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)
	return nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown releases resources in reverse order of acquisition.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("shutting down application")

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
			continue
		}
		a.Logger.Info("closed", "resource", c.name)
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

type store struct {
	links shortener.LinkRepository
	audit shortener.AuditRepository
	ping  server.HealthFunc
}

func (a *App) openStore(ctx context.Context) (store, error) {
	switch a.Config.Store.Driver {
	case config.DriverPostgres:
		pool, err := connectDatabase(ctx, a.Config, a.Logger)
		if err != nil {
			return store{}, err
		}
		a.onClose("postgres", func(context.Context) error { pool.Close(); return nil })

		if err := migrations.Apply(ctx, pool); err != nil {
			return store{}, err
		}
		repo := shortener.NewPostgresRepository(db.New(pool))
		return store{links: repo, audit: repo, ping: pool.Ping}, nil

	case config.DriverSQLite:
		a.Logger.Info("opening sqlite database", "path", a.Config.Store.SQLitePath)
		sqlDB, err := database.Open(a.Config.Store.SQLitePath)
		if err != nil {
			return store{}, err
		}
		a.onClose("sqlite", func(context.Context) error { return sqlDB.Close() })

		repo, err := shortener.NewSQLiteRepository(sqlDB)
		if err != nil {
			return store{}, err
		}
		return store{links: repo, audit: repo, ping: sqlDB.PingContext}, nil

	case config.DriverMemory:
		a.Logger.Warn("using in-memory store; links are lost on exit")
		return store{
			links: shortener.NewMemoryLinkRepository(),
			audit: shortener.NewMemoryAuditRepository(),
		}, nil

	default:
		return store{}, fmt.Errorf("unknown store driver %q", a.Config.Store.Driver)
	}
}

// wrapCache puts the Redis cache in front of links. An unreachable Redis is
// logged and tolerated; the cache falls through to the store on every error.
func (a *App) wrapCache(ctx context.Context, links shortener.LinkRepository) shortener.LinkRepository {
	client := goredis.NewClient(&goredis.Options{
		Addr:     a.Config.Cache.Addr,
		Password: a.Config.Cache.Password,
		DB:       a.Config.Cache.DB,
	})
	a.onClose("redis", func(context.Context) error { return client.Close() })

	if err := linkcache.Ping(ctx, client); err != nil {
		a.Logger.Warn("redis unavailable, continuing without a warm cache",
			"addr", a.Config.Cache.Addr,
			"error", err.Error(),
		)
	} else {
		a.Logger.Info("redis link cache enabled", "addr", a.Config.Cache.Addr)
	}

	return linkcache.New(links, client,
		linkcache.WithPrefix(a.Config.Cache.KeyPrefix),
		linkcache.WithLogger(a.Logger),
	)
}

// loadEnv loads a .env file only in non-production environments.
func loadEnv(path string) {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("no .env file found at %s", path)
		}
	}
}

// setupLogger creates a JSON logger at the given level.
func setupLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return pool, nil
}

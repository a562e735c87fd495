package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	approvals "github.com/goliatone/go-approvals"
	"github.com/goliatone/go-approvals/core"
	"github.com/goliatone/go-approvals/forward"
	approvalmigrations "github.com/goliatone/go-approvals/migrations"
	"github.com/goliatone/go-approvals/rest"
	sqlstore "github.com/goliatone/go-approvals/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func main() {
	logger := newSlogLogger()

	if err := run(logger); err != nil {
		logger.Fatal("relay server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(logger *slogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := configFromEnv()

	store, closeStore, err := buildResultStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	forwarder := forward.NewForwarder(cfg.Webhook.URL)
	forwarder.Timeout = cfg.Webhook.Timeout
	forwarder.Logger = logger

	options := []approvals.Option{
		approvals.WithLogger(logger),
		approvals.WithForwarder(forwarder),
	}
	if store != nil {
		options = append(options, approvals.WithResultStore(store))
	}

	service, err := approvals.NewService(cfg, options...)
	if err != nil {
		return fmt.Errorf("build relay service: %w", err)
	}

	server := rest.NewServer(service, rest.WithLogger(logger))
	logger.Info("relay server listening",
		"addr", cfg.ListenAddr,
		"webhook_configured", strings.TrimSpace(cfg.Webhook.URL) != "",
	)
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

func configFromEnv() approvals.Config {
	cfg := approvals.DefaultConfig()

	if name := strings.TrimSpace(os.Getenv("SERVICE_NAME")); name != "" {
		cfg.ServiceName = name
	}
	if addr := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); addr != "" {
		cfg.ListenAddr = addr
	} else if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if url := strings.TrimSpace(os.Getenv("WEBHOOK_URL")); url != "" {
		cfg.Webhook.URL = url
	}
	if raw := strings.TrimSpace(os.Getenv("WEBHOOK_TIMEOUT")); raw != "" {
		if timeout, err := time.ParseDuration(raw); err == nil && timeout > 0 {
			cfg.Webhook.Timeout = timeout
		}
	}
	if network := strings.TrimSpace(os.Getenv("DEFAULT_NETWORK")); network != "" {
		cfg.Ingest.DefaultNetwork = network
	}
	if raw := strings.TrimSpace(os.Getenv("REQUIRE_TRANSACTION_ID")); raw != "" {
		if strict, err := strconv.ParseBool(raw); err == nil {
			cfg.Ingest.RequireTransactionID = strict
		}
	}
	return cfg
}

// buildResultStore selects the backing store from STORE_DRIVER:
// memory (default), sqlite, or postgres. SQL-backed stores run the
// embedded migrations and sit behind a read-through cache.
func buildResultStore(ctx context.Context, cfg approvals.Config) (core.ResultStore, func(), error) {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	dsn := strings.TrimSpace(os.Getenv("STORE_DSN"))

	switch driver {
	case "", "memory":
		return nil, nil, nil
	case "sqlite", "sqlite3":
		if dsn == "" {
			dsn = "file:approvals.db?cache=shared&_foreign_keys=on"
		}
		return openSQLStore(ctx, "sqlite3", dsn, approvalmigrations.DialectSQLite)
	case "postgres":
		if dsn == "" {
			return nil, nil, fmt.Errorf("STORE_DSN is required for the postgres store")
		}
		return openSQLStore(ctx, "postgres", dsn, approvalmigrations.DialectPostgres)
	default:
		return nil, nil, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}
}

func openSQLStore(ctx context.Context, driver string, dsn string, dialect string) (core.ResultStore, func(), error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	cfg := persistenceConfig{driver: driver, server: dsn}
	var client *persistence.Client
	switch dialect {
	case approvalmigrations.DialectSQLite:
		sqlDB.SetMaxOpenConns(1)
		client, err = persistence.New(cfg, sqlDB, sqlitedialect.New())
	default:
		client, err = persistence.New(cfg, sqlDB, pgdialect.New())
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("build persistence client: %w", err)
	}
	closeFn := func() {
		_ = client.Close()
	}

	_, err = approvalmigrations.Register(ctx, func(_ context.Context, d string, _ string, fsys fs.FS) error {
		if d != dialect {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, approvalmigrations.WithValidationTargets(dialect))
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("register migrations: %w", err)
	}
	if err := client.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}

	cacheConfig := repositorycache.DefaultConfig()
	cacheService, err := repositorycache.NewCacheService(cacheConfig)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("build result cache: %w", err)
	}
	store, err := sqlstore.NewCachedResultStoreFromPersistence(client, cacheService)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

type persistenceConfig struct {
	driver string
	server string
}

func (c persistenceConfig) GetDebug() bool {
	return false
}

func (c persistenceConfig) GetDriver() string {
	return c.driver
}

func (c persistenceConfig) GetServer() string {
	return c.server
}

func (c persistenceConfig) GetPingTimeout() time.Duration {
	return 5 * time.Second
}

func (c persistenceConfig) GetOtelIdentifier() string {
	return "go-approvals"
}

// slogLogger bridges the process-wide slog handler onto the logger
// contract the relay packages expect.
type slogLogger struct {
	base *slog.Logger
}

func newSlogLogger() *slogLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &slogLogger{base: slog.New(handler)}
}

func (l *slogLogger) Trace(msg string, args ...any) {
	l.base.Debug(msg, args...)
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.base.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.base.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.base.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.base.Error(msg, args...)
}

func (l *slogLogger) Fatal(msg string, args ...any) {
	l.base.Error(msg, args...)
}

func (l *slogLogger) WithContext(context.Context) core.Logger {
	return l
}

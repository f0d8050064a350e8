package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/information-sharing-networks/newsposts/internal/config"
	"github.com/information-sharing-networks/newsposts/sql/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Connect creates the connection pool and checks the database is reachable.
// The pool is closed again if the ping fails.
func Connect(ctx context.Context, cfg *config.ServerEnvironment) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConnections
	poolConfig.MinConns = cfg.DBMinConnections
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DatabasePingTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database via pool: %w", err)
	}

	return pool, nil
}

// NewMigrationProvider returns a goose provider for the embedded migrations in sql/schema.
func NewMigrationProvider(pool *pgxpool.Pool) (*goose.Provider, func() error, error) {
	db := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, schema.FS)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, db.Close, nil
}

// Migrate applies all pending migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	provider, closeDB, err := NewMigrationProvider(pool)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, res := range results {
		logger.Info("applied migration",
			slog.String("source", res.Source.Path),
			slog.Int64("version", res.Source.Version),
			slog.Duration("duration", res.Duration),
		)
	}

	return nil
}

// Initialize connects to the database and, when enabled, applies pending migrations.
// The server must not accept traffic until Initialize has returned successfully.
// Only the connect and ping are bounded by DatabasePingTimeout; migrations run under ctx.
func Initialize(ctx context.Context, cfg *config.ServerEnvironment, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("connected to PostgreSQL")

	if cfg.RunMigrations {
		if err := Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return pool, nil
}

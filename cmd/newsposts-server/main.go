package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/newsposts/internal/cache"
	"github.com/information-sharing-networks/newsposts/internal/config"
	"github.com/information-sharing-networks/newsposts/internal/database"
	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/server"
	"github.com/information-sharing-networks/newsposts/internal/version"
)

//	@title			newsposts-server
//	@description	newsposts-server stores news posts in PostgreSQL, exposes them over a JSON REST API and serves the client application.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	## Request Limits
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 100KB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@description
//	@description	## Cross-origin requests
//	@description	Only the origin named by REDIRECT_URL may call the API from a browser.
//	@license.name	MIT

//	@accept		json
//	@produce	json

//	@tag.name			NewsPosts
//	@tag.description	Create, read, update and delete news posts

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version, error trigger)

// redisConnectTimeout bounds the start-up check of the post cache
const redisConnectTimeout = 5 * time.Second

func main() {
	cmd := &cobra.Command{
		Use:   "newsposts-server",
		Short: "News posts REST API server",
		Long:  `newsposts-server serves the news posts REST API and the pre-built client application`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	cmd.AddCommand(newMigrateCommand())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads an optional .env file and then the environment
func loadConfig() (*config.ServerEnvironment, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return config.NewServerConfig()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		return err
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("REDIRECT_URL", cfg.RedirectURL),
		slog.String("CLIENT_DIST", cfg.ClientDist),
		slog.Bool("RUN_MIGRATIONS", cfg.RunMigrations),
		slog.Bool("CACHE_ENABLED", cfg.RedisURL != ""),
		slog.Int("RATE_LIMIT_RPS", int(cfg.RateLimitRPS)),
		slog.Int64("MAX_REQUEST_SIZE", cfg.MaxRequestSize),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// no port is bound until the database is reachable and migrated.
	// Connect bounds its own ping with DATABASE_PING_TIMEOUT; migrations are not time boxed.
	pool, err := database.Initialize(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize database", slog.String("error", err.Error()))
		return err
	}

	queries := database.New(pool)

	var postCache cache.PostCache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCtx, redisCancel := context.WithTimeout(ctx, redisConnectTimeout)
		rdb, err := cache.Connect(redisCtx, cfg.RedisURL)
		redisCancel()
		if err != nil {
			appLogger.Warn("post cache disabled", slog.String("error", err.Error()))
		} else {
			defer func() { _ = rdb.Close() }()
			postCache = cache.NewRedis(rdb, cfg.CacheTTL, cache.WithTombstoneTTL(server.RequestTimeout))
			appLogger.Info("connected to Redis")
		}
	}

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	srv := server.NewServer(pool, queries, postCache, cfg, appLogger)
	defer srv.DatabaseShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

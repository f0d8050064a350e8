//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// The integration tests start the newsposts-server HTTP server with a temporary database and run tests against it.
// Each test creates an empty temporary database and applies the embedded migrations so the schema reflects the latest code.
// The database is dropped after each test.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//
// Set TEST_REDIS_URL to run the tests with the Redis post cache enabled.

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/information-sharing-networks/newsposts/internal/cache"
	"github.com/information-sharing-networks/newsposts/internal/config"
	"github.com/information-sharing-networks/newsposts/internal/database"
	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/server"
)

const clientOrigin = "http://localhost:5173"

// testEnv provides access to test db and server for integration tests
type testEnv struct {
	baseURL   string
	clientDir string
	cfg       *config.ServerEnvironment
	pool      *pgxpool.Pool
	queries   *database.Queries
	shutdown  func()
}

// startInProcessServer starts the newsposts-server in-process for testing
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	testEnv := &testEnv{}
	ctx := context.Background()

	t.Log("Starting in-process server...")

	logLevel := logger.LevelNone
	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevel = logger.ParseLogLevel("debug")
	}
	appLogger := logger.InitLogger(logLevel, "test")

	testEnv.pool = setupTestDatabase(t, appLogger)
	testEnv.queries = database.New(testEnv.pool)

	testEnv.clientDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(testEnv.clientDir, "index.html"), []byte("<!doctype html><title>news</title>"), 0o600); err != nil {
		t.Fatalf("failed to write client index: %v", err)
	}

	port := findFreePort(t)

	// Set environment variables before calling NewServerConfig
	testEnvVars := map[string]string{
		"HOST":           "localhost",
		"PORT":           fmt.Sprintf("%d", port),
		"ENVIRONMENT":    "test",
		"LOG_LEVEL":      "none",
		"RATE_LIMIT_RPS": "0",
		"DATABASE_URL":   testEnv.pool.Config().ConnString(),
		"RUN_MIGRATIONS": "false",
		"REDIRECT_URL":   clientOrigin,
		"CLIENT_DIST":    testEnv.clientDir,
		"REDIS_URL":      os.Getenv("TEST_REDIS_URL"),
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	testEnv.cfg = cfg

	var postCache cache.PostCache = cache.Noop{}
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			t.Fatalf("Failed to connect to Redis: %v", err)
		}
		t.Cleanup(func() { _ = rdb.Close() })
		// a per test prefix keeps parallel runs apart
		postCache = cache.NewRedis(rdb, cfg.CacheTTL, cache.WithPrefix(fmt.Sprintf("newsposts-test-%d:post", port)))
	}

	serverInstance := server.NewServer(testEnv.pool, testEnv.queries, postCache, cfg, appLogger)

	serverCtx, serverCancel := context.WithCancel(ctx)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	testEnv.shutdown = func() {
		t.Log("Stopping server...")

		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("Server shutdown with error: %v", err)
			} else {
				t.Log("Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("Server shutdown timeout")
		}

		serverInstance.DatabaseShutdown()
	}

	testEnv.baseURL = fmt.Sprintf("http://localhost:%d", port)
	t.Logf("Starting in-process server at %s", testEnv.baseURL)

	if !waitForServer(t, testEnv.baseURL+"/health/live", 30*time.Second) {
		t.Fatal("Server failed to start within timeout")
	}

	t.Log("Server started")
	return testEnv
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// Test database configuration

type databaseConfig struct {
	userAndPassword string
	dbname          string
	host            string
	port            int
}

func (d *databaseConfig) connectionURL() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=disable",
		d.userAndPassword, d.host, d.port, d.dbname)
}

func (d *databaseConfig) WithDatabase(dbname string) *databaseConfig {
	return &databaseConfig{
		userAndPassword: d.userAndPassword,
		host:            d.host,
		port:            d.port,
		dbname:          dbname,
	}
}

func localDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "newsposts-dev",
		dbname:          "tmp_newsposts_integration_test",
		host:            "localhost",
		port:            15433,
	}
}

func ciDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "postgres:postgres",
		dbname:          "tmp_newsposts_integration_test",
		host:            "localhost",
		port:            5432,
	}
}

// setupTestDatabase creates an empty test db, applies migrations and returns a connection pool
// the function auto-detects if it is running in CI (github actions) and uses the appropriate database config
func setupTestDatabase(t *testing.T, appLogger *slog.Logger) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	config := *localDatabaseConfig()
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		config = *ciDatabaseConfig()
	}

	postgresConnectionURL := config.WithDatabase("postgres").connectionURL()

	// this pool stays open until the test database has been dropped
	postgresPool, err := pgxpool.New(ctx, postgresConnectionURL)
	if err != nil {
		t.Fatalf("Unable to create postgres connection pool: %v", err)
	}
	t.Cleanup(postgresPool.Close)

	if err := postgresPool.Ping(ctx); err != nil {
		t.Fatalf("Can't ping PostgreSQL server %s", postgresConnectionURL)
	}

	if _, err := postgresPool.Exec(ctx, "DROP DATABASE IF EXISTS "+config.dbname); err != nil {
		t.Fatalf("DROP DATABASE IF EXISTS Failed : %v", err)
	}
	if _, err := postgresPool.Exec(ctx, "CREATE DATABASE "+config.dbname); err != nil {
		t.Fatalf("CREATE DATABASE Failed : %v", err)
	}

	// drop the test database when the test is complete (cleanups run last in, first out)
	t.Cleanup(func() {
		if _, err := postgresPool.Exec(ctx, "DROP DATABASE "+config.dbname+" WITH (FORCE)"); err != nil {
			t.Errorf("Failed to drop test database: %v", err)
		}
	})

	testDatabasePool := setupDatabaseConn(t, config.connectionURL())

	if err := database.Migrate(ctx, testDatabasePool, appLogger); err != nil {
		t.Fatalf("Failed to apply database migrations: %v", err)
	}

	appLogger.Info("test database ready", slog.String("database", config.dbname))

	return testDatabasePool
}

func setupDatabaseConn(t *testing.T, databaseURL string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("Unable to create connection pool: %v", err)
	}

	t.Cleanup(pool.Close)

	return pool
}

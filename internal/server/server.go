package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/information-sharing-networks/newsposts/internal/cache"
	"github.com/information-sharing-networks/newsposts/internal/config"
	"github.com/information-sharing-networks/newsposts/internal/database"
	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/newsposts"
	newspostshandlers "github.com/information-sharing-networks/newsposts/internal/newsposts/handlers"
	"github.com/information-sharing-networks/newsposts/internal/server/handlers"
	"github.com/information-sharing-networks/newsposts/internal/server/middleware"
	"github.com/information-sharing-networks/newsposts/internal/version"
)

// RequestTimeout bounds the time a handler may spend on a single request
const RequestTimeout = 60 * time.Second

type Server struct {
	pool      *pgxpool.Pool
	queries   database.Querier
	postCache cache.PostCache
	config    *config.ServerEnvironment
	logger    *slog.Logger
	router    *chi.Mux
}

// NewServer builds the router. pool may be nil in tests, in which case DatabaseShutdown does nothing.
func NewServer(
	pool *pgxpool.Pool,
	queries database.Querier,
	postCache cache.PostCache,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) *Server {
	if postCache == nil {
		postCache = cache.Noop{}
	}

	server := &Server{
		pool:      pool,
		queries:   queries,
		postCache: postCache,
		config:    cfg,
		logger:    logger,
		router:    chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestSize))
	s.router.Use(staticFiles(s.config.ClientDist))
	s.router.Use(middleware.CORS(s.config.RedirectURL))
	s.router.Use(chimiddleware.Timeout(RequestTimeout))
}

func (s *Server) registerRoutes() {
	databaseCheck := handlers.Check{
		Name:     "database",
		Required: true,
		Probe: func(ctx context.Context) error {
			_, err := s.queries.IsDatabaseRunning(ctx)
			return err
		},
	}
	// the cache is best effort so it never makes the service unready
	cacheCheck := handlers.Check{Name: "cache", Probe: s.postCache.Ping}

	s.router.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.HandleHealth)
		r.Get("/ready", handlers.HandleReadiness(databaseCheck, cacheCheck))
	})
	s.router.Get("/version", handlers.HandleVersion(version.Get()))
	s.router.Get("/swagger/doc.json", handlers.HandleOpenAPIDoc)

	newsPostHandler := newspostshandlers.NewNewsPostHandler(
		s.queries,
		s.postCache,
		s.config.DefaultPageSize,
		s.config.MaxPageSize,
	)
	s.router.Mount("/api/newsposts", newsPostHandler.Routes())

	// every method fails on /error and anything below it
	s.router.HandleFunc("/error", newsposts.Handle(newspostshandlers.HandleTriggerError))
	s.router.HandleFunc("/error/*", newsposts.Handle(newspostshandlers.HandleTriggerError))

	s.router.NotFound(spaFallback(s.config.ClientDist))
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		newsposts.RespondWithErrorResponse(w, r,
			newsposts.NewMethodNotAllowedError(fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path)))
	})
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the configured address and serves until ctx is cancelled,
// then shuts down gracefully within ServerShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	serverAddr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info(fmt.Sprintf("Server is running on http://localhost:%d", s.config.Port),
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) DatabaseShutdown() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
}

// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "load config, start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config.Config → passed to New, which creates:
//   sqlite.DB → services (auth/category/post) → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shreyash/bloghub/internal/auth"
	"github.com/shreyash/bloghub/internal/config"
	"github.com/shreyash/bloghub/internal/handler"
	"github.com/shreyash/bloghub/internal/metrics"
	"github.com/shreyash/bloghub/internal/middleware"
	sqliteRepo "github.com/shreyash/bloghub/internal/repository/sqlite"
	"github.com/shreyash/bloghub/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down, the
// connection must be closed to flush the WAL and release the file lock —
// Start() handles that during graceful shutdown.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server from the given configuration.
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package. Import aliases are common in Go when
// package names would otherwise collide or be unclear.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router, mainly for tests that want to
// drive the full middleware + routing chain without a listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RealIP — extracts real client IP from proxy headers
// 2. Recoverer — catches panics and returns 500 instead of crashing
// 3. Logger — assigns a request id, logs each request with timing info
// 4. CORS — browser cross-origin policy
// 5. Metrics — per-route counters and latency histogram
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	s.router.Use(collector.Middleware)

	// === DEPENDENCY CHAIN ===
	// s.db.Users/Categories/Posts implement the repository interfaces.
	// Services receive the interfaces; handlers receive the services.
	// The handler never touches the database. The service never touches HTTP.
	devDetail := s.cfg.IsDevelopment()
	authService := service.NewAuthService(s.db.Users, tokens, passwords, s.logger)
	categoryService := service.NewCategoryService(s.db.Categories, s.logger)
	postService := service.NewPostService(s.db.Posts, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger, devDetail)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger, devDetail)
	postHandler := handler.NewPostHandler(postService, s.logger, devDetail)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to the BlogHub API"}`))
	})
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(requireAuth).Get("/me", authHandler.HandleMe)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.HandleList)
			r.Get("/{id}", categoryHandler.HandleGet)
			r.With(requireAuth).Post("/", categoryHandler.HandleCreate)
			r.With(requireAuth).Put("/{id}", categoryHandler.HandleUpdate)
			r.With(requireAuth).Delete("/{id}", categoryHandler.HandleDelete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.HandleList)
			r.Get("/search", postHandler.HandleSearch)
			r.With(requireAuth).Get("/user", postHandler.HandleListByUser)
			r.Get("/category/{categoryId}", postHandler.HandleListByCategory)
			r.Get("/{id}", postHandler.HandleGet)
			r.With(requireAuth).Post("/", postHandler.HandleCreate)
			r.With(requireAuth).Put("/{id}", postHandler.HandleUpdate)
			r.With(requireAuth).Delete("/{id}", postHandler.HandleDelete)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// If we skip step 3, the database file might be left in an inconsistent state.
// The `defer s.db.Close()` ensures this happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("env", s.cfg.Env),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

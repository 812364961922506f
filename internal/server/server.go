// Package server wires the application together: it owns the router,
// the dependency graph, and the process lifecycle.
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and creates the logger; New() builds everything
// else in one place (the composition root):
//
//	sqlite.DB → repositories
//	restcountries.Client → country gateway
//	services (auth, user, favorite, activity, country)
//	handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, nothing reaches around a layer.
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

	"github.com/sakif/country-explorer/internal/auth"
	"github.com/sakif/country-explorer/internal/config"
	"github.com/sakif/country-explorer/internal/gateway/restcountries"
	"github.com/sakif/country-explorer/internal/handler"
	"github.com/sakif/country-explorer/internal/middleware"
	sqliteRepo "github.com/sakif/country-explorer/internal/repository/sqlite"
	"github.com/sakif/country-explorer/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers all routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the services, and maps
// every route to its handler.
//
// MIDDLEWARE ORDER MATTERS — RequestID and RealIP must run before the
// logger so their values are available to it; Recoverer wraps
// everything below it.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Auth primitives ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	} else {
		s.logger.Info("GitHub sign-in not configured, OAuth routes disabled")
	}

	// === Services ===
	gateway := restcountries.NewClient(s.config.CountriesBaseURL)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db, passwords, s.logger)
	favoriteService := service.NewFavoriteService(s.db, s.logger)
	activityService := service.NewActivityService(s.db, s.db, gateway, s.logger)
	countryService := service.NewCountryService(gateway, activityService, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	countryHandler := handler.NewCountryHandler(countryService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)
	userHandler := handler.NewUserHandler(userService, activityService, s.logger)

	handler.Routes(s.router, authHandler, countryHandler, favoriteHandler, userHandler, auth.RequireAuth(tokens))

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests
// (30s), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("countriesAPI", s.config.CountriesBaseURL),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

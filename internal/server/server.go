// Package server is the composition root: it wires the store, the
// sources, the registry, the token sink, and the HTTP routes together,
// and owns startup and graceful shutdown.
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

	"github.com/sakif/folio/internal/auth"
	"github.com/sakif/folio/internal/config"
	"github.com/sakif/folio/internal/handler"
	"github.com/sakif/folio/internal/middleware"
	"github.com/sakif/folio/internal/registry"
	sqliteRepo "github.com/sakif/folio/internal/repository/sqlite"
	"github.com/sakif/folio/internal/sink"
	"github.com/sakif/folio/internal/source/github"
)

// Server owns the router and every long-lived resource behind it.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	sink   *sink.Sink
}

// New assembles the full dependency graph. Registration is strict: a
// misconfigured source surfaces here, before the server ever listens.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Sessions are optional; without a secret the OAuth callback still
	// persists tokens, it just issues no cookie.
	var sessions *auth.TokenService
	if cfg.JWTSecret != "" {
		sessions, err = auth.NewTokenService(cfg.JWTSecret)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating token service: %w", err)
		}
	}

	githubSource, err := github.New(github.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		CallbackURL:  cfg.GitHubCallbackURL,
		APIBase:      cfg.GitHubAPIBase,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
	}, sessions, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating github source: %w", err)
	}

	reg, err := registry.New(githubSource)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("building registry: %w", err)
	}
	logger.Info("registry built", slog.Int("data_plugins", reg.Len()))

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		sink:   sink.New(db, logger, sink.DefaultBuffer),
	}

	s.setupRoutes(reg, sessions)

	return s, nil
}

// setupRoutes configures middleware and mounts every route.
//
// Middleware order: RequestID first so the logger can include it, then
// RealIP, then our structured logger, then Recoverer so panics still get
// a logged 500.
func (s *Server) setupRoutes(reg *registry.Registry, sessions *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Every auth plugin's routes live under /auth/{source}/{plugin}/.
	s.router.Mount("/auth", reg.AuthRoutes(s.sink.Save))

	if sessions != nil {
		s.router.With(auth.RequireAuth(sessions)).Get("/me", handler.Me)
	}

	dataHandler := handler.NewDataHandler(reg, s.db, s.logger)
	s.router.Get("/{requestType}/{source}/{plugin}/{username}", dataHandler.Handle)
}

// Start runs the server until SIGINT or SIGTERM, then shuts down in
// dependency order: stop accepting requests, let the sink drain, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	sinkCtx, stopSink := context.WithCancel(context.Background())
	sinkDone := make(chan struct{})
	go func() {
		defer close(sinkDone)
		s.sink.Run(sinkCtx)
	}()

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
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		stopSink()
		<-sinkDone
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			stopSink()
			<-sinkDone
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		// No more callbacks can arrive; let the sink finish its queue.
		stopSink()
		<-sinkDone

		s.logger.Info("server stopped gracefully")
	}

	return nil
}

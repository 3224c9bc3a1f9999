// Package server is the local read-only web view over the stash.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stash/internal/logger"
	"stash/internal/store"
)

// Options configures the HTTP server.
type Options struct {
	Host string
	Port int
}

// Server serves the article listing and detail pages on localhost.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      *store.Store
	log        *slog.Logger
}

// New creates a new HTTP server instance over the given store.
func New(s *store.Store, opts Options) *Server {
	srv := &Server{
		router: chi.NewRouter(),
		store:  s,
		log:    logger.Get(),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	srv.httpServer = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.handleListArticles)
			r.Get("/{id}", s.handleGetArticle)
		})
		r.Get("/tags", s.handleListTags)
	})

	s.router.Get("/", s.handleHomePage)
	s.router.Get("/articles/{id}", s.handleArticlePage)
}

// Addr returns the address the server will listen on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info("starting web view", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down web view")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// Router returns the chi router instance (useful for testing).
func (s *Server) Router() *chi.Mux {
	return s.router
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/services"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, panic recovery and metrics.
type Middleware func(http.Handler) http.Handler

// Deps are the collaborators the JSON API is served over.
type Deps struct {
	Users    *identity.Store
	Library  *library.Engine
	Durable  *repositories.Store
	Sessions *Sessions
	Searcher services.Searcher
	// APIKey is the configured fallback when no key has been saved.
	APIKey string
	Logger *log.Logger
}

// Server exposes the library over HTTP.
type Server struct {
	Deps
	router *BasicRouter
}

// New builds a [Server] and registers every route.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(io.Discard)
	}
	if deps.Sessions == nil {
		deps.Sessions = NewMemorySessions(deps.Logger, 0)
	}

	s := &Server{Deps: deps, router: NewBasicRouter()}
	s.router.Use(LoggingMiddleware(deps.Logger), RecoverMiddleware(deps.Logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.HandleFunc(http.MethodGet, "/health", s.handleHealth)
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())

	r.HandleFunc(http.MethodPost, "/register", s.handleRegister)
	r.HandleFunc(http.MethodGet, "/login", s.handleLoginInfo)
	r.HandleFunc(http.MethodPost, "/login", s.handleLogin)
	r.HandleFunc(http.MethodPost, "/logout", s.handleLogout)
	r.HandleFunc(http.MethodGet, "/me", s.authed(s.handleMe))

	r.HandleFunc(http.MethodGet, "/search", s.authed(s.handleSearch))
	r.HandleFunc(http.MethodGet, "/apikey", s.authed(s.handleGetAPIKey))
	r.HandleFunc(http.MethodPut, "/apikey", s.authed(s.handlePutAPIKey))

	r.HandleFunc(http.MethodGet, "/playlists", s.authed(s.handleListPlaylists))
	r.HandleFunc(http.MethodPost, "/playlists", s.authed(s.handleCreatePlaylist))
	r.HandleFunc(http.MethodDelete, "/playlists/{id}", s.authed(s.handleDeletePlaylist))
	r.HandleFunc(http.MethodPost, "/playlists/{id}/items", s.authed(s.handleAddItem))
	r.HandleFunc(http.MethodPatch, "/playlists/{id}/items/{itemId}", s.authed(s.handleUpdateItem))
	r.HandleFunc(http.MethodDelete, "/playlists/{id}/items/{itemId}", s.authed(s.handleRemoveItem))
	r.HandleFunc(http.MethodGet, "/playlists/{id}/play", s.authed(s.handlePlay))
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Package devserver is a self-contained in-memory rendition of the sheet
// backend, good enough to run the client against without the real service:
// same envelope, same paths, same auth header.
package devserver

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/config"
)

// Server is the HTTP server wrapping the in-memory store.
type Server struct {
	store  *Store
	router *chi.Mux
	server *http.Server
	cfg    config.DevServerConfig
}

// NewServer creates a dev server around the given store.
func NewServer(cfg config.DevServerConfig, store *Store) *Server {
	s := &Server{
		store:  store,
		router: chi.NewRouter(),
		cfg:    cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(tokenAuth(s.cfg.Token))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/sheet", func(r chi.Router) {
		r.Get("/get/{entity}", s.handleList)
		r.Get("/get/{entity}/{sub}", s.handleListSub)
		r.Post("/manual/{entity}", s.handleCreate)
		r.Patch("/update/{entity}/{id}", s.handleUpdate)
		r.Post("/bulk/{sheet}", s.handleBulk)
		r.Get("/template/{entity}", s.handleTemplate)
	})

	s.router.Route("/general", func(r chi.Router) {
		r.Get("/states", s.handleStates)
		r.Get("/districts", s.handleDistricts)
		r.Get("/blocks", s.handleBlocks)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("dev server listening", "addr", s.cfg.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// tokenAuth validates the Authorization header against the configured
// token. The expected form is "authorization <token>", the prefix the
// production backend uses in place of Bearer. An empty configured token
// disables auth.
func tokenAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			prefix := api.AuthScheme + " "
			if !strings.HasPrefix(header, prefix) {
				slog.Warn("auth: missing credential",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeFailure(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}

			got := strings.TrimPrefix(header, prefix)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				slog.Warn("auth: invalid credential",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeFailure(w, http.StatusForbidden, "invalid credential", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

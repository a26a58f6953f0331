// Package web provides the HTTP server and handlers for the table UI.
package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/metrics"
	"github.com/JonMunkholm/datatable/internal/session"
	mw "github.com/JonMunkholm/datatable/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the table UI and its JSON API.
type Server struct {
	sessions *session.Manager
	cfg      *config.Config
	metrics  *metrics.Metrics
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a new Server instance. m may be nil to disable metrics.
func NewServer(sessions *session.Manager, cfg *config.Config, m *metrics.Metrics) *Server {
	s := &Server{
		sessions: sessions,
		cfg:      cfg,
		metrics:  m,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(s.metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Static files (HTMX error swapping)
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/tables/{dataset}", s.handleOpenTable)
	s.router.With(s.withInstance).Get("/t/{id}", s.handleTableView)

	if s.cfg.Metrics.Enabled && s.metrics != nil {
		s.router.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/datasets", s.handleListDatasets)
		r.Post("/datasets/{dataset}/tables", s.handleCreateTable)

		r.Route("/t/{id}", func(r chi.Router) {
			r.Use(s.withInstance)

			r.Get("/", s.handleGetTable)
			r.Delete("/", s.handleCloseTable)

			r.Post("/filter", s.handleSetFilter)
			r.Post("/filter/clear", s.handleClearFilters)
			r.Post("/sort", s.handleSetSort)
			r.Post("/page", s.handleSetPage)
			r.Post("/columns", s.handleSetColumns)

			export := r.With()
			if s.cfg.Rate.Enabled {
				export = r.With(s.newLimiter(s.cfg.Rate.ExportLimit).middleware)
			}
			export.Get("/export", s.handleExport)
		})
	})
}

// newLimiter creates a per-IP limiter that is stopped on Shutdown.
func (s *Server) newLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its limiter cleanup loops.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// contentSecurityPolicy allows the pinned HTMX build and inline styles.
const contentSecurityPolicy = "default-src 'self'; script-src 'self' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", contentSecurityPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

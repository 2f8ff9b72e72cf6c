// Package server provides a local preview server for the regenerated site,
// so the pages can be checked in a browser before deploying.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds preview server configuration.
type Config struct {
	Port     int
	PagesDir string // directory holding the static pages
	ArtDir   string // image library root
	AllowAll bool   // allow all CORS origins
}

// Server serves the pages directory under /pages/ and the art directory
// under /art/, which keeps the pages' relative ../art/ image links working
// wherever the two directories actually live.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
}

// New creates a preview server for the given directories.
func New(cfg Config) (*Server, error) {
	if cfg.PagesDir == "" {
		return nil, fmt.Errorf("pages directory is required")
	}
	if cfg.ArtDir == "" {
		return nil, fmt.Errorf("art directory is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}

	s := &Server{cfg: cfg}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pages/gallery.html", http.StatusFound)
	})

	r.Handle("/pages/*", http.StripPrefix("/pages/", http.FileServer(http.Dir(s.cfg.PagesDir))))
	r.Handle("/art/*", http.StripPrefix("/art/", http.FileServer(http.Dir(s.cfg.ArtDir))))

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// URL returns the address the server is reachable at once started.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.cfg.Port)
}

// Start begins listening on the configured port and blocks until the server
// stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("preview server listening", "addr", addr, "url", s.URL())
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

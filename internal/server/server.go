// Package server exposes the viewer over HTTP: the live page shell, a small
// read-only REST API and one WebSocket session per open page.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/docview/internal/library"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/ui"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Title    string
	AllowAll bool // allow all CORS origins (dev mode)
	Settings ui.Settings
}

// Server serves the viewer.
type Server struct {
	cfg        Config
	lib        *library.Library
	renderer   markdown.Renderer
	prefs      prefs.Store
	log        *slog.Logger
	router     chi.Router
	httpServer *http.Server
	sessions   atomic.Int64
}

// New creates a server over lib. store keeps per-client preferences; a nil
// store keeps them in memory.
func New(cfg Config, lib *library.Library, renderer markdown.Renderer, store prefs.Store, log *slog.Logger) *Server {
	if cfg.Title == "" {
		cfg.Title = "Documentation"
	}
	if cfg.Settings == (ui.Settings{}) {
		cfg.Settings = ui.DefaultSettings()
	}
	if renderer == nil {
		renderer = markdown.NewDialect()
	}
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		lib:      lib,
		renderer: renderer,
		prefs:    store,
		log:      log,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Sessions are long-lived, so the request timeout only covers the rest.
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/", s.handlePage)
		r.Get("/style.css", s.handleCSS)
		r.Get("/app.js", s.handleScript)

		r.Route("/api", func(r chi.Router) {
			r.Get("/status", s.handleStatus)
			r.Get("/document", s.handleDocument)
			r.Get("/nav", s.handleNav)
			r.Get("/sections/{id}", s.handleSection)
			r.Get("/search", s.handleSearch)
			r.Get("/search-index", s.handleSearchIndex)
		})
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Sessions returns the number of open WebSocket sessions.
func (s *Server) Sessions() int { return int(s.sessions.Load()) }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("docview server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Package web serves the movie discovery JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thejerf/suture/v4"

	"github.com/justestif/go-movie-mood/internal/logging"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	defaultShutdownTimeout = 10 * time.Second
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	cfg      ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, recommender Recommender, images ImageResolver) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: NewHandlers(recommender, images),
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLog)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handlers.Health)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/moods", s.handlers.Moods)
		r.Post("/mood", s.handlers.Mood)
		r.Get("/rails", s.handlers.Rails)
		r.Get("/search", s.handlers.Search)
		r.Get("/runtime", s.handlers.Runtime)
		r.Get("/movie/{id}", s.handlers.Movie)
	})
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the server under a supervisor until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	sup := suture.New("movie-mood", suture.Spec{
		EventHook: supervisorHook,
		Timeout:   s.cfg.ShutdownTimeout + time.Second,
	})
	svc := newHTTPService(s.server, s.cfg.ShutdownTimeout)
	sup.Add(svc)

	logging.Info().Str("addr", s.server.Addr).Msg("starting server")

	err := sup.Serve(ctx)
	if failed := svc.failure(); failed != nil {
		return failed
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Serve(ctx)
}

func supervisorHook(e suture.Event) {
	l := logging.WithComponent("supervisor")
	l.Warn().Fields(e.Map()).Msg(e.String())
}

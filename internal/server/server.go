// Package server provides the HTTP API for Sentaku.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/internal/keyword"
	"github.com/hyperjump/sentaku/internal/observability"
	"github.com/hyperjump/sentaku/internal/search"
	"github.com/hyperjump/sentaku/internal/storage"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// Server is the HTTP server for the Sentaku API.
type Server struct {
	engine   *search.Engine
	keyword  keyword.KeywordIndex
	snapshot storage.SnapshotStore
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// Option configures optional server dependencies.
type Option func(*Server)

// WithKeywordIndex enables GET /api/v1/assessments lookups.
func WithKeywordIndex(k keyword.KeywordIndex) Option {
	return func(s *Server) { s.keyword = k }
}

// WithSnapshotStore lets /api/v1/status report the stored snapshot manifest.
func WithSnapshotStore(st storage.SnapshotStore) Option {
	return func(s *Server) { s.snapshot = st }
}

// NewServer creates a server with the given dependencies and registers the service metrics.
func NewServer(engine *search.Engine, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	s := &Server{
		engine: engine,
		config: cfg,
		logger: utils.OrNop(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	observability.InitMetrics()
	return s
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	sc := &s.config.Server
	timeout := sc.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: sc.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Group(func(rr chi.Router) {
		if sc.RateLimitPerMinute > 0 {
			rr.Use(httprate.LimitByIP(sc.RateLimitPerMinute, time.Minute))
		}
		rr.Post("/recommend", s.handleRecommend)
		rr.Post("/api/v1/recommend", s.handleRecommend)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/assessments", s.handleAssessments)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

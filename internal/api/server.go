// Package api exposes imports over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"gridimport/domain/core"
	"gridimport/domain/imports"
	"gridimport/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"
)

// Importer is what the HTTP layer needs from the import service
type Importer interface {
	Supports(filename string) bool
	Import(ctx context.Context, path, originalFilename string) (*imports.Record, error)
	Get(ctx context.Context, id core.ImportID) (*imports.Record, error)
	List(ctx context.Context, limit, offset int) ([]imports.Summary, error)
	Report(ctx context.Context, id core.ImportID) ([]byte, error)
}

// Config holds upload limits
type Config struct {
	MaxUploadBytes int64
	MaxConcurrent  int64
	UploadDir      string
}

// DefaultConfig returns the limits used when none are configured
func DefaultConfig() Config {
	return Config{
		MaxUploadBytes: 32 << 20,
		MaxConcurrent:  4,
	}
}

// Server routes import requests
type Server struct {
	router   *chi.Mux
	importer Importer
	hub      *SSEHub
	uploads  *semaphore.Weighted
	config   Config
	logger   *internal.Logger
}

// NewServer creates a server. hub may be nil, which disables /api/events.
func NewServer(importer Importer, hub *SSEHub, config Config, logger *internal.Logger) *Server {
	defaults := DefaultConfig()
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = defaults.MaxConcurrent
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:   chi.NewRouter(),
		importer: importer,
		hub:      hub,
		uploads:  semaphore.NewWeighted(config.MaxConcurrent),
		config:   config,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/imports", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/report", s.handleReport)
	})

	if s.hub != nil {
		s.router.Get("/api/events", s.hub.HandleSSE)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("[API] %s %s -> %d (%d bytes) in %.2fms [%s]",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			float64(time.Since(start).Nanoseconds())/1e6, middleware.GetReqID(r.Context()))
	})
}

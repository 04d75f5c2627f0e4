// Package server exposes the search core over HTTP and serves the static
// portfolio site.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/atelierhq/folio/internal/config"
	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/suggest"
	"github.com/atelierhq/folio/internal/telemetry"
)

// Server wires the search engine, suggestion engine, and telemetry behind
// the HTTP API.
type Server struct {
	cfg       *config.Config
	engine    *search.Engine
	suggester *suggest.Engine
	collector *telemetry.Collector
	store     *telemetry.Store
	logger    *slog.Logger

	httpServer *http.Server
}

// New creates a server. collector and store may be nil when telemetry is
// disabled.
func New(cfg *config.Config, engine *search.Engine, suggester *suggest.Engine,
	collector *telemetry.Collector, store *telemetry.Store) *Server {
	s := &Server{
		cfg:       cfg,
		engine:    engine,
		suggester: suggester,
		collector: collector,
		store:     store,
		logger:    slog.Default().With(slog.String("component", "server")),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/search", s.handleSearch)
		api.Get("/search/multimodal", s.handleMultimodalSearch)
		api.Get("/search/text", s.handleTextSearch)
		api.Get("/search/images", s.handleImageSearch)
		api.Get("/suggestions", s.handleSuggestions)

		api.Get("/works", s.handleListWorks)
		api.Get("/works/{id}", s.handleGetWork)

		api.Get("/health", s.handleHealth)
		api.Get("/stats", s.handleStats)
	})

	if s.cfg.Paths.PublicDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.Paths.PublicDir))
		r.Handle("/*", fs)
	}

	return r
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())))
	})
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.cfg.Server.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

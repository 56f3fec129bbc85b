// Package server exposes the upload and query surface over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/shivxmr/exemplar/internal/engine"
	"github.com/shivxmr/exemplar/internal/service"
)

// Server wires the processing engine and storage behind a chi router.
type Server struct {
	httpServer *http.Server
	engine     *engine.Engine
	storage    service.Storage
	outputDir  string
}

// Config holds the server settings.
type Config struct {
	Addr      string
	OutputDir string
}

// New creates a server for the given engine and storage.
func New(eng *engine.Engine, storage service.Storage, cfg Config) *Server {
	s := &Server{
		engine:    eng,
		storage:   storage,
		outputDir: cfg.OutputDir,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.handleHealth)
	r.Post("/upload", s.handleUpload)
	r.Get("/data/category/{category}", s.handleCategory)
	r.Get("/data/empty-order-summary", s.handleEmptyOrderSummary)
	r.Get("/tolerance-analysis", s.handleToleranceAnalysis)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// ListenAndServe blocks serving HTTP until the context is canceled or
// the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler returns the router, used by tests to serve requests directly.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Package server serves the documentation site over HTTP: it maps URL
// paths to pages, renders them through the site, exposes the run
// reporting API, and serves static assets and the sitemap.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"impractical.co/folio/internal/config"
	"impractical.co/folio/internal/content"
	"impractical.co/folio/internal/site"
	"impractical.co/folio/internal/status"
)

var tracer = otel.Tracer("impractical.co/folio/internal/server")

// shutdownTimeout caps how long an in-flight request can hold up server
// shutdown.
const shutdownTimeout = 5 * time.Second

// Server hosts the documentation site.
type Server struct {
	docs       *site.Docs
	runs       *status.Repository
	logger     *slog.Logger
	httpServer *http.Server
	sitemap    []byte
}

// New builds a configured server. Every content page is converted up
// front, so markup problems fail here instead of on a request.
func New(cfg config.Config, docs *site.Docs, runs *status.Repository, logger *slog.Logger) (*Server, error) {
	server := &Server{
		docs:   docs,
		runs:   runs,
		logger: logger,
	}

	sitemap, err := buildSitemap(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("building sitemap: %w", err)
	}
	server.sitemap = sitemap

	mux := http.NewServeMux()
	for _, page := range content.Pages() {
		docPage, err := site.NewDocPage(docs, page)
		if err != nil {
			return nil, fmt.Errorf("converting page %q: %w", page.Slug, err)
		}
		if page.Slug == "index" {
			mux.Handle("GET /{$}", server.handleDocPage(docPage))
			continue
		}
		mux.Handle(fmt.Sprintf("GET /%s/{$}", page.Slug), server.handleDocPage(docPage))
	}
	mux.Handle("GET /status/{$}", server.handleStatusPage())
	mux.Handle("POST /api/runs", server.handleReportRun())
	mux.Handle("GET /static/{asset...}", server.handleStatic())
	mux.Handle("GET /sitemap.xml", server.handleSitemap())

	server.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.withRequestContext(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server, nil
}

// ListenAndServe runs the HTTP server until ctx ends, then shuts it down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

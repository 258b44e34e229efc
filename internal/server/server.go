// Package server exposes the composition engine as a JSON HTTP API.
//
// Routes:
//
//	GET    /healthz
//	GET    /version
//	GET    /metrics
//	GET    /v1/templates
//	GET    /v1/grid/{format}
//	POST   /v1/compose            (?save=true stores the document)
//	POST   /v1/compose/formats
//	POST   /v1/compose/variants
//	POST   /v1/variations
//	POST   /v1/orchestrate        (?save=true exports and stores the best variation)
//	POST   /v1/contrast
//	GET    /v1/palette/{color}    (color without '#')
//	GET    /v1/documents
//	GET    /v1/documents/{id}
//	DELETE /v1/documents/{id}
//
// Errors are JSON objects {"code": ..., "message": ...}.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/adlayout/internal/metrics"
	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/config"
	"github.com/matzehuels/adlayout/pkg/pipeline"
	"github.com/matzehuels/adlayout/pkg/store"
)

// maxBodyBytes bounds request bodies; product images travel inline.
const maxBodyBytes = 20 << 20

// Server holds the API collaborators. It is safe for concurrent use.
type Server struct {
	Config  config.Config
	Engine  *compose.Engine
	Runner  *pipeline.Runner
	Store   store.Store
	Metrics *metrics.Recorder // optional
	Logger  *log.Logger
}

// New creates a server. A nil logger uses log.Default.
func New(cfg config.Config, runner *pipeline.Runner, engine *compose.Engine, st store.Store, rec *metrics.Recorder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Config:  cfg,
		Engine:  engine,
		Runner:  runner,
		Store:   st,
		Metrics: rec,
		Logger:  logger,
	}
}

// Handler returns the chi router with every route and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.Config.Server.RequestTimeout.Duration))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/templates", s.handleTemplates)
		r.Get("/grid/{format}", s.handleGrid)

		r.Post("/compose", s.handleCompose)
		r.Post("/compose/formats", s.handleComposeFormats)
		r.Post("/compose/variants", s.handleComposeVariants)
		r.Post("/variations", s.handleVariations)
		r.Post("/orchestrate", s.handleOrchestrate)
		r.Post("/contrast", s.handleContrast)
		r.Get("/palette/{color}", s.handlePalette)

		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
	})
	return r
}

// logRequests logs every request and records it in the metrics recorder
// under its route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		if s.Metrics != nil {
			s.Metrics.ObserveRequest(r.Method, route, status, d)
		}
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

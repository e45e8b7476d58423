// Package server exposes the genogram pipeline and family store over HTTP.
//
// Routes:
//
//	GET    /healthz                   liveness and build info
//	GET    /metrics                   Prometheus metrics
//	POST   /v1/layout                 lay out a posted family, returns JSON
//	POST   /v1/render?format=svg      lay out and render a posted family
//	GET    /v1/families               list stored families
//	POST   /v1/families               store a family under a new ID
//	GET    /v1/families/{id}          fetch a stored family
//	PUT    /v1/families/{id}          replace a stored family
//	DELETE /v1/families/{id}          delete a stored family
//	GET    /v1/families/{id}/layout   lay out and render a stored family
//
// Layout and render requests take a JSON body of the form
// {"family": {...}, "options": {...}} where options are [pipeline.Options].
// The family may use the canonical or any legacy shape.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/genogram/pkg/observability"
	"github.com/matzehuels/genogram/pkg/pipeline"
	"github.com/matzehuels/genogram/pkg/store"
)

// MaxBodyBytes limits request bodies.
const MaxBodyBytes = 8 << 20

// Options configures [New].
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store // nil disables the /v1/families routes

	// Metrics is served on /metrics when set.
	Metrics *observability.Metrics

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	metrics *observability.Metrics
	logger  *log.Logger
	router  chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	s := &Server{
		runner:  opts.Runner,
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		if s.store != nil {
			r.Route("/families", func(r chi.Router) {
				r.Get("/", s.handleListFamilies)
				r.Post("/", s.handleCreateFamily)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetFamily)
					r.Put("/", s.handlePutFamily)
					r.Delete("/", s.handleDeleteFamily)
					r.Get("/layout", s.handleFamilyLayout)
				})
			})
		}
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports every request to the HTTP hooks and logs it at debug.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

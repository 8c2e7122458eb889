// Package server implements the transitroute HTTP service.
//
// Endpoints:
//
//	GET /health                                 liveness and network size
//	GET /api/routes                             loaded routes in load order
//	GET /api/stops                              stop statistics
//	GET /api/path?from=&to=&mode=&closed=       resolve a trip
//	GET /api/graph?format=&mode=&closed=&from=&to=
//	GET /metrics                                Prometheus metrics
//
// The network is loaded once at startup and never changes while the server
// runs, so handlers share one resolver and its graph cache.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/pipeline"
	"github.com/matzehuels/transitroute/pkg/routing"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	Addr           string
	AllowedOrigins []string

	// Defaults apply when a query names no mode and no closed stops.
	Defaults pipeline.QueryOptions

	// GraphCacheSize bounds the adjacency graph cache; non-positive means
	// routing.DefaultGraphCacheSize.
	GraphCacheSize int

	Logger *log.Logger

	// Registry is served on /metrics. Nil means a fresh registry.
	Registry *prometheus.Registry

	// Metrics are the collectors registered with Registry. Nil means
	// collectors are created and registered by New.
	Metrics *Metrics
}

// Server answers route queries over a fixed network.
type Server struct {
	net      *network.Network
	resolver *routing.Resolver
	opts     Options
	logger   *log.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	router   chi.Router
}

// New creates a server for n.
func New(n *network.Network, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(opts.Registry)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		net:      n,
		resolver: routing.NewResolver(n, routing.NewGraphCache(opts.GraphCacheSize)),
		opts:     opts,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		registry: opts.Registry,
	}
	pipeline.ObserveGraphs(context.Background(), s.resolver)
	s.router = s.routes()
	return s
}

// Metrics returns the server's metric collectors. They only record events
// once registered with the observability package:
//
//	observability.SetQueryHooks(srv.Metrics())
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/routes", s.handleRoutes)
		r.Get("/stops", s.handleStops)
		r.Get("/path", s.handlePath)
		r.Get("/graph", s.handleGraph)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{
			Code:    "NOT_FOUND",
			Message: "no such endpoint",
		}})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr,
			"routes", s.net.Index().Len(), "stops", s.net.Catalog().Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/bonus"
	"github.com/matzehuels/reftree/pkg/buildinfo"
	"github.com/matzehuels/reftree/pkg/config"
	"github.com/matzehuels/reftree/pkg/forest"
	"github.com/matzehuels/reftree/pkg/growth"
	"github.com/matzehuels/reftree/pkg/observability"
)

// DefaultTopK is used by /analytics/top when k is omitted.
const DefaultTopK = 10

// Server serves one referral forest.
type Server struct {
	mu       sync.RWMutex
	forest   *forest.Forest
	analyzer *analytics.Analyzer

	sim       *growth.Simulation
	optimizer *bonus.Optimizer
	adopt     bonus.AdoptionFunc
	limits    config.Server

	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer sets the registry served at /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// New creates a server over f. A nil forest starts empty.
func New(f *forest.Forest, cfg config.Config, opts ...Option) (*Server, error) {
	if f == nil {
		f = forest.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sim, err := growth.New(cfg.Simulation)
	if err != nil {
		return nil, err
	}
	opt, err := bonus.New(sim, cfg.Bonus)
	if err != nil {
		return nil, err
	}

	s := &Server{
		forest:    f,
		analyzer:  analytics.New(f),
		sim:       sim,
		optimizer: opt,
		adopt:     cfg.Adoption.Func(),
		limits:    cfg.Server,
		logger:    log.Default(),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Resolve()})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleDetails)
			r.Delete("/", s.handleDelete)
			r.Get("/referrals", s.handleReferrals)
			r.Put("/referrer", s.handleLink)
			r.Get("/reach", s.handleReach)
		})
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/top", s.handleTop)
		r.Get("/expansion", s.handleExpansion)
		r.Get("/centrality", s.handleCentrality)
	})

	r.Post("/simulate", s.handleSimulate)
	r.Post("/simulate/days", s.handleDaysToTarget)
	r.Post("/bonus", s.handleBonus)
	return r
}

// instrument logs each request and reports it to the HTTP hooks, labelled by
// route pattern rather than raw path to keep metric cardinality bounded.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		dur := time.Since(start)

		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "elapsed", dur)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", addr, "users", s.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Len returns the number of users currently served.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest.Len()
}

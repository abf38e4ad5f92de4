package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/kubeadapt/clusterview/internal/config"
	cverrors "github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/pkg/model"
)

// QueryService answers the read-only API. Every call polls the cluster.
type QueryService interface {
	GetSnapshot(ctx context.Context) (*model.ClusterSnapshot, error)
	GetNodes(ctx context.Context) ([]model.NodeInfo, error)
	GetNodeDetail(ctx context.Context, name string) (*model.NodeDetail, error)
	GetNamespaces(ctx context.Context) ([]model.NamespaceInfo, error)
	GetPods(ctx context.Context) ([]model.PodInfo, error)
	GetDeployments(ctx context.Context) ([]model.DeploymentInfo, error)
	GetServices(ctx context.Context) ([]model.ServiceInfo, error)
}

// ErrorReporter lists the errors currently active.
type ErrorReporter interface {
	GetActiveErrorCodes() []string
	GetActiveErrors() []cverrors.ReportedError
}

// Server exposes the cluster API together with health, readiness, metrics,
// and optional debug endpoints on a single port.
type Server struct {
	httpServer  *http.Server
	config      *config.Config
	metrics     *observability.Metrics
	api         QueryService
	errors      ErrorReporter
	rateLimiter *rate.Limiter
	gzip        func(http.Handler) http.HandlerFunc
	ready       atomic.Bool
}

// NewServer creates a server for cfg. api may be nil when no cluster client
// could be built; the API then answers 503 and /api/health reports unhealthy.
func NewServer(cfg *config.Config, metrics *observability.Metrics, api QueryService, errs ErrorReporter) (*Server, error) {
	gz, err := gzhttp.NewWrapper(
		gzhttp.CompressionLevel(cfg.CompressionLevel),
		gzhttp.MinSize(1024),
	)
	if err != nil {
		return nil, fmt.Errorf("server: gzip wrapper: %w", err)
	}

	s := &Server{
		config:      cfg,
		metrics:     metrics,
		api:         api,
		errors:      errs,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		gzip:        gz,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	s.route(mux, "/api/health", s.handleAPIHealth)
	s.route(mux, "/api/cluster", s.requireAPI(s.handleCluster))
	s.route(mux, "/api/nodes", s.requireAPI(s.handleNodes))
	s.route(mux, "/api/nodes/{name}", s.requireAPI(s.handleNodeDetail))
	s.route(mux, "/api/namespaces", s.requireAPI(s.handleNamespaces))
	s.route(mux, "/api/pods", s.requireAPI(s.handlePods))
	s.route(mux, "/api/deployments", s.requireAPI(s.handleDeployments))
	s.route(mux, "/api/services", s.requireAPI(s.handleServices))

	if cfg.DebugEndpoints {
		// pprof handlers, only enabled when CLUSTERVIEW_DEBUG_ENDPOINTS=true
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        s.corsMiddleware(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return s, nil
}

// route registers a GET API handler with the full middleware chain. The
// path doubles as the route label of request metrics.
func (s *Server) route(mux *http.ServeMux, path string, h http.HandlerFunc) {
	mux.Handle("GET "+path, s.withMiddleware(path, h))
}

// SetReady marks the server ready (or not) for /readyz.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address. After Start it is the bound address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins listening and serving HTTP in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server listen: %w", err)
	}
	// Update Addr to the actual address (important when port=0).
	s.httpServer.Addr = ln.Addr().String()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server exited", "error", err)
		}
	}()
	slog.Info("http server listening", "addr", s.httpServer.Addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

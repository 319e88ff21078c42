package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quietfall/slotbooker/internal/api"
	"github.com/quietfall/slotbooker/internal/instrumentation"
)

const (
	// DefaultAPIAddr is the address the API server binds to by default.
	DefaultAPIAddr = ":8000"

	// DefaultAPIReadHeaderTimeout limits how long a client may take to send
	// request headers.
	DefaultAPIReadHeaderTimeout = 10 * time.Second

	// DefaultAPIIdleTimeout closes idle keep-alive connections.
	DefaultAPIIdleTimeout = 60 * time.Second
)

// APIServerConfig holds configuration for the API server.
type APIServerConfig struct {
	// Addr is the address to bind the API server to (e.g., ":8000").
	Addr string

	// API provides the route handlers. Required.
	API *api.API

	// Health tracks readiness for the health endpoints. A fresh checker
	// is created when nil.
	Health *HealthChecker

	// InstrumentationProvider enables HTTP metrics and request tracing.
	// When nil or disabled, requests are served without instrumentation.
	InstrumentationProvider *instrumentation.Provider

	// Logger receives access logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// APIServer serves the booking API with its middleware stack and health
// endpoints.
type APIServer struct {
	httpServer *http.Server
	handler    http.Handler
	health     *HealthChecker
	addr       string
}

// NewAPIServer assembles the router and middleware chain. Middleware
// order: request-id first so every later stage can log it, then client
// IP resolution, access logging, metrics, and panic recovery closest to
// the handlers.
func NewAPIServer(config APIServerConfig) (*APIServer, error) {
	if config.API == nil {
		return nil, fmt.Errorf("api handlers are required")
	}
	if config.Addr == "" {
		config.Addr = DefaultAPIAddr
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	health := config.Health
	if health == nil {
		health = NewHealthChecker()
	}

	instrumented := config.InstrumentationProvider != nil && config.InstrumentationProvider.Enabled()

	r := chi.NewRouter()
	r.Use(api.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.AccessLog(logger))
	if instrumented {
		r.Use(api.Instrument(config.InstrumentationProvider.Metrics()))
	}
	r.Use(middleware.Recoverer)

	config.API.Routes(r)
	health.RegisterHealthEndpoints(r)

	var handler http.Handler = r
	if instrumented {
		handler = otelhttp.NewHandler(r, "slotbooker")
	}

	return &APIServer{
		handler: handler,
		health:  health,
		addr:    config.Addr,
	}, nil
}

// Handler returns the fully assembled handler. Useful for tests that
// drive the server through httptest instead of a real listener.
func (s *APIServer) Handler() http.Handler {
	return s.handler
}

// Start starts the API server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *APIServer) Start() error {
	return s.serve(nil)
}

// StartWithReadySignal starts the API server and closes ready once the
// listener is bound. Callers waiting on ready are guaranteed the port is
// open (or an error returned) before proceeding.
func (s *APIServer) StartWithReadySignal(ready chan<- struct{}) error {
	return s.serve(ready)
}

func (s *APIServer) serve(ready chan<- struct{}) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: DefaultAPIReadHeaderTimeout,
		IdleTimeout:       DefaultAPIIdleTimeout,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.addr = listener.Addr().String()

	if ready != nil {
		close(ready)
	}

	slog.Info("starting api server", "addr", s.addr)
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully shuts down the API server. Readiness flips first so
// load balancers stop routing new work while in-flight requests drain.
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.health.SetShuttingDown()
	if s.httpServer != nil {
		slog.Info("shutting down api server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the address for the API server. Once the server has
// started this is the bound listener address, which is useful when the
// configured address used port 0.
func (s *APIServer) Addr() string {
	return s.addr
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/symbolic/pkg/config"
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/history"
	"mercator-hq/symbolic/pkg/telemetry/health"
	"mercator-hq/symbolic/pkg/telemetry/metrics"
	"mercator-hq/symbolic/pkg/telemetry/tracing"
)

// Dependencies are the optional collaborators of a Server.
type Dependencies struct {
	// History is queried by GET /v1/history. Nil disables the endpoints.
	History history.Store

	// Recorder receives a record for each evaluation. Nil disables recording.
	Recorder *history.Recorder

	// Metrics is served on MetricsPath. Nil disables the endpoint.
	Metrics     *metrics.Collector
	MetricsPath string

	// Health backs /health and /ready. Nil creates a checker that pings
	// History when it is set.
	Health *health.Checker

	// Tracer creates request and engine spans. Nil disables tracing.
	Tracer *tracing.Tracer

	Logger *slog.Logger
}

// Server is the HTTP front end of the engine.
type Server struct {
	config   *config.ServerConfig
	engine   *engine.Engine
	deps     Dependencies
	logger   *slog.Logger
	health   *health.Checker
	handlers *handlers

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server for eng.
func NewServer(cfg *config.ServerConfig, eng *engine.Engine, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = config.DefaultMetricsPath
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.Noop()
	}

	checker := deps.Health
	if checker == nil {
		checker = health.New(0)
		if deps.History != nil {
			checker.RegisterOptionalCheck("history", health.PingCheck(deps.History))
		}
	}

	return &Server{
		config: cfg,
		engine: eng,
		deps:   deps,
		logger: logger,
		health: checker,
		handlers: &handlers{
			engine:             eng,
			store:              deps.History,
			recorder:           deps.Recorder,
			tracer:             deps.Tracer,
			maxExpressionBytes: cfg.MaxExpressionBytes,
			logger:             logger,
		},
	}
}

// Health returns the checker behind /health and /ready.
func (s *Server) Health() *health.Checker {
	return s.health
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully stops the server, waiting up to ShutdownTimeout for
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		timeout := s.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/evaluate", s.handlers.evaluate)
	mux.HandleFunc("/v1/rewrite", s.handlers.rewrite)
	mux.HandleFunc("/v1/functions", s.handlers.functions)
	mux.HandleFunc("/v1/history", s.handlers.history)
	mux.HandleFunc("/v1/history/{id}", s.handlers.historyRecord)
	mux.Handle("/health", s.health.LivenessHandler())
	mux.Handle("/ready", s.health.ReadinessHandler())
	if s.deps.Metrics != nil {
		mux.Handle(s.deps.MetricsPath, s.deps.Metrics.Handler())
	}

	var handler http.Handler = mux

	// JSON framing and escapes can double the size of an expression.
	if s.config.MaxExpressionBytes > 0 {
		handler = BodyLimitMiddleware(int64(2*s.config.MaxExpressionBytes + 1024))(handler)
	}
	handler = LoggingMiddleware(s.logger)(handler)
	handler = TracingMiddleware(s.deps.Tracer)(handler)
	handler = RequestIDMiddleware(handler)

	// Recovery is outermost.
	handler = RecoveryMiddleware(s.logger)(handler)

	return handler
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relayhq/originproxy/pkg/config"
	"github.com/relayhq/originproxy/pkg/cspreports"
	"github.com/relayhq/originproxy/pkg/dispatch"
	"github.com/relayhq/originproxy/pkg/gc"
	"github.com/relayhq/originproxy/pkg/origin"
	"github.com/relayhq/originproxy/pkg/pipeline"
	"github.com/relayhq/originproxy/pkg/proxy/middleware"
	"github.com/relayhq/originproxy/pkg/ratelimit"
	"github.com/relayhq/originproxy/pkg/telemetry/logging"
	"github.com/relayhq/originproxy/pkg/telemetry/metrics"
)

// Server is the proxy's top-level process: it owns the http.Server, the
// CSP report store, and the retention sweeper, and ties them to the
// request pipeline.
type Server struct {
	store      *config.Store
	logger     *logging.Logger
	collector  *metrics.Collector
	cspStore   *cspreports.Store
	sweeper    *gc.Sweeper
	httpServer *http.Server

	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New builds a Server from a config store and a CSP report store. The
// caller owns the CSP store's lifetime (see Close).
func New(store *config.Store, cspStore *cspreports.Store, logger *logging.Logger, registry *prometheus.Registry) *Server {
	cfg := store.Get()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)
	limiter := ratelimit.New(time.Duration(cfg.RateLimit.WindowMS)*time.Millisecond, cfg.RateLimit.Limit)
	resolver := origin.NewResolver(origin.Origin(cfg.Origin.FallbackOrigin))
	dispatcher := dispatch.New(limiter)
	p := pipeline.New(store, resolver, dispatcher, collector, logger)

	sweeper := gc.New(cspStore, limiter, cfg.CSP.RetentionDays, cfg.CSP.PruneSchedule, logger)

	return &Server{
		store:     store,
		logger:    logger,
		collector: collector,
		cspStore:  cspStore,
		sweeper:   sweeper,
		httpServer: &http.Server{
			Addr:           cfg.Proxy.ListenAddress,
			Handler:        buildHandler(p, cspStore, collector, logger),
			ReadTimeout:    cfg.Proxy.ReadTimeout,
			WriteTimeout:   cfg.Proxy.WriteTimeout,
			IdleTimeout:    cfg.Proxy.IdleTimeout,
			MaxHeaderBytes: cfg.Proxy.MaxHeaderBytes,
		},
	}
}

func buildHandler(p *pipeline.Pipeline, cspStore *cspreports.Store, collector *metrics.Collector, logger *logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/debug/csp", cspreports.NewHandler(cspStore, logger))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/", p)

	var handler http.Handler = mux
	handler = middleware.TimeoutMiddleware(30 * time.Second)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	return handler
}

// Start runs the retention sweeper and the HTTP server, and blocks until
// ctx is cancelled or SIGTERM/SIGINT is received.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		s.logger.Info("server: context cancelled, shutting down")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("server: received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the HTTP server, within the configured
// shutdown timeout, and stops the sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		cfg := s.store.Get()
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Proxy.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server: shutdown error", "error", err)
			shutdownErr = fmt.Errorf("server shutdown: %w", err)
		}

		s.sweeper.Stop()
		s.logger.Info("server: stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server's accept loop is active.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the server's top-level HTTP handler, for use in tests
// that don't want to bind a real listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

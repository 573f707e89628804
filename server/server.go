// Package server serves benchmark runs over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/weiihann/langbench/harness"
	"github.com/weiihann/langbench/metrics"
)

// GracefulShutdownTimeout bounds how long Start waits for in-flight requests.
const GracefulShutdownTimeout = 10 * time.Second

// RunFunc executes one benchmark run and returns its results.
type RunFunc func(ctx context.Context) ([]harness.Result, error)

// Response is the body returned by the benchmark endpoint.
type Response struct {
	Results   []harness.Result `json:"results"`
	Timestamp string           `json:"timestamp"`
}

// Server wraps an echo instance exposing the benchmark API.
type Server struct {
	Echo *echo.Echo

	cfg     *Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	run     RunFunc

	// runMu serializes runs so measurements never overlap.
	runMu sync.Mutex
}

// NewServer wires middlewares and routes onto e.
func NewServer(
	e *echo.Echo,
	cfg *Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	run RunFunc,
) *Server {
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:    e,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		run:     run,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(requestLogger(s.logger, s.metrics))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowHeaders: []string{echo.HeaderContentType},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
}

func (s *Server) setupRoutes() {
	s.Echo.GET("/api/benchmark", s.handleBenchmark)
	s.Echo.GET("/healthz", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	if s.cfg.StaticDir != "" {
		s.Echo.Static("/", s.cfg.StaticDir)
	}
}

func (s *Server) handleBenchmark(c echo.Context) error {
	ctx := c.Request().Context()

	results, err := s.runExclusive(ctx)

	s.metrics.ObserveSuiteRun(err)

	if err != nil {
		s.logger.ErrorContext(ctx, "benchmark run failed",
			slog.String("error", err.Error()),
		)

		return echo.NewHTTPError(http.StatusInternalServerError, "benchmark run failed")
	}

	s.metrics.ObserveResults(results)

	if results == nil {
		results = []harness.Result{}
	}

	return c.JSON(http.StatusOK, Response{
		Results:   results,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) runExclusive(ctx context.Context) ([]harness.Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("request abandoned before run: %w", err)
	}

	return s.run(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", slog.String("port", s.cfg.Port))

		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	s.logger.Info("server stopped")

	return nil
}

// Package api serves draw statistics and play generation over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/lotofacil/internal/model"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 10 * time.Second
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
)

// Store is the persistence the API reads and writes.
type Store interface {
	ListDraws(ctx context.Context, last int) ([]model.DrawRecord, error)
	SaveBatch(ctx context.Context, batch model.Batch) (string, error)
	GetBatch(ctx context.Context, id string) (model.Batch, error)
}

// Options configures a Server.
type Options struct {
	Addr    string
	Store   Store
	Logger  zerolog.Logger
	Workers int
	// Seed returns the seed for a generation request without one.
	Seed func() int64
}

// Server is the HTTP API.
type Server struct {
	echo    *echo.Echo
	addr    string
	store   Store
	log     zerolog.Logger
	metrics *Metrics
	workers int
	seed    func() int64
}

// New builds a Server with routes and middleware registered.
func New(opts Options) *Server {
	addr := opts.Addr
	if addr == "" {
		addr = defaultAddr
	}
	seed := opts.Seed
	if seed == nil {
		seed = func() int64 { return time.Now().UnixNano() }
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = readTimeout
	e.Server.WriteTimeout = writeTimeout

	s := &Server{
		echo:    e,
		addr:    addr,
		store:   opts.Store,
		log:     opts.Logger,
		metrics: NewMetrics(),
		workers: opts.Workers,
		seed:    seed,
	}

	e.Use(middleware.Recover())
	e.Use(s.metrics.Middleware())
	e.Use(s.requestLogging())

	e.GET("/healthz", func(c echo.Context) error {
		return successResponse(c, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	s.registerRoutes(e.Group("/api"))
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

func (s *Server) requestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			req := c.Request()
			status := c.Response().Status
			event := s.log.Debug()
			if status >= http.StatusInternalServerError {
				event = s.log.Error()
			}
			event.Str("method", req.Method).
				Str("uri", req.RequestURI).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("http request")
			return err
		}
	}
}

// Package server exposes the solver over HTTP.
//
// Routes:
//
//	POST /v1/solve   solve a tabular MDP given as JSON
//	GET  /v1/health  liveness
//	GET  /metrics    prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeu5/value-iteration/export"
	"github.com/zeu5/value-iteration/solver"
	"github.com/zeu5/value-iteration/tabular"
)

type Config struct {
	Addr string
	// reject transition rows that are not probability distributions
	CheckDistributions bool
	// defaults for every solve, overridden by the fields of the request
	Solver *solver.Config
	Logger *slog.Logger
	// receives every solved record when set
	Sink export.Sink
}

func DefaultConfig() *Config {
	return &Config{
		Addr:               ":8080",
		CheckDistributions: true,
		Solver:             solver.DefaultConfig(),
	}
}

type Server struct {
	config   *Config
	engine   *gin.Engine
	registry *prometheus.Registry
	metrics  *metrics
	logger   *slog.Logger
}

type SolveResponse struct {
	Name string `json:"name"`
	export.Record
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func New(config *Config) *Server {
	if config.Solver == nil {
		config.Solver = solver.DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := prometheus.NewRegistry()

	s := &Server{
		config:   config,
		engine:   gin.New(),
		registry: registry,
		metrics:  newMetrics(registry),
		logger:   logger,
	}
	s.engine.Use(gin.Recovery(), s.logRequests)

	v1 := s.engine.Group("/v1")
	v1.POST("/solve", s.handleSolve)
	v1.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.engine,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("latency", time.Since(start)),
	)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleSolve(c *gin.Context) {
	d := &tabular.Definition{}
	if err := c.ShouldBindJSON(d); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := d.Validate(s.config.CheckDistributions); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	config := *s.config.Solver
	config.Logger = s.logger.With(slog.String("mdp", d.Name))
	d.Apply(&config)

	start := time.Now()
	result, err := solver.Solve(d.MDP(), &config)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, solver.ErrInvalidConfiguration) || errors.Is(err, solver.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	s.metrics.solveDuration.Observe(time.Since(start).Seconds())
	s.metrics.sweeps.Observe(float64(result.Iterations))
	s.metrics.solvesTotal.WithLabelValues(strconv.FormatBool(result.Converged)).Inc()

	record := export.NewRecord(result)
	if err := checkFinite(record); err != nil {
		s.logger.Error("solve diverged", slog.String("mdp", d.Name), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	if s.config.Sink != nil && d.Name != "" {
		if err := s.config.Sink.Write(c.Request.Context(), d.Name, record); err != nil {
			s.logger.Error("storing result", slog.String("mdp", d.Name), slog.String("error", err.Error()))
		}
	}
	c.JSON(http.StatusOK, SolveResponse{Name: d.Name, Record: *record})
}

// checkFinite rejects records that cannot be encoded as JSON
func checkFinite(r *export.Record) error {
	bad := func(v float64) bool { return math.IsInf(v, 0) || math.IsNaN(v) }
	if bad(r.Delta) {
		return fmt.Errorf("solution is not finite: delta %v", r.Delta)
	}
	for state, v := range r.Values {
		if bad(v) {
			return fmt.Errorf("solution is not finite: V(%s) = %v", state, v)
		}
	}
	return nil
}

// Package server exposes the docfmt pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-docfmt/internal/config"
	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/cascade"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
)

// Option customises a Server.
type Option func(*Server)

func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = logger.OrNop(l)
	}
}

// WithResolver sets the cascade used to expand presets in
// GET /api/v1/presets/:id.
func WithResolver(r *cascade.Resolver) Option {
	return func(s *Server) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithMetrics replaces the metrics set.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Server is the HTTP front end with lifecycle management.
type Server struct {
	cfg      config.ServerConfig
	orch     *orchestrator.Orchestrator
	resolver *cascade.Resolver
	logger   logger.Logger
	metrics  *Metrics
	apiDoc   *openapi3.T
	router   *gin.Engine
	http     *http.Server
}

// New builds the router. The embedded OpenAPI document is validated here so
// a broken contract fails at startup.
func New(ctx context.Context, cfg config.ServerConfig, orch *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	s := &Server{
		cfg:      cfg,
		orch:     orch,
		resolver: cascade.New(),
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.cfg.MaxUploadBytes <= 0 {
		s.cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}

	doc, err := APIDocument(ctx)
	if err != nil {
		return nil, err
	}
	s.apiDoc = doc

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.router.Use(recoveryMiddleware(s.logger), loggerMiddleware(s.logger), s.metrics.middleware())
	s.routes()

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", s.metrics.handler())
	s.router.GET("/openapi.json", s.openapi)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/generate", s.generate)
		v1.POST("/resolve", s.resolve)
		v1.GET("/presets", s.listPresets)
		v1.GET("/presets/:id", s.showPreset)
	}
}

// Handler returns the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			logger.String("address", s.http.Addr),
			logger.Duration("read_timeout", s.http.ReadTimeout),
			logger.Duration("write_timeout", s.http.WriteTimeout),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.logger.Info("shutting down HTTP server", logger.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func loggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}

func recoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					logger.Any("panic", rec),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "internal server error",
					Code:  CodeInternal,
				})
			}
		}()
		c.Next()
	}
}

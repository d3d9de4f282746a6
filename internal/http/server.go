// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/dapnet/dbgateway/internal/auth/http"
	authUseCase "github.com/dapnet/dbgateway/internal/auth/usecase"
	"github.com/dapnet/dbgateway/internal/config"
	"github.com/dapnet/dbgateway/internal/metrics"
	resourceHTTP "github.com/dapnet/dbgateway/internal/resource/http"
)

// Pinger checks that the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *gin.Engine
	store  Pinger
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	store Pinger,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		store:  store,
		logger: logger,
		server: newHTTPServer(host, port, nil),
	}
}

// newHTTPServer applies the timeouts shared by the gateway and the metrics listener.
func newHTTPServer(host string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// listen blocks serving srv until it is shut down. A graceful shutdown is not an error.
func listen(srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("starting "+name, slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

// SetupRouter builds the gin engine with the middleware chain and the explicit routing table
// of every resource handler. Rate limiter cleanup goroutines are bound to ctx.
//
// Middleware order:
// 1. Recovery, request id, request logging, CORS, HTTP metrics
// 2. Per-IP rate limit in front of credential verification
// 3. Authentication (stores the principal in the request context)
// 4. Per-principal rate limit
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	credentialUseCase authUseCase.CredentialUseCase,
	resources []*resourceHTTP.ResourceHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Unauthenticated probes
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/")
	if cfg.RateLimitAuthEnabled {
		api.Use(authHTTP.AuthRateLimitMiddleware(ctx, cfg.RateLimitAuthRequestsPerSec, cfg.RateLimitAuthBurst, s.logger))
	}
	api.Use(authHTTP.AuthenticationMiddleware(credentialUseCase, authHTTP.AuthenticationOptions{
		Realm:          cfg.AuthRealm,
		AllowAnonymous: cfg.AuthAllowAnonymous,
	}, s.logger))
	if cfg.RateLimitEnabled {
		api.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	for _, handler := range resources {
		registerResourceRoutes(api, handler)
		s.logger.Debug("registered resource routes", slog.String("resource", handler.Definition().Name))
	}

	s.router = router
	s.server.Handler = router
}

// registerResourceRoutes adds the routing table of one resource. The names route is
// registered as a static segment so it takes precedence over /:id.
func registerResourceRoutes(group *gin.RouterGroup, handler *resourceHTTP.ResourceHandler) {
	definition := handler.Definition()
	resource := group.Group("/" + definition.Name)

	resource.GET("", handler.ListHandler)
	resource.PUT("", handler.PutHandler)
	if definition.NamesRoute != "" {
		resource.GET("/"+definition.NamesRoute, handler.NamesHandler)
	}
	resource.GET("/:id", handler.GetHandler)
	resource.DELETE("/:id", handler.DeleteHandler)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		return fmt.Errorf("router is not configured")
	}

	return listen(s.server, "http server", s.logger)
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness without touching the document store.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the document store answers.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"couchdb": "error"},
		})
		return
	}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"couchdb": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"couchdb": "ok"},
	})
}

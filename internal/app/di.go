// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authService "github.com/dapnet/dbgateway/internal/auth/service"
	authUseCase "github.com/dapnet/dbgateway/internal/auth/usecase"
	"github.com/dapnet/dbgateway/internal/config"
	"github.com/dapnet/dbgateway/internal/couchdb"
	"github.com/dapnet/dbgateway/internal/http"
	"github.com/dapnet/dbgateway/internal/metrics"
	resourceHTTP "github.com/dapnet/dbgateway/internal/resource/http"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	storeMetrics    metrics.StoreMetrics
	couchDBClient   *couchdb.Client

	// Auth
	passwordService   authService.PasswordService
	credentialRepo    authUseCase.CredentialRepository
	roleRepo          authUseCase.RoleRepository
	credentialUseCase authUseCase.CredentialUseCase
	authorizer        authUseCase.Authorizer

	// Resources
	resourceHandlers []*resourceHTTP.ResourceHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	storeMetricsInit      sync.Once
	couchDBClientInit     sync.Once
	passwordServiceInit   sync.Once
	credentialRepoInit    sync.Once
	roleRepoInit          sync.Once
	credentialUseCaseInit sync.Once
	authorizerInit        sync.Once
	resourceHandlersInit  sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is returned
// when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// StoreMetrics returns the document store metrics recorder. A no-op recorder is returned
// when metrics are disabled.
func (c *Container) StoreMetrics() (metrics.StoreMetrics, error) {
	var err error
	c.storeMetricsInit.Do(func() {
		c.storeMetrics, err = c.initStoreMetrics()
		if err != nil {
			c.initErrors["storeMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storeMetrics"]; exists {
		return nil, storedErr
	}
	return c.storeMetrics, nil
}

// CouchDBClient returns the document store client.
func (c *Container) CouchDBClient() (*couchdb.Client, error) {
	var err error
	c.couchDBClientInit.Do(func() {
		c.couchDBClient, err = c.initCouchDBClient()
		if err != nil {
			c.initErrors["couchDBClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["couchDBClient"]; exists {
		return nil, storedErr
	}
	return c.couchDBClient, nil
}

// HTTPServer returns the HTTP server instance with its router configured.
// Rate limiter cleanup goroutines are bound to ctx.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMetricsProvider creates the Prometheus backed provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initStoreMetrics creates the document store metrics recorder.
func (c *Container) initStoreMetrics() (metrics.StoreMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for store metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpStoreMetrics(), nil
	}
	return metrics.NewStoreMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initCouchDBClient creates the document store client with its circuit breaker.
func (c *Container) initCouchDBClient() (*couchdb.Client, error) {
	if c.config.DBHost == "" {
		return nil, fmt.Errorf("document store host is not configured")
	}

	storeMetrics, err := c.StoreMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get store metrics for couchdb client: %w", err)
	}

	return couchdb.NewClient(couchdb.Config{
		BaseURL:  c.config.DBHost,
		User:     c.config.DBUser,
		Password: c.config.DBPassword,
		Timeout:  c.config.DBTimeout,
		Breaker: &couchdb.BreakerConfig{
			Enabled:   c.config.CircuitBreakerEnabled,
			Name:      "couchdb",
			Threshold: c.config.CircuitBreakerThreshold,
			Timeout:   c.config.CircuitBreakerTimeout,
		},
		Metrics: storeMetrics,
	}, c.Logger()), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	client, err := c.CouchDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get couchdb client for http server: %w", err)
	}

	credentialUseCase, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for http server: %w", err)
	}

	handlers, err := c.ResourceHandlers()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource handlers for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(client, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, credentialUseCase, handlers, provider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dapnet/dbgateway/internal/config"
)

func testConfig(dbHost string) *config.Config {
	return &config.Config{
		ServerHost:               "localhost",
		ServerPort:               0,
		ShutdownTimeout:          time.Second,
		DBHost:                   dbHost,
		DBTimeout:                time.Second,
		DBUsersCollection:        "users",
		DBRolesCollection:        "roles",
		DBTransmittersCollection: "transmitters",
		LogLevel:                 "error",
		AuthRealm:                "dapnet",
		RateLimitEnabled:         true,
		RateLimitRequestsPerSec:  10,
		RateLimitBurst:           20,
		CircuitBreakerEnabled:    true,
		CircuitBreakerThreshold:  10,
		CircuitBreakerTimeout:    time.Second,
		MetricsEnabled:           false,
		MetricsNamespace:         "di_test",
	}
}

// TestNewContainer verifies that a new container can be created with a valid configuration.
func TestNewContainer(t *testing.T) {
	cfg := testConfig("http://localhost:5984")

	container := NewContainer(cfg)

	if container == nil {
		t.Fatal("expected non-nil container")
	}

	if container.Config() != cfg {
		t.Error("container config does not match provided config")
	}
}

// TestContainerLogger verifies that the logger can be retrieved from the container.
func TestContainerLogger(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "debug"})
	logger := container.Logger()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}

	// Calling Logger() again should return the same instance (singleton)
	if logger != container.Logger() {
		t.Error("expected same logger instance on multiple calls")
	}
}

// TestContainerLoggerDefaultLevel verifies that logger defaults to info level.
func TestContainerLoggerDefaultLevel(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "invalid"})
	logger := container.Logger()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info level to be enabled")
	}
}

// TestContainerMetricsDisabled verifies that disabled metrics yield no-op recorders and no servers.
func TestContainerMetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig("http://localhost:5984"))

	provider, err := container.MetricsProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != nil {
		t.Error("expected nil metrics provider when metrics are disabled")
	}

	businessMetrics, err := container.BusinessMetrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if businessMetrics == nil {
		t.Error("expected no-op business metrics")
	}

	storeMetrics, err := container.StoreMetrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storeMetrics == nil {
		t.Error("expected no-op store metrics")
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metricsServer != nil {
		t.Error("expected nil metrics server when metrics are disabled")
	}
}

// TestContainerMetricsEnabled verifies that the metrics stack is built once and shared.
func TestContainerMetricsEnabled(t *testing.T) {
	cfg := testConfig("http://localhost:5984")
	cfg.MetricsEnabled = true
	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider == nil {
		t.Fatal("expected metrics provider")
	}

	again, err := container.MetricsProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != again {
		t.Error("expected same metrics provider on multiple calls")
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metricsServer == nil {
		t.Error("expected metrics server when metrics are enabled")
	}

	if err := container.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

// TestContainerInitializationErrors verifies that initialization errors are cached and propagated.
func TestContainerInitializationErrors(t *testing.T) {
	container := NewContainer(testConfig(""))

	_, err1 := container.CouchDBClient()
	if err1 == nil {
		t.Fatal("expected error for missing document store host")
	}

	// The second call must return the same stored error
	_, err2 := container.CouchDBClient()
	if err2 == nil {
		t.Fatal("expected cached error on second call")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("expected identical errors, got %q and %q", err1, err2)
	}

	if _, err := container.CredentialUseCase(); err == nil {
		t.Error("expected credential use case to fail without a document store client")
	}
	if _, err := container.ResourceHandlers(); err == nil {
		t.Error("expected resource handlers to fail without a document store client")
	}
	if _, err := container.HTTPServer(context.Background()); err == nil {
		t.Error("expected http server to fail without a document store client")
	}
}

// TestContainerResourceHandlers verifies that one handler is built per resource definition.
func TestContainerResourceHandlers(t *testing.T) {
	container := NewContainer(testConfig("http://localhost:5984"))

	definitions := container.ResourceDefinitions()
	if len(definitions) != 2 {
		t.Fatalf("expected 2 resource definitions, got %d", len(definitions))
	}
	if definitions[0].Collection != "users" || definitions[1].Collection != "transmitters" {
		t.Errorf("unexpected collections: %q, %q", definitions[0].Collection, definitions[1].Collection)
	}

	handlers, err := container.ResourceHandlers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(handlers) != len(definitions) {
		t.Fatalf("expected %d handlers, got %d", len(definitions), len(handlers))
	}
	for i, handler := range handlers {
		if handler.Definition().Name != definitions[i].Name {
			t.Errorf("handler %d serves %q, expected %q", i, handler.Definition().Name, definitions[i].Name)
		}
	}
}

// TestContainerHTTPServer verifies that the assembled server answers health and readiness probes.
func TestContainerHTTPServer(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"couchdb":"Welcome"}`))
	}))
	defer store.Close()

	container := NewContainer(testConfig(store.URL))

	server, err := container.HTTPServer(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		server.GetHandler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	server.GetHandler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without credentials, got %d", w.Code)
	}

	if err := container.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

// TestContainerShutdownNothingInitialized verifies shutdown of an untouched container.
func TestContainerShutdownNothingInitialized(t *testing.T) {
	container := NewContainer(testConfig("http://localhost:5984"))

	if err := container.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ShutdownTimeout bounds the graceful shutdown of the servers.
	ShutdownTimeout time.Duration

	// DBHost is the base URL of the document store (e.g., "http://localhost:5984").
	DBHost string
	// DBUser is the service account used by the gateway to talk to the document store.
	DBUser string
	// DBPassword is the password of the service account.
	DBPassword string
	// DBTimeout bounds every single request to the document store.
	DBTimeout time.Duration
	// DBUsersCollection is the collection holding user records and credentials.
	DBUsersCollection string
	// DBRolesCollection is the collection holding role documents with their permissions.
	DBRolesCollection string
	// DBTransmittersCollection is the collection holding transmitter records.
	DBTransmittersCollection string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AuthAllowAnonymous lets requests without credentials through as the anonymous principal.
	AuthAllowAnonymous bool
	// AuthRealm is the realm announced in the WWW-Authenticate challenge.
	AuthRealm string

	// RateLimitEnabled indicates whether rate limiting for authenticated principals is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per principal.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for per-principal rate limiting.
	RateLimitBurst int

	// RateLimitAuthEnabled indicates whether per-IP rate limiting in front of authentication is enabled.
	RateLimitAuthEnabled bool
	// RateLimitAuthRequestsPerSec is the number of requests allowed per second per IP address.
	RateLimitAuthRequestsPerSec float64
	// RateLimitAuthBurst is the burst size for per-IP rate limiting.
	RateLimitAuthBurst int

	// CircuitBreakerEnabled indicates whether document store calls go through a circuit breaker.
	CircuitBreakerEnabled bool
	// CircuitBreakerThreshold is the minimum number of requests before the breaker may trip.
	CircuitBreakerThreshold int
	// CircuitBreakerTimeout is how long the breaker stays open before probing again.
	CircuitBreakerTimeout time.Duration

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	dbUser := env.GetString("DB_USER", "")
	dbPassword := env.GetString("DB_PASSWORD", "")

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),

		// Document store configuration
		DBHost:                   env.GetString("DB_HOST", "http://localhost:5984"),
		DBUser:                   dbUser,
		DBPassword:               dbPassword,
		DBTimeout:                env.GetDuration("DB_TIMEOUT_SECONDS", 10, time.Second),
		DBUsersCollection:        env.GetString("DB_USERS_COLLECTION", "users"),
		DBRolesCollection:        env.GetString("DB_ROLES_COLLECTION", "roles"),
		DBTransmittersCollection: env.GetString("DB_TRANSMITTERS_COLLECTION", "transmitters"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		AuthAllowAnonymous: env.GetBool("AUTH_ALLOW_ANONYMOUS", dbUser == "" || dbPassword == ""),
		AuthRealm:          env.GetString("AUTH_REALM", "dapnet"),

		// Rate Limiting (authenticated principals)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// Rate Limiting in front of authentication (IP-based)
		RateLimitAuthEnabled:        env.GetBool("RATE_LIMIT_AUTH_ENABLED", true),
		RateLimitAuthRequestsPerSec: env.GetFloat64("RATE_LIMIT_AUTH_REQUESTS_PER_SEC", 20.0),
		RateLimitAuthBurst:          env.GetInt("RATE_LIMIT_AUTH_BURST", 40),

		// Circuit breaker
		CircuitBreakerEnabled:   env.GetBool("CIRCUIT_BREAKER_ENABLED", true),
		CircuitBreakerThreshold: env.GetInt("CIRCUIT_BREAKER_THRESHOLD", 10),
		CircuitBreakerTimeout:   env.GetDuration("CIRCUIT_BREAKER_TIMEOUT_SECONDS", 30, time.Second),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "dbgateway"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// HasDBCredentials reports whether a service account is configured for the document store.
func (c *Config) HasDBCredentials() bool {
	return c.DBUser != "" && c.DBPassword != ""
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}

// Package config loads the API server and web frontend settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable with STORE_BACKEND.
// memory is volatile: posts are lost when the process exits.
// mongo and postgres persist across restarts.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config validation errors
var (
	// ErrInvalidPort is returned when a port is empty or not a number in 1-65535
	ErrInvalidPort = errors.New("port must be a number between 1 and 65535")
	// ErrUnknownBackend is returned when STORE_BACKEND is not memory, mongo or postgres
	ErrUnknownBackend = errors.New("unknown store backend")
	// ErrMissingMongoURI is returned when the mongo backend has no connection string
	ErrMissingMongoURI = errors.New("MONGO_URI is required for the mongo backend")
	// ErrMissingDatabaseURL is returned when the postgres backend has no DSN
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres backend")
	// ErrInvalidTimeout is returned when a timeout is not positive
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrMissingAPIURL is returned when the web frontend has no API endpoint
	ErrMissingAPIURL = errors.New("API_URL is required")
)

// ServerConfig holds the configuration for the GraphQL API server.
type ServerConfig struct {
	// Port is the listening port for the /graphql endpoint.
	Port string

	// Backend selects the Post Store implementation.
	Backend string

	// MongoURI, MongoDatabase and MongoCollection locate the posts collection.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// DatabaseURL is the postgres DSN used by the postgres backend.
	DatabaseURL string

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string

	// SeedSamplePosts creates a few sample posts at startup when the store is empty.
	SeedSamplePosts bool

	// StoreTimeout bounds connecting to and pinging the backing store at startup,
	// and mongo server selection afterwards. Keep it below the web APITimeout so an
	// outage reaches the page as STORAGE_UNAVAILABLE rather than a client timeout.
	StoreTimeout time.Duration
}

// WebConfig holds the configuration for the web frontend.
type WebConfig struct {
	// Port is the listening port for the posts page.
	Port string

	// APIURL is the GraphQL endpoint the data layer talks to.
	APIURL string

	// SessionSecret signs the flash message cookie.
	SessionSecret string

	// APITimeout bounds each request to the API.
	APITimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible default values.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:               "3000",
		Backend:            BackendMongo,
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "apollo-app",
		MongoCollection:    "posts",
		CORSAllowedOrigins: []string{"*"},
		StoreTimeout:       5 * time.Second,
	}
}

// DefaultWebConfig returns a WebConfig with sensible default values.
// SessionSecret is left empty; FromEnv fills in a development secret.
func DefaultWebConfig() WebConfig {
	return WebConfig{
		Port:       "8080",
		APIURL:     "http://localhost:3000/graphql",
		APITimeout: 10 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c ServerConfig) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return err
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: STORE_TIMEOUT_SECONDS got %v", ErrInvalidTimeout, c.StoreTimeout)
	}

	switch c.Backend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return ErrMissingMongoURI
		}
		if c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("%w: database and collection names are required", ErrMissingMongoURI)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	return nil
}

// Validate checks the configuration for invalid values.
func (c WebConfig) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return err
	}
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("%w: API_TIMEOUT_SECONDS got %v", ErrInvalidTimeout, c.APITimeout)
	}
	return nil
}

// ServerConfigFromEnv creates a ServerConfig from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - PORT: listening port (default: 3000)
//   - STORE_BACKEND: memory, mongo or postgres (default: mongo)
//   - MONGO_URI: mongo connection string (default: mongodb://localhost:27017)
//   - MONGO_DATABASE: mongo database (default: apollo-app)
//   - MONGO_COLLECTION: mongo collection (default: posts)
//   - DATABASE_URL: postgres DSN (no default)
//   - CORS_ALLOWED_ORIGINS: comma-separated origins (default: *)
//   - SEED_SAMPLE_POSTS: "true"/"1" to seed an empty store (default: false)
//   - STORE_TIMEOUT_SECONDS: store connect timeout (default: 5)
func ServerConfigFromEnv() ServerConfig {
	cfg := DefaultServerConfig()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.MongoDatabase = v
	}
	if v := os.Getenv("MONGO_COLLECTION"); v != "" {
		cfg.MongoCollection = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("SEED_SAMPLE_POSTS"); v != "" {
		cfg.SeedSamplePosts = v == "true" || v == "1"
	}
	cfg.StoreTimeout = secondsFromEnv("STORE_TIMEOUT_SECONDS", cfg.StoreTimeout)

	return cfg
}

// WebConfigFromEnv creates a WebConfig from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - WEB_PORT: listening port (default: 8080)
//   - API_URL: GraphQL endpoint (default: http://localhost:3000/graphql)
//   - SESSION_SECRET: cookie signing secret, at least 32 bytes (default: development secret)
//   - API_TIMEOUT_SECONDS: API request timeout (default: 10)
func WebConfigFromEnv() WebConfig {
	cfg := DefaultWebConfig()

	if v := os.Getenv("WEB_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, using insecure development secret")
		cfg.SessionSecret = devSessionSecret
	}
	cfg.APITimeout = secondsFromEnv("API_TIMEOUT_SECONDS", cfg.APITimeout)

	return cfg
}

const devSessionSecret = "postboard-development-session-secret"

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w: got %q", ErrInvalidPort, port)
	}
	return nil
}

func secondsFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid timeout value, using default",
			"key", key,
			"value", v,
			"default_seconds", int(def.Seconds()),
			"error", err,
		)
		return def
	}
	return time.Duration(n) * time.Second
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host         string
	Port         string
	Env          string   // "development", "production", "testing"
	CORSOrigins  []string // empty allows every origin
	AdminKeyHash string   // bcrypt hash; empty leaves writes open
	Metrics      bool

	// Upload rate limit, per client IP
	UploadRateLimit  int
	UploadRateWindow time.Duration

	// Catalog store
	StoreBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost      string
	ValkeyPort      string
	ValkeyPassword  string
	ValkeyDB        int
	CatalogCache    bool
	CatalogCacheTTL time.Duration

	// S3-compatible object storage for icon uploads
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Source repository for committed assets
	GitHubToken      string
	GitHubOwner      string
	GitHubRepo       string
	GitHubBranch     string
	GitHubPathPrefix string
	GitHubAPIURL     string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file (ENV_FILE, default ".env")
// is loaded first when present; variables already set in the environment
// win. Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	envFile := envOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		Host:         envOrDefault("APP_HOST", "0.0.0.0"),
		Port:         envOrDefault("APP_PORT", "8080"),
		Env:          envOrDefault("APP_ENV", "development"),
		CORSOrigins:  splitList(os.Getenv("CORS_ORIGINS")),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),

		StoreBackend: strings.ToLower(envOrDefault("STORE_BACKEND", BackendPostgres)),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "portfolio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "portfolio"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:      os.Getenv("GITHUB_OWNER"),
		GitHubRepo:       os.Getenv("GITHUB_REPO"),
		GitHubBranch:     envOrDefault("GITHUB_BRANCH", "main"),
		GitHubPathPrefix: envOrDefault("GITHUB_PATH_PREFIX", "assets/icons/"),
		GitHubAPIURL:     os.Getenv("GITHUB_API_URL"),
	}

	var err error
	if cfg.Metrics, err = envBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.CatalogCache, err = envBool("CATALOG_CACHE", true); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = envDuration("CATALOG_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ValkeyDB, err = envInt("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.UploadRateLimit, err = envInt("UPLOAD_RATE_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.UploadRateLimit < 1 {
		return nil, fmt.Errorf("UPLOAD_RATE_LIMIT: must be at least 1, got %d", cfg.UploadRateLimit)
	}
	if cfg.UploadRateWindow, err = envDuration("UPLOAD_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, cfg.StoreBackend)
	}

	if cfg.Env == "production" {
		if cfg.StoreBackend == BackendPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CacheEnabled reports whether catalog lists should be cached in Valkey.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != "" && c.CatalogCache
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envBool accepts on/off in addition to strconv.ParseBool's spellings.
func envBool(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return fallback, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid non-negative integer %q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the tea-registry (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Env      string // "development" or "production"
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Session struct {
		CookieName string
		TTL        time.Duration
	}
	Storage struct {
		Dir           string
		SigningSecret string
		SignedURLTTL  time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present (never overrides real env vars).
// The storage signing secret has no fallback: signed document URLs must not
// be forgeable with a known default, so Load fails without it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.Env = getEnv("APP_ENV", "development")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "tea_registry")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Session.CookieName = getEnv("SESSION_COOKIE", "tea_session")
	cfg.Session.TTL = parseDuration(getEnv("SESSION_TTL", "1h"), time.Hour)

	cfg.Storage.Dir = getEnv("STORAGE_DIR", "./data/storage")
	cfg.Storage.SigningSecret = os.Getenv("STORAGE_SIGNING_SECRET")
	if cfg.Storage.SigningSecret == "" {
		return nil, fmt.Errorf("STORAGE_SIGNING_SECRET is required")
	}
	cfg.Storage.SignedURLTTL = parseDuration(getEnv("SIGNED_URL_TTL", "1h"), time.Hour)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings
// (secure session cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

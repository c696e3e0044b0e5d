package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Events    EventsConfig
	Feed      FeedConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Secure      bool   // Send HSTS header
	Environment string // "development", "production", "test"
	Debug       bool
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	AccessTTL time.Duration
}

// EventsConfig configures relationship and post event publishing.
// An empty URL disables publishing.
type EventsConfig struct {
	NatsURL       string
	SubjectPrefix string
}

type FeedConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type RateLimitConfig struct {
	PerMinute int
}

// TelemetryConfig points tracing at an OTLP gRPC collector. Tracing is off
// when the endpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string
	Insecure     bool
	ServiceName  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (e EventsConfig) Enabled() bool {
	return e.NatsURL != ""
}

const devJWTSecret = "friendfeed-dev-secret-change-me"

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			Secure:      getEnvBool("SERVER_SECURE", false),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvBool("DEBUG", false),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "friendfeed"),
			Password: getEnv("DB_PASSWORD", "friendfeed"),
			DBName:   getEnv("DB_NAME", "friendfeed"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			AccessTTL: getEnvDuration("JWT_ACCESS_TTL", 30*time.Minute),
		},
		Events: EventsConfig{
			NatsURL:       getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "social"),
		},
		Feed: FeedConfig{
			DefaultLimit: getEnvInt("FEED_DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvInt("FEED_MAX_LIMIT", 100),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:     getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "friendfeed"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.Server.Environment == "production" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}
	if cfg.Feed.MaxLimit <= 0 {
		cfg.Feed.MaxLimit = 100
	}
	if cfg.Feed.DefaultLimit <= 0 || cfg.Feed.DefaultLimit > cfg.Feed.MaxLimit {
		cfg.Feed.DefaultLimit = min(20, cfg.Feed.MaxLimit)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration

	// Database configuration. An empty DatabaseURL runs the API on the
	// in-memory store only.
	DatabaseURL      string
	DBMaxOpenConns   int
	DBConnectTimeout time.Duration
	DBIdleTimeout    time.Duration

	// Reconnection to the database after it becomes unreachable
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
	ReconnectMaxAttempts int

	// Timezone used for day boundaries and time-of-day insights
	Timezone string

	// Redis configuration (rate limiting); empty disables it
	RedisURL string

	// Sessions and shared reports
	SessionTTL  time.Duration
	ShareSecret string
	ShareTTL    time.Duration

	// Report archive
	ReportBucket string
	AWSRegion    string
	S3Endpoint   string

	// Logging
	LogLevel  string
	LogFormat string

	CORSOrigins []string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	l := &loader{}

	cfg := &Config{
		Env:             env,
		ServerHost:      l.String("SERVER_HOST", "0.0.0.0"),
		ServerPort:      l.String("SERVER_PORT", "8080"),
		ShutdownTimeout: l.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseURL:      l.String("DATABASE_URL", ""),
		DBMaxOpenConns:   l.Int("DB_MAX_OPEN_CONNS", 20),
		DBConnectTimeout: l.Duration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DBIdleTimeout:    l.Duration("DB_IDLE_TIMEOUT", 30*time.Second),

		ReconnectBaseDelay:   l.Duration("RECONNECT_BASE_DELAY", time.Second),
		ReconnectMaxDelay:    l.Duration("RECONNECT_MAX_DELAY", time.Minute),
		ReconnectMaxAttempts: l.Int("RECONNECT_MAX_ATTEMPTS", 10),

		Timezone: l.String("TIMEZONE", "Local"),

		RedisURL: l.String("REDIS_URL", ""),

		SessionTTL:  l.Duration("SESSION_TTL", 7*24*time.Hour),
		ShareSecret: l.String("SHARE_SECRET", ""),
		ShareTTL:    l.Duration("SHARE_TTL", 7*24*time.Hour),

		ReportBucket: l.String("REPORT_BUCKET", ""),
		AWSRegion:    l.String("AWS_REGION", "us-east-1"),
		S3Endpoint:   l.String("S3_ENDPOINT", ""),

		LogLevel:  l.String("LOG_LEVEL", defaultLogLevel(env)),
		LogFormat: l.String("LOG_FORMAT", defaultLogFormat(env)),

		CORSOrigins: l.List("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	if cfg.ShareSecret == "" && env != Production {
		cfg.ShareSecret = "development-share-secret"
	}

	if len(l.errs) > 0 {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, joinErrors(l.errs))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Location resolves Timezone, defaulting to the process's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func defaultLogLevel(env Environment) string {
	if env == Development {
		return "debug"
	}
	return "info"
}

func defaultLogFormat(env Environment) string {
	if env == Development {
		return "console"
	}
	return "json"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

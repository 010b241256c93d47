package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "\n")
}

func joinErrors(errs []error) error {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		if v, ok := err.(ValidationError); ok {
			out = append(out, v)
			continue
		}
		out = append(out, ValidationError{Field: "config", Message: err.Error()})
	}
	return out
}

// ValidateConfig checks the configuration for the environment it was loaded in
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		add("SERVER_PORT", "must be a port number, got %q", cfg.ServerPort)
	}

	if cfg.DBMaxOpenConns <= 0 {
		add("DB_MAX_OPEN_CONNS", "must be positive")
	}
	positive := map[string]time.Duration{
		"DB_CONNECT_TIMEOUT":   cfg.DBConnectTimeout,
		"DB_IDLE_TIMEOUT":      cfg.DBIdleTimeout,
		"RECONNECT_BASE_DELAY": cfg.ReconnectBaseDelay,
		"RECONNECT_MAX_DELAY":  cfg.ReconnectMaxDelay,
		"SESSION_TTL":          cfg.SessionTTL,
		"SHARE_TTL":            cfg.ShareTTL,
		"SHUTDOWN_TIMEOUT":     cfg.ShutdownTimeout,
	}
	for field, d := range positive {
		if d <= 0 {
			add(field, "must be positive")
		}
	}
	if cfg.ReconnectMaxDelay < cfg.ReconnectBaseDelay {
		add("RECONNECT_MAX_DELAY", "must not be less than RECONNECT_BASE_DELAY")
	}
	if cfg.ReconnectMaxAttempts <= 0 {
		add("RECONNECT_MAX_ATTEMPTS", "must be positive")
	}

	if _, err := cfg.Location(); err != nil {
		add("TIMEZONE", "unknown time zone %q", cfg.Timezone)
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		add("LOG_FORMAT", "must be json or console, got %q", cfg.LogFormat)
	}

	if cfg.Env == Production {
		// sensitive values must come from Docker secrets or the environment
		if cfg.ShareSecret == "" {
			add("SHARE_SECRET", "share_secret secret is required in production")
		} else if len(cfg.ShareSecret) < 32 {
			add("SHARE_SECRET", "must be at least 32 characters in production")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

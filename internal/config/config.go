package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// A missing required variable is fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := load(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

func load(lookup func(string) (string, bool)) (Config, error) {
	var errs []error

	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}
	duration := func(key, fallback string) time.Duration {
		raw := optional(key, fallback)
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		}
		return d
	}
	integer := func(key, fallback string) int {
		raw := optional(key, fallback)
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid non-negative integer %q", key, raw))
		}
		return n
	}
	float := func(key, fallback string) float64 {
		raw := optional(key, fallback)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid rate %q", key, raw))
		}
		return f
	}
	boolean := func(key string) bool {
		raw := optional(key, "false")
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		}
		return b
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN"),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		Auth: AuthConfig{
			JWTSecret:     optional("ADMIN_JWT_SECRET", ""),
			TokenDuration: duration("TOKEN_DURATION", "24h"),
		},
		Scheduler: SchedulerConfig{
			TickInterval: duration("TICK_INTERVAL", "60s"),
			StoreTimeout: duration("STORE_TIMEOUT", "5s"),
		},
		Notify: NotifyConfig{
			Timeout:       duration("NOTIFY_TIMEOUT", "10s"),
			Retries:       integer("NOTIFY_RETRIES", "2"),
			RatePerSecond: float("NOTIFY_RATE_PER_SECOND", "1"),
		},
		DryRun:   boolean("DRY_RUN"),
		LogLevel: optional("LOG_LEVEL", "info"),
	}

	tz := optional("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	cfg.Location = loc

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	return cfg, errors.Join(errs...)
}

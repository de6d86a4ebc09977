package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	Auth      AuthConfig
	Scheduler SchedulerConfig
	Notify    NotifyConfig
	Location  *time.Location
	DryRun    bool
	LogLevel  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

type SchedulerConfig struct {
	TickInterval time.Duration
	StoreTimeout time.Duration
}

type NotifyConfig struct {
	Timeout       time.Duration
	Retries       int
	RatePerSecond float64
}

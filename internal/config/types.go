package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName       string
	Port         string
	LogLevel     string
	StoreBackend string
	WriteTimeout time.Duration
	Turso        TursoConfig
	Redis        RedisConfig
	Slack        SlackConfig
	ProjectID    string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RedisConfig struct {
	URL string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether both a token and a channel are configured.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

package config

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultWriteTimeout = 10 * time.Second

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		Port:         getEnv("PORT"),
		DBName:       getEnvDefault("DB_NAME", "tennis.db"),
		LogLevel:     getEnvDefault("LOG_LEVEL", "info"),
		StoreBackend: getEnvDefault("STORE_BACKEND", BackendSQL),
		WriteTimeout: parseDuration("WRITE_TIMEOUT", defaultWriteTimeout),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Redis: RedisConfig{
			URL: getEnvDefault("REDIS_URL", "redis://localhost:6379"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		ProjectID: os.Getenv("GCP_PROJECT"),
	}
	return cfg
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn("Invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

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
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		ProjectID:     getEnv("GCP_PROJECT"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Queue: QueueConfig{
			MatchSize:     getEnvInt("MATCH_SIZE", 10),
			AcceptTimeout: getEnvDuration("ACCEPT_TIMEOUT", 30*time.Second),
			AuditInterval: getEnvDuration("AUDIT_INTERVAL", 5*time.Minute),
		},
		Draft: DraftConfig{
			PhaseTimeout:     getEnvDuration("DRAFT_PHASE_TIMEOUT", 30*time.Second),
			Sequence:         os.Getenv("DRAFT_SEQUENCE"),
			ChampionPoolSize: getEnvInt("CHAMPION_POOL_SIZE", 170),
		},
	}
	return cfg
}

// getEnvInt reads an optional integer env var, falling back to a default.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn("Invalid integer env var, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return parsed
}

// getEnvDuration reads an optional duration env var (e.g. "30s"), falling back to a default.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Warn("Invalid duration env var, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return parsed
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Ladder settings
	InactivityWarningSeconds  int // quiet time before a soft warning
	InactivityReactionSeconds int // reaction window before escalation
	InactivitySweepSeconds    int // how often the monitor scans live matches
	ExtraTimeGrants           int // per-side extra-time grants per match
	RunHistoryLimit           int // finished runs returned by the history endpoint

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/cardforge?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Ladder settings
		InactivityWarningSeconds:  getEnvInt("INACTIVITY_WARNING_SECONDS", 120),
		InactivityReactionSeconds: getEnvInt("INACTIVITY_REACTION_SECONDS", 60),
		InactivitySweepSeconds:    getEnvInt("INACTIVITY_SWEEP_SECONDS", 10),
		ExtraTimeGrants:           getEnvInt("EXTRA_TIME_GRANTS", 2),
		RunHistoryLimit:           getEnvInt("RUN_HISTORY_LIMIT", 5),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

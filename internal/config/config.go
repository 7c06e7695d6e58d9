package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Lead store backends.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Lead storage
	DatabaseURL string
	LeadsStore  string
	SQLitePath  string

	// Site presentation
	SiteName         string
	AgentName        string
	CalendarURL      string
	ZillowReviewsURL string

	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// Load reads configuration from environment variables
func Load() *Config {
	databaseURL := getEnv("DATABASE_URL", "")
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: databaseURL,
		LeadsStore:  resolveLeadsStore(getEnv("LEADS_STORE", ""), databaseURL),
		SQLitePath:  getEnv("SQLITE_PATH", "leads.db"),

		SiteName:         getEnv("SITE_NAME", "The Lodge Real Estate"),
		AgentName:        getEnv("AGENT_NAME", "Rasheed Lodge"),
		CalendarURL:      getEnv("CALENDAR_URL", "#"),
		ZillowReviewsURL: getEnv("ZILLOW_REVIEWS_URL", "#"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
	}
}

// resolveLeadsStore picks postgres whenever a DATABASE_URL is present and
// falls back to the local SQLite file otherwise.
func resolveLeadsStore(explicit, databaseURL string) string {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case StorePostgres:
		return StorePostgres
	case StoreSQLite:
		return StoreSQLite
	case StoreMemory:
		return StoreMemory
	}
	if strings.TrimSpace(databaseURL) != "" {
		return StorePostgres
	}
	return StoreSQLite
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config is the full service configuration, loaded from environment
// variables at startup.
type Config struct {
	Port             string
	Provider         string
	RedisAddr        string
	SessionTTL       time.Duration
	GeneratorTimeout time.Duration
	JWTSecret        string
	ReportDBPath     string
	ReportCacheTTL   time.Duration
	ExportSchedule   string
	ExportDir        string
	ExportEnabled    bool
}

// LoadConfig reads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Provider:         getEnvOrDefault("AI_PROVIDER", "gemini"),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		SessionTTL:       getEnvDuration("SESSION_TTL", time.Hour),
		GeneratorTimeout: getEnvDuration("GENERATOR_TIMEOUT", 30*time.Second),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ReportDBPath:     getEnvOrDefault("REPORT_DB_PATH", "interview_reports.db"),
		ReportCacheTTL:   getEnvDuration("REPORT_CACHE_TTL", 15*time.Minute),
		ExportSchedule:   getEnvOrDefault("REPORT_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:        getEnvOrDefault("REPORT_EXPORT_DIR", "./exports"),
		ExportEnabled:    getEnvBool("REPORT_EXPORT_ENABLED", false),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if config.GeneratorTimeout <= 0 {
		return errors.New("GENERATOR_TIMEOUT must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

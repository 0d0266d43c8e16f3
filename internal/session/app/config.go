package app

import (
	"os"
	"strconv"
	"time"

	"github.com/doormanhq/doorman/pkg/jwtx"
)

type Config struct {
	Issuer string // Required: issuer claim for session tokens

	DatabaseFile string        // Optional: path to SQLite database file (default: ./doorman.db)
	PepperFile   string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	KeyFile      string        // Optional: path to the Ed25519 signing key file (default: ./signing.key)
	AccessTTL    time.Duration // Optional: session token lifetime (default: 24h)

	BootstrapEmail    string // Optional: email for the first admin account
	BootstrapPassword string // Optional: password for the first admin account

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       os.Getenv("DOORMAN_ISSUER"),
		DatabaseFile: getEnvOrDefault("DOORMAN_DATABASE_FILE", "doorman.db"),
		PepperFile:   getEnvOrDefault("DOORMAN_PEPPER_FILE", "pepper"),
		KeyFile:      getEnvOrDefault("DOORMAN_KEY_FILE", "signing.key"),
		AccessTTL: getEnvDurationOrDefault(
			"DOORMAN_ACCESS_TTL",
			jwtx.DefaultAccessTokenTTL,
		),
		BootstrapEmail:      os.Getenv("DOORMAN_BOOTSTRAP_EMAIL"),
		BootstrapPassword:   os.Getenv("DOORMAN_BOOTSTRAP_PASSWORD"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "doorman"
	}

	return cfg
}

// IsProduction reports whether the service runs in a production environment.
// Session cookies carry the Secure attribute only when this is true, so local
// development over plain HTTP keeps working.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "24h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

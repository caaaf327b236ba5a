// Package config loads application configuration from the environment.
//
// The configuration is read once at startup and treated as immutable
// afterwards. A .env file in the working directory is honoured if present
// (godotenv), which keeps local development friction low, but real
// deployments set plain environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database file (":memory:" for tests).
	DBPath string

	// JWTSecret signs and verifies auth tokens. Mandatory — the process
	// refuses to start without it, because silently running with an empty
	// secret would make every token forgeable.
	JWTSecret string

	// Env is the environment mode. "development" includes error detail in
	// 500 responses; anything else hides it.
	Env string

	// CORSOrigin is the allowed origin for browser clients.
	CORSOrigin string
}

// Load reads the configuration from the environment.
// Returns an error if a mandatory variable is missing.
func Load() (*Config, error) {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnvInt("PORT", 5000),
		DBPath:     getEnvString("DB_PATH", "data/bloghub.db"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Env:        getEnvString("APP_ENV", "development"),
		CORSOrigin: getEnvString("CORS_ALLOWED_ORIGIN", "*"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: required environment variable JWT_SECRET is not set")
	}

	return cfg, nil
}

// IsDevelopment reports whether verbose error detail should be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

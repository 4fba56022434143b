package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string // Postgres; when empty, SQLite is used
	SQLitePath  string
	RedisURL    string // optional; enables rate limiting
	UploadDir   string

	// RequireMedia makes the file part of a post mandatory. When false, a
	// post without media gets the default image reference instead.
	RequireMedia bool
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/instaclawd.db"),
		RedisURL:     os.Getenv("REDIS_URL"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		RequireMedia: getEnv("REQUIRE_MEDIA", "false") == "true",
	}

	// In production, require an explicit database
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

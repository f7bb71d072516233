package config

import "os"

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string

	// Local store
	DatabasePath string
	BackupDir    string

	// AI gateway
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string

	// Finish catalog
	CatalogPath string

	// Optional shared cache
	RedisURL string

	// Single-workshop auth. Empty password hash disables auth outside
	// production.
	WorkshopName    string
	JWTSecret       string
	AppPasswordHash string

	// CORS
	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabasePath: getEnv("DATABASE_PATH", "marcenapp.db"),
		BackupDir:    getEnv("BACKUP_DIR", "backups"),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", ""),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", ""),

		CatalogPath: getEnv("CATALOG_PATH", "catalog.yaml"),

		RedisURL: getEnv("REDIS_URL", ""),

		WorkshopName:    getEnv("WORKSHOP_NAME", "oficina"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AppPasswordHash: getEnv("APP_PASSWORD_HASH", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
	}
}

// AuthEnabled reports whether the workshop login is configured.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.AppPasswordHash != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

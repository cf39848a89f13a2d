package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional, enables submission rate limiting)
	RedisURL string

	// Object storage configuration
	S3Bucket string
	S3Region string

	// OCR configuration
	OCREnabled bool

	// Fallback extension for uploads whose filename extension is not
	// png/jpg/jpeg
	DefaultImageExt string
}

// LoadConfig creates a new Config instance from environment variables,
// falling back to Docker secrets in production
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:      getValue("SERVER_PORT", "8080"),
		ServerHost:      getValue("SERVER_HOST", "0.0.0.0"),
		DBHost:          getValue("DB_HOST", "localhost"),
		DBPort:          getValue("DB_PORT", "5432"),
		DBUser:          getValue("DB_USER", "postgres"),
		DBPassword:      getValue("DB_PASSWORD", ""),
		DBName:          getValue("DB_NAME", "cookbook"),
		DBSSLMode:       getValue("DB_SSL_MODE", "disable"),
		RedisURL:        getValue("REDIS_URL", ""),
		S3Bucket:        getValue("S3_BUCKET_NAME", "cookbook-recipe-images"),
		S3Region:        getValue("AWS_REGION", "us-east-1"),
		OCREnabled:      getValue("OCR_ENABLED", "true") == "true",
		DefaultImageExt: getValue("DEFAULT_IMAGE_EXT", "jpg"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getValue reads a configuration value from the environment, then from the
// secrets directory, then falls back to the provided default
func getValue(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	if value := readSecret(strings.ToLower(name)); value != "" {
		return value
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the loaded configuration for values the pipelines
// cannot run without
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT is required")
	}
	if cfg.DBHost == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.S3Bucket == "" {
		errors = append(errors, "S3_BUCKET_NAME is required")
	}

	// In production the database password must come from the environment or
	// a Docker secret; development falls back to trust auth
	if IsProduction() && cfg.DBPassword == "" {
		errors = append(errors, "DB_PASSWORD is required in production")
	}

	switch cfg.DefaultImageExt {
	case "png", "jpg", "jpeg":
	default:
		errors = append(errors, fmt.Sprintf("DEFAULT_IMAGE_EXT must be png, jpg or jpeg, got %q", cfg.DefaultImageExt))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

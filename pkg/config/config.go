// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	// Input/output locations
	DataDir   string
	OutputDir string

	// Standardization settings
	CutoffYear int

	// Audit trail database file; empty disables the audit trail
	AuditDBPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Default values
		DataDir:     getEnv("DATA_DIR", "2025_Problem_C_Data"),
		OutputDir:   getEnv("OUTPUT_DIR", "standardized_data"),
		CutoffYear:  getEnvAsInt("CUTOFF_YEAR", 2020),
		AuditDBPath: getEnv("AUDIT_DB_PATH", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory is required")
	}

	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}

	if c.CutoffYear <= 0 {
		return errors.New("cutoff year must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

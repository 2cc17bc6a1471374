package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// isolate from whatever the host environment carries
	for _, key := range []string{"DATA_DIR", "OUTPUT_DIR", "CUTOFF_YEAR", "AUDIT_DB_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "2025_Problem_C_Data", cfg.DataDir)
	assert.Equal(t, "standardized_data", cfg.OutputDir)
	assert.Equal(t, 2020, cfg.CutoffYear)
	assert.Empty(t, cfg.AuditDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DATA_DIR", "/data/raw")
	t.Setenv("OUTPUT_DIR", "/data/out")
	t.Setenv("CUTOFF_YEAR", "2016")
	t.Setenv("AUDIT_DB_PATH", "/data/audit.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/data/raw", cfg.DataDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 2016, cfg.CutoffYear)
	assert.Equal(t, "/data/audit.db", cfg.AuditDBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("CUTOFF_YEAR", "not-a-year")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2020, cfg.CutoffYear)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, "data directory"},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, "output directory"},
		{"non-positive cutoff", func(c *Config) { c.CutoffYear = 0 }, "cutoff year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DataDir:    "data",
				OutputDir:  "out",
				CutoffYear: 2020,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultScanServiceURL, cfg.Services.Scan.BaseURL)
	assert.Equal(t, DefaultFixServiceURL, cfg.Services.Fix.BaseURL)
	assert.Equal(t, DefaultRagServiceURL, cfg.Services.Rag.BaseURL)
	assert.Equal(t, DefaultParallelTimeout, cfg.Workflow.ParallelTimeout.Std())
	assert.Equal(t, DefaultQueryLimit, cfg.Workflow.QueryLimit)
	assert.NotEmpty(t, cfg.Workflow.ResultsFolder)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
logger:
  level: debug
services:
  scan:
    base_url: http://scan.internal:9001
  rag:
    base_url: http://rag.internal:9003
workflow:
  query_limit: 10
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "http://scan.internal:9001", cfg.Services.Scan.BaseURL)
	assert.Equal(t, "http://rag.internal:9003", cfg.Services.Rag.BaseURL)
	// unset directives still fall back to defaults
	assert.Equal(t, DefaultFixServiceURL, cfg.Services.Fix.BaseURL)
	assert.Equal(t, DefaultParallelTimeout, cfg.Workflow.ParallelTimeout.Std())
	assert.Equal(t, 10, cfg.Workflow.QueryLimit)
}

func TestLoadConfigDurationFields(t *testing.T) {
	content := `
http_client:
  retry_wait_time: 2s
  timeout: 30s
workflow:
  parallel_timeout: 5m
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.HttpClient.RetryWaitTime.Std())
	assert.Equal(t, 30*time.Second, cfg.HttpClient.Timeout.Std())
	assert.Equal(t, 5*time.Minute, cfg.Workflow.ParallelTimeout.Std())
}

func TestLoadConfigBareIntegerDurationsAreSeconds(t *testing.T) {
	content := `
workflow:
  parallel_timeout: 300
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, cfg.Workflow.ParallelTimeout.Std())
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	content := `
workflow:
  parallel_timeout: soon
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: [broken"), 0644))

	cfg, err := LoadConfig(path)

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "empty base url",
			mutate:  func(cfg *Config) { cfg.Services.Scan.BaseURL = "" },
			wantErr: "scan service base_url is empty",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(cfg *Config) { cfg.Services.Fix.BaseURL = "ftp://fix.internal" },
			wantErr: "must use http or https",
		},
		{
			name:    "non-positive parallel timeout",
			mutate:  func(cfg *Config) { cfg.Workflow.ParallelTimeout = 0 },
			wantErr: "parallel_timeout must be positive",
		},
		{
			name:    "non-positive query limit",
			mutate:  func(cfg *Config) { cfg.Workflow.QueryLimit = -1 },
			wantErr: "query_limit must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfigNil(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
}

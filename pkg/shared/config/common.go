package config

import (
	"crypto/tls"
	"time"
)

const (
	// DefaultParallelTimeout bounds both first-phase work units in parallel mode.
	DefaultParallelTimeout = 600 * time.Second

	// DefaultQueryLimit is the result limit attached to a rule query when the
	// caller does not supply one.
	DefaultQueryLimit = 5
)

// Default endpoints of the external services on a local deployment.
const (
	DefaultScanServiceURL = "http://localhost:8001"
	DefaultFixServiceURL  = "http://localhost:8002"
	DefaultRagServiceURL  = "http://localhost:8003"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// General base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		Timeout:          10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	baseConfig := DefaultHttpConfig()
	return RestyHttpClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

// DefaultConfig returns a configuration filled entirely from defaults, as if
// loaded from an empty file.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in every unset directive so downstream code never has
// to re-check for zero values.
func applyDefaults(cfg *Config) {
	if cfg.Services.Scan.BaseURL == "" {
		cfg.Services.Scan.BaseURL = DefaultScanServiceURL
	}
	if cfg.Services.Fix.BaseURL == "" {
		cfg.Services.Fix.BaseURL = DefaultFixServiceURL
	}
	if cfg.Services.Rag.BaseURL == "" {
		cfg.Services.Rag.BaseURL = DefaultRagServiceURL
	}
	if cfg.Workflow.ParallelTimeout <= 0 {
		cfg.Workflow.ParallelTimeout = Duration(DefaultParallelTimeout)
	}
	if cfg.Workflow.QueryLimit <= 0 {
		cfg.Workflow.QueryLimit = DefaultQueryLimit
	}
	if cfg.Workflow.ResultsFolder == "" {
		cfg.Workflow.ResultsFolder = GetFixflowResultsHome()
	}
}

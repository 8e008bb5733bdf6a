package config

import (
	"context"
	"strings"

	"github.com/caarlos0/env/v11"

	"gsearch-mcp/internal/utils/platformerrors"
)

// Transport values accepted by GSEARCH_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for the Google Custom Search MCP service
type Config struct {
	// Server - using GSEARCH_ prefix to avoid collisions
	Transport string `env:"GSEARCH_TRANSPORT" envDefault:"stdio"` // stdio or http
	HTTPHost  string `env:"GSEARCH_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort  string `env:"GSEARCH_HTTP_PORT" envDefault:"3000"`
	LogLevel  string `env:"GSEARCH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GSEARCH_LOG_FORMAT" envDefault:"json"` // json or console

	// Google Custom Search
	SearchEngineID       string `env:"GOOGLE_SEARCH_ENGINE_ID"`
	ServiceAccountFile   string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	ServiceAccountBase64 string `env:"GOOGLE_SERVICE_ACCOUNT_BASE64"`
	SearchEndpoint       string `env:"GSEARCH_ENDPOINT"` // override for tests/proxies; empty means the public API

	// HTTP Client Performance
	HTTPTimeout     int `env:"GSEARCH_HTTP_TIMEOUT" envDefault:"15"`
	MaxConnsPerHost int `env:"GSEARCH_MAX_CONNS_PER_HOST" envDefault:"50"`
	MaxIdleConns    int `env:"GSEARCH_MAX_IDLE_CONNS" envDefault:"100"`
	IdleConnTimeout int `env:"GSEARCH_IDLE_CONN_TIMEOUT" envDefault:"90"`

	// Retry Configuration. One attempt by default: a failed upstream call is
	// surfaced to the caller rather than retried.
	RetryMaxAttempts   int     `env:"GSEARCH_RETRY_MAX_ATTEMPTS" envDefault:"1"`
	RetryInitialDelay  int     `env:"GSEARCH_RETRY_INITIAL_DELAY" envDefault:"250"`
	RetryMaxDelay      int     `env:"GSEARCH_RETRY_MAX_DELAY" envDefault:"5000"`
	RetryBackoffFactor float64 `env:"GSEARCH_RETRY_BACKOFF_FACTOR" envDefault:"1.5"`

	// Circuit Breaker Configuration
	CBEnabled          bool `env:"GSEARCH_CB_ENABLED" envDefault:"true"`
	CBFailureThreshold int  `env:"GSEARCH_CB_FAILURE_THRESHOLD" envDefault:"15"`
	CBSuccessThreshold int  `env:"GSEARCH_CB_SUCCESS_THRESHOLD" envDefault:"5"`
	CBTimeout          int  `env:"GSEARCH_CB_TIMEOUT" envDefault:"45"`
	CBMaxHalfOpen      int  `env:"GSEARCH_CB_MAX_HALF_OPEN" envDefault:"10"`

	// Authentication (HTTP transport only)
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	Account     string `env:"ACCOUNT"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`
}

// LoadConfig loads configuration from environment variables and validates the
// parts that are fatal at startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	ctx := context.Background()

	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case TransportStdio, TransportHTTP:
		cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	default:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"GSEARCH_TRANSPORT must be \"stdio\" or \"http\"", nil,
			"8c1f5a2e-9d3b-4e6f-8a7c-2b4d6e8f0a1c")
	}

	if strings.TrimSpace(cfg.SearchEngineID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"GOOGLE_SEARCH_ENGINE_ID environment variable is required", nil,
			"3f9d2c4b-7a1e-4d5f-b6c8-9e0a1b2c3d4e")
	}

	if strings.TrimSpace(cfg.ServiceAccountFile) == "" && strings.TrimSpace(cfg.ServiceAccountBase64) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			"either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_BASE64 environment variable is required", nil,
			"a5b7c9d1-3e5f-4a6b-8c0d-2e4f6a8b0c1d")
	}

	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeConfiguration,
				"AUTH_ISSUER is required when AUTH_ENABLED is true", nil,
				"d2e4f6a8-0b1c-4d3e-9f5a-7b9c1d3e5f6a")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeConfiguration,
				"AUTH_JWKS_URL is required when AUTH_ENABLED is true", nil,
				"6a8b0c1d-2e3f-4a5b-8c9d-0e1f2a3b4c5d")
		}
	}

	return cfg, nil
}

// CredentialSource reports which service-account source is configured.
// Used for startup logging only; base64 wins when both are set.
func (c *Config) CredentialSource() string {
	if strings.TrimSpace(c.ServiceAccountBase64) != "" {
		return "base64-encoded"
	}
	return "file-based"
}

package infrastructure

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	domainsearch "gsearch-mcp/internal/domain/search"
	"gsearch-mcp/internal/infrastructure/auth"
	"gsearch-mcp/internal/infrastructure/config"
	"gsearch-mcp/internal/infrastructure/credentials"
	"gsearch-mcp/internal/infrastructure/googlesearch"
)

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Service account token source
	ProvideTokenSource,

	// Custom Search client
	ProvideSearchClient,

	// Auth validator
	ProvideAuthValidator,
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideTokenSource builds the oauth2 token source from the configured
// service account.
func ProvideTokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	return credentials.TokenSource(ctx, cfg)
}

// ProvideSearchClient provides the Custom Search client
func ProvideSearchClient(cfg *config.Config, tokenSource oauth2.TokenSource) domainsearch.SearchClient {
	return googlesearch.NewClient(googlesearch.ClientConfig{
		SearchEngineID: cfg.SearchEngineID,
		Endpoint:       cfg.SearchEndpoint,

		HTTPTimeout:     time.Duration(cfg.HTTPTimeout) * time.Second,
		MaxConnsPerHost: cfg.MaxConnsPerHost,
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: time.Duration(cfg.IdleConnTimeout) * time.Second,

		RetryMaxAttempts:   cfg.RetryMaxAttempts,
		RetryInitialDelay:  time.Duration(cfg.RetryInitialDelay) * time.Millisecond,
		RetryMaxDelay:      time.Duration(cfg.RetryMaxDelay) * time.Millisecond,
		RetryBackoffFactor: cfg.RetryBackoffFactor,

		CBEnabled:          cfg.CBEnabled,
		CBFailureThreshold: cfg.CBFailureThreshold,
		CBSuccessThreshold: cfg.CBSuccessThreshold,
		CBTimeout:          time.Duration(cfg.CBTimeout) * time.Second,
		CBMaxHalfOpen:      cfg.CBMaxHalfOpen,
	}, tokenSource)
}

// ProvideAuthValidator provides the auth validator
func ProvideAuthValidator(ctx context.Context, cfg *config.Config) (*auth.Validator, error) {
	logger := log.Logger
	return auth.NewValidator(ctx, cfg, logger)
}

package googlesearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	domainsearch "gsearch-mcp/internal/domain/search"
	"gsearch-mcp/internal/infrastructure/metrics"
	"gsearch-mcp/internal/utils/platformerrors"
)

const (
	customSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

	// The Custom Search API serves at most 10 items per request; larger
	// requested counts are clamped at this call site, not rejected.
	maxResultsPerRequest = 10
)

// ClientConfig captures the knobs exposed to operators for the search client.
type ClientConfig struct {
	SearchEngineID string
	Endpoint       string // override for tests/proxies; empty means the public API

	// HTTP Client Settings
	HTTPTimeout     time.Duration
	MaxConnsPerHost int
	MaxIdleConns    int
	IdleConnTimeout time.Duration

	// Retry Settings
	RetryMaxAttempts   int
	RetryInitialDelay  time.Duration
	RetryMaxDelay      time.Duration
	RetryBackoffFactor float64

	// Circuit Breaker Settings
	CBEnabled          bool
	CBFailureThreshold int
	CBSuccessThreshold int
	CBTimeout          time.Duration
	CBMaxHalfOpen      int
}

// Client implements domainsearch.SearchClient against the Custom Search JSON API.
type Client struct {
	cfg         ClientConfig
	http        *resty.Client
	retryConfig RetryConfig
	breaker     *CircuitBreaker
}

var _ domainsearch.SearchClient = (*Client)(nil)

// NewClient wires an authenticated HTTP client for the Custom Search API.
// Every request carries a bearer token minted by the given token source.
func NewClient(cfg ClientConfig, tokenSource oauth2.TokenSource) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = customSearchEndpoint
	}

	httpTimeout := 15 * time.Second
	if cfg.HTTPTimeout > 0 {
		httpTimeout = cfg.HTTPTimeout
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 100 // match Go default
	}
	maxConnsPerHost := cfg.MaxConnsPerHost
	if maxConnsPerHost == 0 {
		maxConnsPerHost = 50
	}
	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = 90 * time.Second // match Go default
	}
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     maxConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		DisableKeepAlives:   false,
		ForceAttemptHTTP2:   true,
	}

	httpClient := resty.New().
		SetHeader("User-Agent", "GSearch-MCP/1.0").
		SetTimeout(httpTimeout).
		SetRetryCount(0).
		SetTransport(&oauth2.Transport{
			Source: tokenSource,
			Base:   transport,
		})

	retryConfig := DefaultRetryConfig()
	if cfg.RetryMaxAttempts > 0 {
		retryConfig.MaxAttempts = cfg.RetryMaxAttempts
	}
	if cfg.RetryInitialDelay > 0 {
		retryConfig.InitialDelay = cfg.RetryInitialDelay
	}
	if cfg.RetryMaxDelay > 0 {
		retryConfig.MaxDelay = cfg.RetryMaxDelay
	}
	if cfg.RetryBackoffFactor > 0 {
		retryConfig.BackoffFactor = cfg.RetryBackoffFactor
	}

	cbConfig := DefaultCircuitBreakerConfig()
	cbConfig.Enabled = cfg.CBEnabled
	if cfg.CBFailureThreshold > 0 {
		cbConfig.FailureThreshold = cfg.CBFailureThreshold
	}
	if cfg.CBSuccessThreshold > 0 {
		cbConfig.SuccessThreshold = cfg.CBSuccessThreshold
	}
	if cfg.CBTimeout > 0 {
		cbConfig.Timeout = cfg.CBTimeout
	}
	if cfg.CBMaxHalfOpen > 0 {
		cbConfig.MaxHalfOpenCalls = cfg.CBMaxHalfOpen
	}

	return &Client{
		cfg:         cfg,
		http:        httpClient,
		retryConfig: retryConfig,
		breaker:     NewCircuitBreaker(cbConfig),
	}
}

// Search queries the Custom Search API and returns the normalized response.
// numResults is the caller's requested count; the upstream num parameter is
// clamped to the API's per-request maximum of 10.
func (c *Client) Search(ctx context.Context, query string, numResults int) (*domainsearch.SearchResponse, error) {
	if !c.breaker.allowRequest() {
		log.Error().Str("service", "google").Msg("google circuit breaker is open, skipping")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"Custom Search is temporarily unavailable (circuit breaker open)", nil,
			"7c9d1e3f-5a6b-4c8d-9e0f-2a4b6c8d0e1f")
	}

	startTime := time.Now()
	defer func() {
		metrics.RecordExternalProviderLatency("google", time.Since(startTime).Seconds())
		metrics.SetCircuitBreakerState("google", c.breaker.GetState().String())
	}()

	num := numResults
	if num > maxResultsPerRequest {
		num = maxResultsPerRequest
	}

	log.Debug().
		Str("service", "google").
		Str("query", query).
		Int("requested", numResults).
		Int("num", num).
		Msg("Custom Search request")

	rawPtr, err := WithRetry(ctx, c.retryConfig, "google_search", func() (*rawSearchResponse, error) {
		var raw rawSearchResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("q", query).
			SetQueryParam("cx", c.cfg.SearchEngineID).
			SetQueryParam("num", strconv.Itoa(num)).
			SetResult(&raw).
			Get(c.cfg.Endpoint)

		if err != nil {
			log.Error().Err(err).Str("service", "google").Str("endpoint", c.cfg.Endpoint).Msg("failed to query Custom Search API")
			return nil, fmt.Errorf("failed to query Custom Search API: %w", err)
		}

		if resp.IsError() {
			log.Error().Int("status", resp.StatusCode()).Str("service", "google").Str("response", resp.String()).Msg("Custom Search API error")
			return nil, fmt.Errorf("Custom Search API error (status %d): %s", resp.StatusCode(), resp.String())
		}

		return &raw, nil
	})

	opErr := err
	var result *domainsearch.SearchResponse
	if opErr == nil {
		result, opErr = normalizeResponse(ctx, rawPtr)
	}

	c.breaker.recordResult("google_search", opErr)

	if opErr != nil {
		log.Error().Err(opErr).Str("service", "google").Str("query", query).Msg("google search failed")

		var platformErr *platformerrors.PlatformError
		if errors.As(opErr, &platformErr) {
			return nil, platformErr
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"Custom Search request failed", opErr,
			"1f3a5b7c-9d0e-4f2a-8b4c-6d8e0f2a4b5c")
	}

	log.Info().
		Str("service", "google").
		Str("query", query).
		Int("result_count", len(result.Results)).
		Int64("total_results", result.TotalResults).
		Msg("Custom Search completed")

	return result, nil
}

// BreakerState exposes the circuit breaker state for readiness reporting.
func (c *Client) BreakerState() CircuitState {
	return c.breaker.GetState()
}

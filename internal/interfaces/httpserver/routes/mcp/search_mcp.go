package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	domainsearch "gsearch-mcp/internal/domain/search"
	"gsearch-mcp/internal/infrastructure/metrics"
)

// Tool key constants
const (
	ToolKeyGoogleSearch = "google_search"
	ToolKeyClearCache   = "clear_search_cache"
)

const (
	defaultNumResults = 10
	minNumResults     = 1
	maxNumResults     = 100
)

// SearchArgs defines the arguments for the google_search tool
type SearchArgs struct {
	Query      string `json:"query"`
	NumResults *int   `json:"num_results,omitempty"`
}

// ClearCacheArgs defines the arguments for the clear_search_cache tool
type ClearCacheArgs struct{}

type clearCachePayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SearchMCP handles MCP tool registration for Custom Search tooling.
type SearchMCP struct {
	searchService *domainsearch.SearchService
}

// NewSearchMCP creates a new search MCP handler.
func NewSearchMCP(searchService *domainsearch.SearchService) *SearchMCP {
	return &SearchMCP{
		searchService: searchService,
	}
}

// RegisterTools registers search tools with the MCP server
func (s *SearchMCP) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeyGoogleSearch,
		Description: "Search the web via the Google Custom Search JSON API. Results are cached per (query, num_results) for the lifetime of the process.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SearchArgs) (*mcp.CallToolResult, domainsearch.SearchResponse, error) {
		startTime := time.Now()

		numResults := defaultNumResults
		if input.NumResults != nil {
			numResults = *input.NumResults
		}

		log.Info().
			Str("tool", ToolKeyGoogleSearch).
			Str("query", input.Query).
			Int("num_results", numResults).
			Msg("MCP tool call received")

		if strings.TrimSpace(input.Query) == "" {
			metrics.RecordToolCall(ToolKeyGoogleSearch, "invalid", time.Since(startTime).Seconds())
			return toolError("query must not be empty"), emptySearchPayload(), nil
		}
		if numResults < minNumResults || numResults > maxNumResults {
			metrics.RecordToolCall(ToolKeyGoogleSearch, "invalid", time.Since(startTime).Seconds())
			return toolError(fmt.Sprintf("num_results must be between %d and %d", minNumResults, maxNumResults)), emptySearchPayload(), nil
		}

		searchResp, err := s.searchService.Search(ctx, input.Query, numResults)
		if err != nil {
			log.Warn().Err(err).Str("tool", ToolKeyGoogleSearch).Str("query", input.Query).Msg("search service failed")
			metrics.RecordToolCall(ToolKeyGoogleSearch, "error", time.Since(startTime).Seconds())
			return toolError(err.Error()), emptySearchPayload(), nil
		}

		log.Debug().
			Str("tool", ToolKeyGoogleSearch).
			Str("query", input.Query).
			Int("result_count", len(searchResp.Results)).
			Int64("total_results", searchResp.TotalResults).
			Msg("google_search response ready")

		metrics.RecordToolCall(ToolKeyGoogleSearch, "success", time.Since(startTime).Seconds())
		return nil, *searchResp, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeyClearCache,
		Description: "Clear the in-memory search result cache. Succeeds even when the cache is already empty.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ClearCacheArgs) (*mcp.CallToolResult, clearCachePayload, error) {
		startTime := time.Now()

		log.Info().
			Str("tool", ToolKeyClearCache).
			Int("cached_entries", s.searchService.CacheSize()).
			Msg("MCP tool call received")

		s.searchService.ClearCache()

		metrics.RecordToolCall(ToolKeyClearCache, "success", time.Since(startTime).Seconds())
		return nil, clearCachePayload{
			Success: true,
			Message: "Search cache cleared",
		}, nil
	})
}

// toolError wraps a message in an error-flagged tool result so callers see a
// tool failure instead of a protocol failure.
func toolError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}

func emptySearchPayload() domainsearch.SearchResponse {
	return domainsearch.SearchResponse{Results: []domainsearch.SearchResult{}}
}

package search

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"gsearch-mcp/internal/infrastructure/metrics"
)

// SearchClient defines the upstream search operation required by the domain layer
type SearchClient interface {
	Search(ctx context.Context, query string, numResults int) (*SearchResponse, error)
}

// SearchService orchestrates cache-first search while remaining transport-agnostic.
// Concurrent identical requests share a single upstream call.
type SearchService struct {
	cache  *QueryCache
	client SearchClient
	group  singleflight.Group
}

// NewSearchService creates a new search service with an empty cache.
func NewSearchService(client SearchClient) *SearchService {
	return &SearchService{
		cache:  NewQueryCache(),
		client: client,
	}
}

// Search returns the cached response for (query, numResults) or fetches it
// from the upstream client on a miss. Failed upstream calls are never cached.
func (s *SearchService) Search(ctx context.Context, query string, numResults int) (*SearchResponse, error) {
	if resp, ok := s.cache.Get(query, numResults); ok {
		metrics.RecordCacheEvent("hit")
		log.Debug().
			Str("query", query).
			Int("num_results", numResults).
			Msg("search cache hit")
		return resp, nil
	}
	metrics.RecordCacheEvent("miss")

	key := fmt.Sprintf("%s:%d", query, numResults)
	result, err, shared := s.group.Do(key, func() (any, error) {
		// Double-check under singleflight: a concurrent caller may have
		// populated the cache while we waited for the group slot.
		if resp, ok := s.cache.Get(query, numResults); ok {
			return resp, nil
		}

		resp, err := s.client.Search(ctx, query, numResults)
		if err != nil {
			return nil, err
		}

		s.cache.Put(query, numResults, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.Debug().
			Str("query", query).
			Int("num_results", numResults).
			Msg("search request shared an in-flight upstream call")
	}

	return result.(*SearchResponse), nil
}

// ClearCache drops all cached responses. Idempotent.
func (s *SearchService) ClearCache() {
	s.cache.Clear()
	metrics.RecordCacheEvent("clear")
}

// CacheSize reports the number of cached query responses.
func (s *SearchService) CacheSize() int {
	return s.cache.Len()
}

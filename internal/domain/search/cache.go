package search

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// CacheKey identifies a cached response. Keyed by the requested result count,
// not the returned count: a query that asked for 5 results and got 2 still
// short-circuits the next identical request.
type CacheKey struct {
	Query      string
	NumResults int
}

// QueryCache is an unbounded in-memory cache of normalized search responses.
// It lives for the process lifetime; there is no TTL or eviction.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[CacheKey]*SearchResponse
}

// NewQueryCache creates an empty query cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[CacheKey]*SearchResponse),
	}
}

// Get returns the cached response for (query, numResults) if present.
func (c *QueryCache) Get(query string, numResults int) (*SearchResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.entries[CacheKey{Query: query, NumResults: numResults}]
	return resp, ok
}

// Put stores a response under (query, numResults). Last write wins.
func (c *QueryCache) Put(query string, numResults int, resp *SearchResponse) {
	c.mu.Lock()
	c.entries[CacheKey{Query: query, NumResults: numResults}] = resp
	c.mu.Unlock()

	log.Debug().
		Str("query", query).
		Int("num_results", numResults).
		Msg("search response cached")
}

// Clear drops all cached entries. Safe to call on an empty cache.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = make(map[CacheKey]*SearchResponse)
	c.mu.Unlock()

	log.Info().
		Int("removed", removed).
		Msg("search cache cleared")
}

// Len reports the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

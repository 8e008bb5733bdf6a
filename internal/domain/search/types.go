package search

// SearchResult is a single normalized result item. Fields missing upstream
// are carried as empty strings rather than omitted.
type SearchResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"display_link"`
}

// SearchResponse is the normalized response returned to tool callers.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults int64          `json:"total_results"`
	SearchTime   float64        `json:"search_time"`
}

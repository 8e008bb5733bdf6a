package googlesearch

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	domainsearch "gsearch-mcp/internal/domain/search"
	"gsearch-mcp/internal/utils/platformerrors"
)

// Wire shapes of the Custom Search JSON API. Every field is optional;
// totalResults arrives as a decimal string.
type rawSearchResponse struct {
	Items             []rawItem             `json:"items"`
	SearchInformation *rawSearchInformation `json:"searchInformation"`
}

type rawItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

type rawSearchInformation struct {
	TotalResults string      `json:"totalResults"`
	SearchTime   json.Number `json:"searchTime"`
}

// normalizeResponse maps a raw Custom Search payload onto the domain response.
// Missing fields default to empty strings or zero; item order is preserved and
// nothing is de-duplicated or rejected. A totalResults or searchTime value
// that cannot be coerced fails the whole call with a data-format error.
func normalizeResponse(ctx context.Context, raw *rawSearchResponse) (*domainsearch.SearchResponse, error) {
	resp := &domainsearch.SearchResponse{
		Results: make([]domainsearch.SearchResult, 0, len(raw.Items)),
	}

	for _, item := range raw.Items {
		resp.Results = append(resp.Results, domainsearch.SearchResult{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		})
	}

	if info := raw.SearchInformation; info != nil {
		if trimmed := strings.TrimSpace(info.TotalResults); trimmed != "" {
			total, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
					platformerrors.ErrorTypeDataFormat,
					"totalResults is not a valid integer: "+info.TotalResults, err,
					"5e7f9a1b-3c4d-4e5f-8a6b-0c2d4e6f8a1b")
			}
			resp.TotalResults = total
		}

		if info.SearchTime != "" {
			searchTime, err := info.SearchTime.Float64()
			if err != nil {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
					platformerrors.ErrorTypeDataFormat,
					"searchTime is not a valid number: "+info.SearchTime.String(), err,
					"9b1c3d5e-7f8a-4b2c-9d4e-6f8a0b2c4d5e")
			}
			resp.SearchTime = searchTime
		}
	}

	return resp, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	domainsearch "gsearch-mcp/internal/domain/search"
)

type stubSearchClient struct {
	calls int64
	resp  *domainsearch.SearchResponse
	err   error
}

func (s *stubSearchClient) Search(ctx context.Context, query string, numResults int) (*domainsearch.SearchResponse, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// newTestSession mounts the MCP route on a test HTTP server and connects
// a real client session through the streamable transport.
func newTestSession(t *testing.T, client domainsearch.SearchClient) *mcp.ClientSession {
	t.Helper()
	gin.SetMode(gin.TestMode)

	route := NewMCPRoute(NewSearchMCP(domainsearch.NewSearchService(client)))
	router := gin.New()
	route.RegisterRouter(router.Group("/v1"))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := mcpClient.Connect(context.Background(), &mcp.StreamableClientTransport{
		Endpoint:   srv.URL + "/v1/mcp",
		HTTPClient: srv.Client(),
	}, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func decodePayload[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return payload
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestGoogleSearchToolReturnsNormalizedPayload(t *testing.T) {
	client := &stubSearchClient{resp: &domainsearch.SearchResponse{
		Results: []domainsearch.SearchResult{
			{Title: "Go", Link: "https://go.dev", Snippet: "golang", DisplayLink: "go.dev"},
		},
		TotalResults: 12,
		SearchTime:   0.3,
	}}
	session := newTestSession(t, client)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeyGoogleSearch,
		Arguments: map[string]any{"query": "golang"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	payload := decodePayload[domainsearch.SearchResponse](t, result)
	if len(payload.Results) != 1 || payload.Results[0].Link != "https://go.dev" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.TotalResults != 12 {
		t.Fatalf("expected total_results 12, got %d", payload.TotalResults)
	}
}

func TestGoogleSearchToolRejectsEmptyQuery(t *testing.T) {
	client := &stubSearchClient{resp: &domainsearch.SearchResponse{}}
	session := newTestSession(t, client)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeyGoogleSearch,
		Arguments: map[string]any{"query": "   "},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected error result for empty query")
	}
	if !strings.Contains(resultText(result), "query must not be empty") {
		t.Fatalf("unexpected error text: %s", resultText(result))
	}
	if atomic.LoadInt64(&client.calls) != 0 {
		t.Fatalf("validation must reject before the upstream is consulted")
	}
}

func TestGoogleSearchToolRejectsOutOfRangeNumResults(t *testing.T) {
	client := &stubSearchClient{resp: &domainsearch.SearchResponse{}}
	session := newTestSession(t, client)

	for _, num := range []int{0, -1, 101} {
		result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      ToolKeyGoogleSearch,
			Arguments: map[string]any{"query": "golang", "num_results": num},
		})
		if err != nil {
			t.Fatalf("call tool (num=%d): %v", num, err)
		}
		if !result.IsError {
			t.Fatalf("expected error result for num_results=%d", num)
		}
		if !strings.Contains(resultText(result), "num_results must be between 1 and 100") {
			t.Fatalf("unexpected error text: %s", resultText(result))
		}
	}
	if atomic.LoadInt64(&client.calls) != 0 {
		t.Fatalf("validation must reject before the upstream is consulted")
	}
}

func TestGoogleSearchToolReportsUpstreamFailure(t *testing.T) {
	client := &stubSearchClient{err: fmt.Errorf("quota exceeded")}
	session := newTestSession(t, client)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeyGoogleSearch,
		Arguments: map[string]any{"query": "golang"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected error result for upstream failure")
	}
	if !strings.Contains(resultText(result), "quota exceeded") {
		t.Fatalf("unexpected error text: %s", resultText(result))
	}
}

func TestClearSearchCacheTool(t *testing.T) {
	client := &stubSearchClient{resp: &domainsearch.SearchResponse{
		Results:      []domainsearch.SearchResult{},
		TotalResults: 5,
	}}
	session := newTestSession(t, client)
	ctx := context.Background()

	// Clearing an empty cache succeeds.
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: ToolKeyClearCache})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	payload := decodePayload[clearCachePayload](t, result)
	if !payload.Success || payload.Message != "Search cache cleared" {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	// Populate the cache, clear it, and confirm the next search refetches.
	if _, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: ToolKeyGoogleSearch, Arguments: map[string]any{"query": "golang"},
	}); err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if _, err := session.CallTool(ctx, &mcp.CallToolParams{Name: ToolKeyClearCache}); err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if _, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: ToolKeyGoogleSearch, Arguments: map[string]any{"query": "golang"},
	}); err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if got := atomic.LoadInt64(&client.calls); got != 2 {
		t.Fatalf("expected refetch after cache clear, got %d upstream calls", got)
	}
}

func TestToolsListExposesBothTools(t *testing.T) {
	client := &stubSearchClient{resp: &domainsearch.SearchResponse{}}
	session := newTestSession(t, client)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	if !names[ToolKeyGoogleSearch] || !names[ToolKeyClearCache] {
		t.Fatalf("expected both tools registered, got %v", names)
	}
	if len(names) != 2 {
		t.Fatalf("expected exactly two tools, got %v", names)
	}
}

package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainsearch "gsearch-mcp/internal/domain/search"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	route := NewMCPRoute(NewSearchMCP(domainsearch.NewSearchService(&stubSearchClient{
		resp: &domainsearch.SearchResponse{},
	})))

	router := gin.New()
	route.RegisterRouter(router.Group("/v1"))
	return router
}

func postMCP(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMethodGuardRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	rec := postMCP(router, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}
}

func TestMethodGuardRejectsInvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := postMCP(router, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", rec.Code)
	}
}

func TestMethodGuardRejectsMissingMethod(t *testing.T) {
	router := newTestRouter(t)

	rec := postMCP(router, `{"jsonrpc":"2.0","id":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing method, got %d", rec.Code)
	}
}

func TestMethodGuardRejectsUnsupportedMethod(t *testing.T) {
	router := newTestRouter(t)

	rec := postMCP(router, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported method, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unsupported MCP method") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMethodGuardAllowsInitialize(t *testing.T) {
	router := newTestRouter(t)

	rec := postMCP(router, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.1"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for initialize, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodGuardAllowsToolsList(t *testing.T) {
	router := newTestRouter(t)

	rec := postMCP(router, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for tools/list, got %d: %s", rec.Code, rec.Body.String())
	}
}

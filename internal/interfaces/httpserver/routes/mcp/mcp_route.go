package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gsearch-mcp/internal/interfaces/httpserver/responses"
	"gsearch-mcp/internal/utils/platformerrors"
)

var allowedMCPMethods = map[string]bool{
	// Initialization / handshake
	"initialize":                true,
	"notifications/initialized": true,
	"ping":                      true,

	// Tools
	"tools/list": true,
	"tools/call": true,
}

type MCPRoute struct {
	searchMCP   *SearchMCP
	mcpServer   *mcp.Server
	httpHandler http.Handler
}

func NewMCPRoute(searchMCP *SearchMCP) *MCPRoute {
	impl := &mcp.Implementation{
		Name:    "google-custom-search",
		Version: "1.0.0",
	}
	server := mcp.NewServer(impl, nil)

	searchMCP.RegisterTools(server)

	return &MCPRoute{
		searchMCP: searchMCP,
		mcpServer: server,
		httpHandler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{Stateless: true}),
	}
}

func (route *MCPRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("/mcp",
		MCPMethodGuard(allowedMCPMethods),
		route.serveMCP,
	)
}

// RunStdio serves the MCP server over stdin/stdout until the context is
// cancelled or the client disconnects. Logging must go to stderr in this mode.
func (route *MCPRoute) RunStdio(ctx context.Context) error {
	return route.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// serveMCP streams Model Context Protocol responses using the underlying MCP server.
// @Summary MCP endpoint for tool execution
// @Description Handles Model Context Protocol (MCP) requests over HTTP. Supports MCP methods: initialize, ping, tools/list, tools/call.
// @Description
// @Description **Available Tools:**
// @Description - `google_search`: Web search via the Google Custom Search JSON API (params: query, num_results). Responses are cached per (query, num_results).
// @Description - `clear_search_cache`: Drop every cached search response.
// @Tags MCP API
// @Accept json
// @Produce text/event-stream
// @Param request body object true "MCP JSON-RPC request payload (e.g., {\"jsonrpc\":\"2.0\",\"method\":\"tools/list\",\"id\":1})"
// @Success 200 {string} string "Streamed MCP response in SSE format"
// @Failure 400 {object} responses.ErrorResponse "Invalid MCP request payload or unsupported method"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/mcp [post]
func (route *MCPRoute) serveMCP(reqCtx *gin.Context) {
	// Force acceptable content types for go-sdk streamable handler even if client omits Accept.
	reqCtx.Request.Header.Set("Accept", "application/json, text/event-stream")
	route.httpHandler.ServeHTTP(reqCtx.Writer, reqCtx.Request)
}

func MCPMethodGuard(allowedMethods map[string]bool) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		bodyBytes, err := io.ReadAll(reqCtx.Request.Body)
		if err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "failed to read MCP request body", "b3e5f7a9-1c2d-4e6f-8a0b-3c5d7e9f1a2b")
			return
		}
		_ = reqCtx.Request.Body.Close()

		if len(bodyBytes) == 0 {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "empty MCP request body", "4d6e8f0a-2b3c-4d5e-9f1a-5b7c9d1e3f4a")
			return
		}

		reqCtx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var payload struct {
			Method string `json:"method"`
		}

		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid MCP request payload", "8f0a2b4c-6d7e-4f8a-9b1c-7d9e1f3a5b6c")
			return
		}

		if payload.Method == "" {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "missing method field in MCP request", "2b4c6d8e-0f1a-4b3c-8d5e-9f1a3b5c7d8e")
			return
		}

		if !allowedMethods[payload.Method] {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "unsupported MCP method: "+payload.Method, "6d8e0f2a-4b5c-4d7e-8f9a-1b3c5d7e9f0a")
			return
		}

		reqCtx.Next()
	}
}

package httpserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gsearch-mcp/internal/infrastructure/auth"
	"gsearch-mcp/internal/infrastructure/config"
	"gsearch-mcp/internal/interfaces/httpserver/middlewares"
	"gsearch-mcp/internal/interfaces/httpserver/routes/mcp"
)

type HTTPServer struct {
	router        *gin.Engine
	config        *config.Config
	mcpRoute      *mcp.MCPRoute
	authValidator *auth.Validator
}

func NewHTTPServer(
	cfg *config.Config,
	mcpRoute *mcp.MCPRoute,
	authValidator *auth.Validator,
) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())
	router.Use(middlewares.MetricsRecorder())

	return &HTTPServer{
		router:        router,
		config:        cfg,
		mcpRoute:      mcpRoute,
		authValidator: authValidator,
	}
}

func (s *HTTPServer) setupRoutes() {
	// Health check endpoints
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "gsearch-mcp"})
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		if s.authValidator != nil && !s.authValidator.Ready() {
			c.JSON(503, gin.H{"status": "initializing", "service": "gsearch-mcp"})
			return
		}
		c.JSON(200, gin.H{"status": "ready", "service": "gsearch-mcp"})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register MCP routes. Auth guards the MCP surface only, never the
	// health probes or the metrics scrape.
	v1 := s.router.Group("/v1")
	if s.authValidator != nil {
		v1.Use(s.authValidator.Middleware())
	}
	s.mcpRoute.RegisterRouter(v1)
}

func (s *HTTPServer) Run() error {
	s.setupRoutes()
	addr := fmt.Sprintf("%s:%s", s.config.HTTPHost, s.config.HTTPPort)
	return s.router.Run(addr)
}

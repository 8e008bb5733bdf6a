package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"gsearch-mcp/internal/infrastructure/config"
	"gsearch-mcp/internal/infrastructure/logger"
	_ "gsearch-mcp/internal/infrastructure/metrics" // Register Prometheus metrics
	"gsearch-mcp/internal/interfaces/httpserver"
	"gsearch-mcp/internal/interfaces/httpserver/routes/mcp"
)

type Application struct {
	config     *config.Config
	httpServer *httpserver.HTTPServer
	mcpRoute   *mcp.MCPRoute
}

func init() {
	// Initialize logger with default settings
	logger.Init("info", "json")
}

// @title Google Custom Search MCP Service
// @version 1.0
// @description Model Context Protocol (MCP) tool server for the Google Custom Search JSON API.
// @BasePath /
func (app *Application) Start(ctx context.Context) error {
	switch app.config.Transport {
	case config.TransportHTTP:
		log.Info().
			Str("address", fmt.Sprintf("%s:%s", app.config.HTTPHost, app.config.HTTPPort)).
			Msg("HTTP transport listening")
		return app.httpServer.Run()
	default:
		log.Info().Msg("stdio transport listening")
		return app.mcpRoute.RunStdio(ctx)
	}
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Re-initialize logger with config settings
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("transport", cfg.Transport).
		Str("credential_source", cfg.CredentialSource()).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Google Custom Search MCP service")

	// Create application with dependency injection
	application, err := CreateApplication(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	// Start application
	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

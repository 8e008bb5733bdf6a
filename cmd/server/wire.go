//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"gsearch-mcp/internal/domain"
	"gsearch-mcp/internal/infrastructure"
	"gsearch-mcp/internal/interfaces"
	"gsearch-mcp/internal/interfaces/httpserver/routes"
)

func CreateApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		domain.DomainProvider,
		infrastructure.InfrastructureProvider,
		routes.RoutesProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}

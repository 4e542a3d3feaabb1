//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"todo-backend/pkg/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideTracer,
	ProvideRepository,
	ProvideService,
	ProvideTodoHandler,
	ProvideHealthHandler,
	ProvideVerifier,
	ProvideRouterOptions,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}

//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"pipeline-builder/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideEventBridgePublisher,
	ProvideEventBus,
	ProvideEventPublisher,
	ProvideDomainConfig,
	ProvidePipelineValidator,
	ProvideCatalog,
	ProvideEditorService,
	ProvidePipelineAnalyzer,
	ProvideValidationClient,
	ProvideSubmissionService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideCatalogWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}

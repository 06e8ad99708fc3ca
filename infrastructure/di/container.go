package di

import (
	"go.uber.org/zap"

	"pipeline-builder/application/commands/bus"
	querybus "pipeline-builder/application/queries/bus"
	"pipeline-builder/application/services"
	"pipeline-builder/infrastructure/catalogfile"
	"pipeline-builder/infrastructure/config"
	"pipeline-builder/infrastructure/messaging"
	"pipeline-builder/pkg/observability"
)

// Container holds all application dependencies. Metrics, Tracing and
// CatalogWatcher are nil when disabled.
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *observability.Collector
	Tracing        *observability.TracerProvider
	EventBus       *messaging.EventBus
	Editor         *services.EditorService
	Analyzer       *services.PipelineAnalyzer
	Submitter      *services.SubmissionService
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	CatalogWatcher *catalogfile.Watcher
}

package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"pipeline-builder/application/commands/bus"
	commandhandlers "pipeline-builder/application/commands/handlers"
	"pipeline-builder/application/ports"
	querybus "pipeline-builder/application/queries/bus"
	queryhandlers "pipeline-builder/application/queries/handlers"
	"pipeline-builder/application/services"
	"pipeline-builder/domain/catalog"
	domainconfig "pipeline-builder/domain/config"
	"pipeline-builder/domain/core/validators"
	"pipeline-builder/infrastructure/catalogfile"
	"pipeline-builder/infrastructure/config"
	"pipeline-builder/infrastructure/messaging"
	"pipeline-builder/infrastructure/messaging/eventbridge"
	"pipeline-builder/infrastructure/validation"
	"pipeline-builder/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = level
	}
	return zapCfg.Build()
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are off
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("pipeline_builder")
}

// ProvideTracerProvider installs the OpenTelemetry provider when tracing is
// enabled. The cleanup flushes pending spans.
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: observability.TracerName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TraceSampleRate,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTracer returns the tracer used by services and clients
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	if tp == nil {
		return observability.Tracer()
	}
	return tp.Tracer()
}

// ProvideEventBridgePublisher creates the EventBridge forwarder, or nil when
// no event bus is configured
func ProvideEventBridgePublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*eventbridge.Publisher, error) {
	if cfg.EventBusName == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return eventbridge.NewPublisher(
		awseventbridge.NewFromConfig(awsCfg),
		cfg.EventBusName,
		cfg.EventSource,
		logger,
	), nil
}

// ProvideEventBus creates the in-process event bus with its subscribers
func ProvideEventBus(
	logger *zap.Logger,
	metrics *observability.Collector,
	forwarder *eventbridge.Publisher,
) (*messaging.EventBus, error) {
	var forward []ports.EventPublisher
	if forwarder != nil {
		forward = append(forward, forwarder)
	}
	eventBus := messaging.NewEventBus(logger, forward...)

	if metrics != nil {
		if err := messaging.NewMetricsProjector(metrics).Register(eventBus); err != nil {
			return nil, err
		}
	}
	return eventBus, nil
}

// ProvideEventPublisher exposes the event bus as a publisher
func ProvideEventPublisher(eventBus *messaging.EventBus) ports.EventPublisher {
	return eventBus
}

// ProvideDomainConfig loads the canvas limits for the environment
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	domainCfg := domainconfig.LoadDomainConfig(cfg.Environment)
	if err := domainCfg.Validate(); err != nil {
		return nil, err
	}
	return domainCfg, nil
}

// ProvidePipelineValidator creates the validator shared by editor and analyzer
func ProvidePipelineValidator(domainCfg *domainconfig.DomainConfig) *validators.PipelineValidator {
	return validators.NewPipelineValidator(domainCfg)
}

// ProvideCatalog builds the node catalog, applying CATALOG_FILE when set
func ProvideCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	base := catalog.Default()
	if cfg.CatalogFile == "" {
		return base, nil
	}
	return catalogfile.Load(cfg.CatalogFile, base)
}

// ProvideEditorService creates the canvas editor
func ProvideEditorService(
	cat *catalog.Catalog,
	cfg *config.Config,
	validator *validators.PipelineValidator,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.EditorService {
	return services.NewEditorService(cat, cfg.Policy(), validator, publisher, logger)
}

// ProvidePipelineAnalyzer creates the validation service's analyzer
func ProvidePipelineAnalyzer(
	validator *validators.PipelineValidator,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	tracer trace.Tracer,
	logger *zap.Logger,
) *services.PipelineAnalyzer {
	return services.NewPipelineAnalyzer(validator, publisher, metrics, tracer, logger)
}

// ProvideValidationClient creates the HTTP client of the validation service
func ProvideValidationClient(cfg *config.Config, tracer trace.Tracer, logger *zap.Logger) ports.ValidationService {
	return validation.NewClient(validation.ClientConfig{
		Endpoint:     cfg.ValidationEndpoint,
		Timeout:      cfg.ValidationTimeout,
		MinRequests:  cfg.BreakerMinRequests,
		FailureRatio: cfg.BreakerFailureRatio,
		OpenTimeout:  cfg.BreakerOpenTimeout,
	}, logger, validation.WithTracer(tracer))
}

// ProvideSubmissionService creates the submission service
func ProvideSubmissionService(
	editor *services.EditorService,
	client ports.ValidationService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.SubmissionService {
	return services.NewSubmissionService(editor, client, metrics, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(editor *services.EditorService, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	if err := commandhandlers.NewCanvasHandlers(editor).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	editor *services.EditorService,
	submitter *services.SubmissionService,
	analyzer *services.PipelineAnalyzer,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	if err := queryhandlers.NewCanvasQueryHandlers(editor, submitter).Register(queryBus); err != nil {
		return nil, err
	}
	if err := queryhandlers.NewAnalysisQueryHandler(analyzer).Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideCatalogWatcher creates the catalog hot reloader. It is nil unless a
// catalog file is configured and watching is enabled or running in
// development. Lambda never watches.
func ProvideCatalogWatcher(cfg *config.Config, editor *services.EditorService, logger *zap.Logger) *catalogfile.Watcher {
	if cfg.IsLambda || cfg.CatalogFile == "" || !(cfg.WatchCatalog || cfg.IsDevelopment()) {
		return nil
	}
	return catalogfile.NewWatcher(cfg.CatalogFile, catalog.Default(), editor.SetCatalog, logger)
}

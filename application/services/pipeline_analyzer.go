package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"pipeline-builder/application/ports"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/core/validators"
	"pipeline-builder/domain/events"
	domainservices "pipeline-builder/domain/services"
	pkgerrors "pipeline-builder/pkg/errors"
	"pipeline-builder/pkg/observability"
	"pipeline-builder/pkg/utils"
)

// PipelineAnalyzer is the validation service's side of a submission. It
// implements ports.ValidationService in-process.
type PipelineAnalyzer struct {
	validator *validators.PipelineValidator
	publisher ports.EventPublisher
	metrics   *observability.Collector
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewPipelineAnalyzer creates an analyzer. publisher may be nil.
func NewPipelineAnalyzer(
	validator *validators.PipelineValidator,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	tracer trace.Tracer,
	logger *zap.Logger,
) *PipelineAnalyzer {
	if validator == nil {
		validator = validators.NewPipelineValidator(nil)
	}
	if tracer == nil {
		tracer = observability.Tracer()
	}
	return &PipelineAnalyzer{
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// Parse counts the nodes and edges of doc and checks that it is acyclic.
// Problems that still allow counting, such as edges naming unknown nodes, are
// returned in ParseResult.Error.
func (a *PipelineAnalyzer) Parse(ctx context.Context, doc aggregates.PipelineDocument) (*ports.ParseResult, error) {
	ctx, span := a.tracer.Start(ctx, "pipeline.analyze",
		trace.WithAttributes(
			attribute.Int("pipeline.num_nodes", doc.NumNodes()),
			attribute.Int("pipeline.num_edges", doc.NumEdges()),
		),
	)
	defer span.End()

	if err := utils.ValidateStruct(doc); err != nil {
		appErr := pkgerrors.NewUnprocessableError(err.Error())
		observability.RecordError(span, appErr)
		return nil, appErr
	}
	if err := a.validator.ValidateDocument(doc); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	analysis := domainservices.AnalyzePipeline(doc)
	span.SetAttributes(attribute.Bool("pipeline.is_dag", analysis.IsDAG))
	a.metrics.RecordAnalysis(analysis.NumNodes, analysis.IsDAG)

	result := &ports.ParseResult{
		NumNodes: analysis.NumNodes,
		NumEdges: analysis.NumEdges,
		IsDAG:    analysis.IsDAG,
		Error:    analysis.Error(),
	}

	if a.publisher != nil {
		event := events.NewPipelineAnalyzed(uuid.NewString(), result.NumNodes, result.NumEdges, result.IsDAG, result.Error, time.Now())
		if err := a.publisher.Publish(ctx, event); err != nil {
			a.logger.Warn("Failed to publish analysis event", zap.Error(pkgerrors.NewEventPublishError(err)))
		}
	}
	return result, nil
}

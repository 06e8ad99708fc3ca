package handlers

import (
	"context"
	"fmt"

	"pipeline-builder/application/ports"
	"pipeline-builder/application/queries"
	"pipeline-builder/application/queries/bus"
	"pipeline-builder/application/services"
)

// CanvasQueryHandlers answers editor queries
type CanvasQueryHandlers struct {
	editor    *services.EditorService
	submitter *services.SubmissionService
}

// NewCanvasQueryHandlers creates the editor query handlers
func NewCanvasQueryHandlers(editor *services.EditorService, submitter *services.SubmissionService) *CanvasQueryHandlers {
	return &CanvasQueryHandlers{editor: editor, submitter: submitter}
}

// Register binds every editor query to its handler
func (h *CanvasQueryHandlers) Register(b *bus.QueryBus) error {
	routes := []struct {
		query   bus.Query
		handler bus.QueryHandlerFunc
	}{
		{queries.GetCanvasQuery{}, h.getCanvas},
		{queries.GetNodeQuery{}, h.getNode},
		{queries.ListNodeTypesQuery{}, h.listNodeTypes},
		{queries.SubmitPipelineQuery{}, h.submitPipeline},
	}
	for _, r := range routes {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *CanvasQueryHandlers) getCanvas(context.Context, bus.Query) (interface{}, error) {
	return h.editor.Canvas(), nil
}

func (h *CanvasQueryHandlers) getNode(_ context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetNodeQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
	return h.editor.NodeView(query.NodeID)
}

func (h *CanvasQueryHandlers) listNodeTypes(context.Context, bus.Query) (interface{}, error) {
	return h.editor.NodeTypes(), nil
}

func (h *CanvasQueryHandlers) submitPipeline(ctx context.Context, _ bus.Query) (interface{}, error) {
	return h.submitter.Submit(ctx), nil
}

// AnalysisQueryHandler answers AnalyzePipelineQuery on the validation service
type AnalysisQueryHandler struct {
	analyzer ports.ValidationService
}

// NewAnalysisQueryHandler creates the analysis query handler
func NewAnalysisQueryHandler(analyzer ports.ValidationService) *AnalysisQueryHandler {
	return &AnalysisQueryHandler{analyzer: analyzer}
}

// Register binds AnalyzePipelineQuery to the handler
func (h *AnalysisQueryHandler) Register(b *bus.QueryBus) error {
	return b.Register(queries.AnalyzePipelineQuery{}, h)
}

// Handle implements bus.QueryHandler
func (h *AnalysisQueryHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.AnalyzePipelineQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
	return h.analyzer.Parse(ctx, query.Document)
}

package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pipeline-builder/application/ports"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/pkg/observability"
)

// Report is the outcome of one submission. Err is set when the pipeline could
// not be analysed; ServiceError carries a problem reported by the service
// alongside a successful analysis.
type Report struct {
	NumNodes     int    `json:"num_nodes"`
	NumEdges     int    `json:"num_edges"`
	IsDAG        bool   `json:"is_dag"`
	ServiceError string `json:"error,omitempty"`
	Err          error  `json:"-"`
}

// OK reports whether the service produced an analysis
func (r Report) OK() bool {
	return r.Err == nil
}

// Message renders the report as the text shown to the user
func (r Report) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("Error submitting pipeline: %v", r.Err)
	}
	dag := "No"
	if r.IsDAG {
		dag = "Yes"
	}
	msg := fmt.Sprintf("Pipeline Analysis Results:\n\nNumber of Nodes: %d\nNumber of Edges: %d\nIs DAG: %s",
		r.NumNodes, r.NumEdges, dag)
	if r.ServiceError != "" {
		msg += "\nError: " + r.ServiceError
	}
	return msg
}

// SubmissionService sends the current canvas to the validation service. The
// canvas is read once under the editor lock; the remote call runs without it
// so the graph stays editable and is never modified by a submission.
type SubmissionService struct {
	editor  *EditorService
	client  ports.ValidationService
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewSubmissionService creates a submission service
func NewSubmissionService(
	editor *EditorService,
	client ports.ValidationService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		editor:  editor,
		client:  client,
		metrics: metrics,
		logger:  logger,
	}
}

// Submit snapshots the canvas and asks the service to analyse it. Failures
// are reported in the returned Report, never as a panic or a canvas change.
func (s *SubmissionService) Submit(ctx context.Context) Report {
	start := time.Now()

	doc, err := s.editor.Snapshot()
	if err != nil {
		s.metrics.RecordSubmission(observability.OutcomeSnapshotError, time.Since(start))
		s.logger.Warn("Pipeline snapshot rejected", zap.Error(err))
		return Report{Err: err}
	}
	return s.SubmitDocument(ctx, doc)
}

// SubmitDocument submits an already serialized pipeline
func (s *SubmissionService) SubmitDocument(ctx context.Context, doc aggregates.PipelineDocument) Report {
	start := time.Now()

	res, err := s.client.Parse(ctx, doc)
	if err != nil {
		s.metrics.RecordSubmission(observability.OutcomeTransportError, time.Since(start))
		s.logger.Warn("Pipeline submission failed",
			zap.Int("nodes", doc.NumNodes()),
			zap.Int("edges", doc.NumEdges()),
			zap.Error(err),
		)
		return Report{Err: err}
	}

	outcome := observability.OutcomeOK
	if res.Error != "" {
		outcome = observability.OutcomeServiceError
	}
	s.metrics.RecordSubmission(outcome, time.Since(start))
	s.logger.Info("Pipeline analysed",
		zap.Int("num_nodes", res.NumNodes),
		zap.Int("num_edges", res.NumEdges),
		zap.Bool("is_dag", res.IsDAG),
		zap.String("service_error", res.Error),
	)

	return Report{
		NumNodes:     res.NumNodes,
		NumEdges:     res.NumEdges,
		IsDAG:        res.IsDAG,
		ServiceError: res.Error,
	}
}

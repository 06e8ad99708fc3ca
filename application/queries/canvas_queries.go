// Package queries defines the read operations of the editor and the
// validation service.
package queries

import (
	"pipeline-builder/domain/core/aggregates"
	pkgerrors "pipeline-builder/pkg/errors"
)

// GetCanvasQuery returns every node and edge
type GetCanvasQuery struct{}

// Validate validates the query
func (GetCanvasQuery) Validate() error { return nil }

// GetNodeQuery returns one node's presentation model
type GetNodeQuery struct {
	NodeID string
}

// Validate validates the query
func (q GetNodeQuery) Validate() error {
	if q.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// ListNodeTypesQuery returns the toolbar entries
type ListNodeTypesQuery struct{}

// Validate validates the query
func (ListNodeTypesQuery) Validate() error { return nil }

// SubmitPipelineQuery sends the canvas to the validation service and returns
// its report. The canvas is only read.
type SubmitPipelineQuery struct{}

// Validate validates the query
func (SubmitPipelineQuery) Validate() error { return nil }

// AnalyzePipelineQuery runs the validation service's analysis on a document
type AnalyzePipelineQuery struct {
	Document aggregates.PipelineDocument
}

// Validate validates the query
func (AnalyzePipelineQuery) Validate() error { return nil }

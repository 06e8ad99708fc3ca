package aggregates

import (
	"pipeline-builder/domain/core/valueobjects"
)

// PipelineDocument is the serialized graph exchanged with the validation
// service: {nodes: [...], edges: [...]}. Unknown fields are ignored on decode.
type PipelineDocument struct {
	Nodes []NodeRecord `json:"nodes" validate:"dive"`
	Edges []EdgeRecord `json:"edges" validate:"dive"`
}

// NodeRecord is one node of a PipelineDocument
type NodeRecord struct {
	ID       string                `json:"id" validate:"required"`
	Type     string                `json:"type"`
	Position valueobjects.Position `json:"position"`
	Data     map[string]any        `json:"data"`
}

// EdgeRecord is one edge of a PipelineDocument
type EdgeRecord struct {
	ID           string `json:"id"`
	Source       string `json:"source" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target" validate:"required"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// NumNodes returns the number of nodes in the document
func (d PipelineDocument) NumNodes() int {
	return len(d.Nodes)
}

// NumEdges returns the number of edges in the document
func (d PipelineDocument) NumEdges() int {
	return len(d.Edges)
}

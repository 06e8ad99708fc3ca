// Package commands defines the state-changing operations of the canvas.
package commands

import (
	"encoding/json"

	"pipeline-builder/domain/core/valueobjects"
	pkgerrors "pipeline-builder/pkg/errors"
	"pipeline-builder/pkg/utils"
)

func validate(cmd interface{}) error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// DropNodeCommand places a node described by drag data on the canvas.
// Payload is the JSON drag data, at least {"nodeType": "..."}.
type DropNodeCommand struct {
	Payload  json.RawMessage       `json:"payload" validate:"required"`
	Position valueobjects.Position `json:"position"`
	Data     map[string]any        `json:"data,omitempty"`
}

// Validate validates the command
func (c DropNodeCommand) Validate() error { return validate(c) }

// UpdateFieldCommand edits one field of a node
type UpdateFieldCommand struct {
	NodeID string `json:"nodeId" validate:"required"`
	Field  string `json:"field" validate:"required"`
	Value  any    `json:"value"`
}

// Validate validates the command
func (c UpdateFieldCommand) Validate() error { return validate(c) }

// MoveNodeCommand moves a node
type MoveNodeCommand struct {
	NodeID   string                `json:"nodeId" validate:"required"`
	Position valueobjects.Position `json:"position"`
}

// Validate validates the command
func (c MoveNodeCommand) Validate() error { return validate(c) }

// ConnectNodesCommand connects an output handle to an input handle
type ConnectNodesCommand struct {
	Source       string `json:"source" validate:"required"`
	SourceHandle string `json:"sourceHandle" validate:"required"`
	Target       string `json:"target" validate:"required"`
	TargetHandle string `json:"targetHandle" validate:"required"`
}

// Validate validates the command
func (c ConnectNodesCommand) Validate() error { return validate(c) }

// DeleteNodeCommand removes a node and its edges
type DeleteNodeCommand struct {
	NodeID string `json:"nodeId" validate:"required"`
}

// Validate validates the command
func (c DeleteNodeCommand) Validate() error { return validate(c) }

// DeleteEdgeCommand removes an edge
type DeleteEdgeCommand struct {
	EdgeID string `json:"edgeId" validate:"required"`
}

// Validate validates the command
func (c DeleteEdgeCommand) Validate() error { return validate(c) }

// ResetCanvasCommand clears the canvas
type ResetCanvasCommand struct{}

// Validate validates the command
func (ResetCanvasCommand) Validate() error { return nil }

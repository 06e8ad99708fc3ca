package handlers

import (
	"context"
	"fmt"

	"pipeline-builder/application/commands"
	"pipeline-builder/application/commands/bus"
	"pipeline-builder/application/services"
)

// CanvasHandlers executes canvas commands against the editor
type CanvasHandlers struct {
	editor *services.EditorService
}

// NewCanvasHandlers creates the canvas command handlers
func NewCanvasHandlers(editor *services.EditorService) *CanvasHandlers {
	return &CanvasHandlers{editor: editor}
}

// Register binds every canvas command to its handler
func (h *CanvasHandlers) Register(b *bus.CommandBus) error {
	routes := []struct {
		cmd     bus.Command
		handler bus.CommandHandlerFunc
	}{
		{commands.DropNodeCommand{}, h.dropNode},
		{commands.UpdateFieldCommand{}, h.updateField},
		{commands.MoveNodeCommand{}, h.moveNode},
		{commands.ConnectNodesCommand{}, h.connectNodes},
		{commands.DeleteNodeCommand{}, h.deleteNode},
		{commands.DeleteEdgeCommand{}, h.deleteEdge},
		{commands.ResetCanvasCommand{}, h.resetCanvas},
	}
	for _, r := range routes {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *CanvasHandlers) dropNode(ctx context.Context, c bus.Command) (bus.CommandResult, error) {
	cmd, ok := c.(commands.DropNodeCommand)
	if !ok {
		return bus.CommandResult{}, unexpected(c)
	}
	payload, err := services.ParseDropPayload(cmd.Payload)
	if err != nil {
		return bus.CommandResult{}, err
	}
	view, err := h.editor.AddNode(ctx, payload.NodeType, cmd.Position, cmd.Data)
	return bus.CommandResult{Data: view}, err
}

func (h *CanvasHandlers) updateField(ctx context.Context, c bus.Command) (bus.CommandResult, error) {
	cmd, ok := c.(commands.UpdateFieldCommand)
	if !ok {
		return bus.CommandResult{}, unexpected(c)
	}
	view, err := h.editor.EditField(ctx, cmd.NodeID, cmd.Field, cmd.Value)
	return bus.CommandResult{Data: view}, err
}

func (h *CanvasHandlers) moveNode(ctx context.Context, c bus.Command) (bus.CommandResult, error) {
	cmd, ok := c.(commands.MoveNodeCommand)
	if !ok {
		return bus.CommandResult{}, unexpected(c)
	}
	view, err := h.editor.MoveNode(ctx, cmd.NodeID, cmd.Position)
	return bus.CommandResult{Data: view}, err
}

func (h *CanvasHandlers) connectNodes(ctx context.Context, c bus.Command) (bus.CommandResult, error) {
	cmd, ok := c.(commands.ConnectNodesCommand)
	if !ok {
		return bus.CommandResult{}, unexpected(c)
	}
	edge, err := h.editor.Connect(ctx, cmd.Source, cmd.SourceHandle, cmd.Target, cmd.TargetHandle)
	return bus.CommandResult{Data: edge}, err
}

func (h *CanvasHandlers) deleteNode(ctx context.Context, c bus.Command) (bus.CommandResult, error) {
	cmd, ok := c.(commands.DeleteNodeCommand)
	if !ok {
		return bus.CommandResult{}, unexpected(c)
	}
	return bus.CommandResult{}, h.editor.DeleteNode(ctx, cmd.NodeID)
}

func (h *CanvasHandlers) deleteEdge(ctx context.Context, c bus.Command) (bus.CommandResult, error) {
	cmd, ok := c.(commands.DeleteEdgeCommand)
	if !ok {
		return bus.CommandResult{}, unexpected(c)
	}
	return bus.CommandResult{}, h.editor.DeleteEdge(ctx, cmd.EdgeID)
}

func (h *CanvasHandlers) resetCanvas(ctx context.Context, _ bus.Command) (bus.CommandResult, error) {
	return bus.CommandResult{}, h.editor.Reset(ctx)
}

func unexpected(c bus.Command) error {
	return fmt.Errorf("unexpected command type %T", c)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pipeline-builder/application/commands"
	"pipeline-builder/application/commands/bus"
	"pipeline-builder/application/queries"
	querybus "pipeline-builder/application/queries/bus"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/pkg/common"
	pkgerrors "pipeline-builder/pkg/errors"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// DropNodeRequest is the drag payload plus where it was dropped. The whole
// body is handed to the drop command, so {"nodeType": "..."} is all that is
// required.
type DropNodeRequest struct {
	Position valueobjects.Position `json:"position"`
	Data     map[string]any        `json:"data,omitempty"`
}

// UpdateFieldRequest carries the new value of one field
type UpdateFieldRequest struct {
	Value any `json:"value"`
}

// DropNode handles POST /canvas/nodes
func (h *NodeHandler) DropNode(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, common.DefaultMaxBodyBytes))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	var req DropNodeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.DropNodeCommand{
		Payload:  raw,
		Position: req.Position,
		Data:     req.Data,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusCreated, res.Data)
}

// GetNode handles GET /canvas/nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	view, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{NodeID: chi.URLParam(r, "nodeID")})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, view)
}

// UpdateField handles PATCH /canvas/nodes/{nodeID}/fields/{field}
func (h *NodeHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := common.DecodeJSON(w, r, &req, common.DefaultMaxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.UpdateFieldCommand{
		NodeID: chi.URLParam(r, "nodeID"),
		Field:  chi.URLParam(r, "field"),
		Value:  req.Value,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, res.Data)
}

// MoveNode handles PUT /canvas/nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var pos valueobjects.Position
	if err := common.DecodeJSON(w, r, &pos, common.DefaultMaxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.MoveNodeCommand{
		NodeID:   chi.URLParam(r, "nodeID"),
		Position: pos,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, res.Data)
}

// DeleteNode handles DELETE /canvas/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if _, err := h.commandBus.Send(r.Context(), commands.DeleteNodeCommand{NodeID: nodeID}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.logger.Debug("Node deleted", zap.String("nodeID", nodeID))
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pipeline-builder/application/commands"
	"pipeline-builder/application/commands/bus"
	"pipeline-builder/pkg/common"
	pkgerrors "pipeline-builder/pkg/errors"
)

// EdgeHandler handles edge-related HTTP requests
type EdgeHandler struct {
	commandBus *bus.CommandBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(commandBus *bus.CommandBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{
		commandBus: commandBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// ConnectRequest represents the request body for connecting two handles
type ConnectRequest struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// ConnectNodes handles POST /canvas/edges
func (h *EdgeHandler) ConnectNodes(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := common.DecodeJSON(w, r, &req, common.DefaultMaxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.ConnectNodesCommand{
		Source:       req.Source,
		SourceHandle: req.SourceHandle,
		Target:       req.Target,
		TargetHandle: req.TargetHandle,
	})
	if err != nil {
		h.logger.Debug("Connection rejected",
			zap.String("source", req.SourceHandle),
			zap.String("target", req.TargetHandle),
			zap.Error(err),
		)
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusCreated, res.Data)
}

// DeleteEdge handles DELETE /canvas/edges/{edgeID}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteEdgeCommand{EdgeID: chi.URLParam(r, "edgeID")}
	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

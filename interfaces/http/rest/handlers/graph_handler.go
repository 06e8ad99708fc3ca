package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pipeline-builder/application/commands"
	"pipeline-builder/application/commands/bus"
	"pipeline-builder/application/queries"
	querybus "pipeline-builder/application/queries/bus"
	"pipeline-builder/application/services"
	"pipeline-builder/pkg/common"
	pkgerrors "pipeline-builder/pkg/errors"
)

// GraphHandler serves whole-canvas operations
type GraphHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *GraphHandler {
	return &GraphHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// GetCanvas handles GET /canvas
func (h *GraphHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	canvas, err := h.queryBus.Ask(r.Context(), queries.GetCanvasQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, canvas)
}

// ListNodeTypes handles GET /node-types
func (h *GraphHandler) ListNodeTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.queryBus.Ask(r.Context(), queries.ListNodeTypesQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, types)
}

// Reset handles POST /canvas/reset
func (h *GraphHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.commandBus.Send(r.Context(), commands.ResetCanvasCommand{}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /canvas/submit. The report is returned on failure too,
// with the text the user is shown in message.
func (h *GraphHandler) Submit(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.SubmitPipelineQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	report := res.(services.Report)

	status := http.StatusOK
	if !report.OK() {
		status = pkgerrors.StatusOf(report.Err)
	}
	common.RespondWithMessage(w, r, status, report, report.Message())
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pipeline-builder/application/queries"
	querybus "pipeline-builder/application/queries/bus"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/pkg/common"
	pkgerrors "pipeline-builder/pkg/errors"
)

// PipelineHandler serves the validation service endpoints. Responses are not
// wrapped so existing clients can read them directly.
type PipelineHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// Ping handles GET /
func (h *PipelineHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{"Ping": "Pong"})
}

// Parse handles POST /pipelines/parse
func (h *PipelineHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var doc aggregates.PipelineDocument
	if err := common.DecodeJSON(w, r, &doc, common.DefaultMaxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewUnprocessableError(err.Error()))
		return
	}

	res, err := h.queryBus.Ask(r.Context(), queries.AnalyzePipelineQuery{Document: doc})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

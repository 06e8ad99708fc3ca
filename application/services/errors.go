package services

import (
	"errors"

	"pipeline-builder/domain/catalog"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
	pkgerrors "pipeline-builder/pkg/errors"
)

// translate maps domain sentinel errors onto application errors so the
// transport layer can pick a status code. Errors that already carry a type
// pass through unchanged.
func translate(err error) error {
	if err == nil || pkgerrors.IsAppError(err) {
		return err
	}
	var de *pkgerrors.DomainError
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, aggregates.ErrNodeNotFound):
		return pkgerrors.NewNotFoundError("node").WithCause(err)
	case errors.Is(err, aggregates.ErrEdgeNotFound):
		return pkgerrors.NewNotFoundError("edge").WithCause(err)
	case errors.Is(err, entities.ErrFieldNotFound):
		return pkgerrors.NewNotFoundError("field").WithCause(err)
	case errors.Is(err, catalog.ErrUnknownType):
		return pkgerrors.NewNotFoundError("node type").WithCause(err)

	case errors.Is(err, aggregates.ErrNodeExists),
		errors.Is(err, aggregates.ErrDuplicateEdge),
		errors.Is(err, aggregates.ErrDanglingEdges):
		return pkgerrors.NewConflictError(err.Error()).WithCause(err)

	case errors.Is(err, aggregates.ErrHandleNotFound),
		errors.Is(err, aggregates.ErrInvalidConnection),
		errors.Is(err, fields.ErrOptionNotAllowed),
		errors.Is(err, fields.ErrNotANumber),
		errors.Is(err, fields.ErrFieldDisabled),
		errors.Is(err, valueobjects.ErrDuplicateHandle),
		errors.Is(err, entities.ErrInvalidNode):
		return pkgerrors.NewValidationError(err.Error()).WithCause(err)
	}
	return err
}

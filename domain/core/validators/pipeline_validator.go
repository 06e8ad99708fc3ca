package validators

import (
	"pipeline-builder/domain/config"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/pkg/errors"
)

// PipelineValidator enforces the configurable limits of the canvas and of
// documents submitted to the validation service
type PipelineValidator struct {
	cfg *config.DomainConfig
}

// NewPipelineValidator creates a validator; a nil config uses the defaults
func NewPipelineValidator(cfg *config.DomainConfig) *PipelineValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PipelineValidator{cfg: cfg}
}

// Config returns the limits in use
func (v *PipelineValidator) Config() *config.DomainConfig {
	return v.cfg
}

// ValidateDocument checks a submitted document against the service limits
func (v *PipelineValidator) ValidateDocument(doc aggregates.PipelineDocument) error {
	if n := len(doc.Nodes); n > v.cfg.MaxDocumentNodes {
		return errors.NewPipelineTooLargeError("nodes", n, v.cfg.MaxDocumentNodes)
	}
	if n := len(doc.Edges); n > v.cfg.MaxDocumentEdges {
		return errors.NewPipelineTooLargeError("edges", n, v.cfg.MaxDocumentEdges)
	}
	return nil
}

// CanAddNode checks the canvas node limit
func (v *PipelineValidator) CanAddNode(current int) error {
	if current >= v.cfg.MaxNodesPerCanvas {
		return errors.NewCanvasFullError("nodes", v.cfg.MaxNodesPerCanvas)
	}
	return nil
}

// ValidateConnection checks the canvas edge limit and the self-connection rule
func (v *PipelineValidator) ValidateConnection(current int, source, target valueobjects.NodeID) error {
	if current >= v.cfg.MaxEdgesPerCanvas {
		return errors.NewCanvasFullError("edges", v.cfg.MaxEdgesPerCanvas)
	}
	if !v.cfg.AllowSelfConnections && source.Equals(target) {
		return errors.NewSelfConnectionError(source.String())
	}
	return nil
}

// ValidateTemplate checks the length of template text
func (v *PipelineValidator) ValidateTemplate(text string) error {
	if len(text) > v.cfg.MaxTemplateLength {
		return errors.NewTemplateTooLongError(len(text), v.cfg.MaxTemplateLength)
	}
	return nil
}

package validators

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/domain/config"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/pkg/errors"
)

func smallConfig() *config.DomainConfig {
	cfg := config.DefaultDomainConfig()
	cfg.MaxNodesPerCanvas = 2
	cfg.MaxEdgesPerCanvas = 1
	cfg.MaxDocumentNodes = 2
	cfg.MaxDocumentEdges = 1
	cfg.MaxTemplateLength = 10
	cfg.AllowSelfConnections = false
	return cfg
}

func code(t *testing.T, err error) string {
	t.Helper()
	var de *errors.DomainError
	require.True(t, stderrors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

func TestValidateDocument(t *testing.T) {
	v := NewPipelineValidator(smallConfig())

	ok := aggregates.PipelineDocument{Nodes: []aggregates.NodeRecord{{ID: "a"}, {ID: "b"}}}
	assert.NoError(t, v.ValidateDocument(ok))

	tooMany := aggregates.PipelineDocument{Nodes: []aggregates.NodeRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	err := v.ValidateDocument(tooMany)
	assert.Equal(t, errors.CodePipelineTooLarge, code(t, err))

	tooManyEdges := aggregates.PipelineDocument{Edges: []aggregates.EdgeRecord{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}}}
	assert.Equal(t, errors.CodePipelineTooLarge, code(t, v.ValidateDocument(tooManyEdges)))
}

func TestCanvasLimits(t *testing.T) {
	v := NewPipelineValidator(smallConfig())

	assert.NoError(t, v.CanAddNode(1))
	assert.Equal(t, errors.CodeCanvasFull, code(t, v.CanAddNode(2)))

	a := valueobjects.MustNodeID("text-1")
	b := valueobjects.MustNodeID("llm-1")
	assert.NoError(t, v.ValidateConnection(0, a, b))
	assert.Equal(t, errors.CodeSelfConnection, code(t, v.ValidateConnection(0, a, a)))
	assert.Equal(t, errors.CodeCanvasFull, code(t, v.ValidateConnection(1, a, b)))
}

func TestValidateTemplate(t *testing.T) {
	v := NewPipelineValidator(smallConfig())
	assert.NoError(t, v.ValidateTemplate("{{a}}"))
	assert.Equal(t, errors.CodeTemplateTooLong, code(t, v.ValidateTemplate(strings.Repeat("x", 11))))
}

func TestDefaultsAllowSelfConnections(t *testing.T) {
	v := NewPipelineValidator(nil)
	a := valueobjects.MustNodeID("loop-1")
	assert.NoError(t, v.ValidateConnection(0, a, a))
	assert.NoError(t, v.Config().Validate())
}

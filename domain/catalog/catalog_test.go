package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
)

func TestDefaultCatalogHasNineTypes(t *testing.T) {
	c := Default()
	want := []string{TypeInput, TypeLLM, TypeOutput, TypeText, TypeFilter, TypeTransform, TypeCondition, TypeMerge, TypeLoop}

	got := []string{}
	for _, d := range c.Types() {
		got = append(got, d.Type)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 9, c.Len())
}

func TestEveryTypeInstantiatesWithUniqueHandles(t *testing.T) {
	c := Default()
	for _, d := range c.Types() {
		t.Run(d.Type, func(t *testing.T) {
			id := valueobjects.NewNodeID(d.Type, 1)
			node, err := c.Instantiate(d.Type, id, valueobjects.NewPosition(0, 0), nil)
			require.NoError(t, err)

			seen := map[string]bool{}
			for _, h := range node.Handles() {
				assert.False(t, seen[h.ID], "duplicate handle %s", h.ID)
				seen[h.ID] = true
			}
			assert.NotEmpty(t, node.Handles())
			assert.Equal(t, d.Type, node.Type())
		})
	}
}

func TestLLMDefinition(t *testing.T) {
	c := Default()
	node, err := c.Instantiate(TypeLLM, valueobjects.MustNodeID("llm-1"), valueobjects.Position{}, nil)
	require.NoError(t, err)

	var ids []string
	for _, h := range node.Handles() {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"llm-1-system", "llm-1-prompt", "llm-1-response"}, ids)

	kinds := map[string]fields.Kind{}
	for _, c := range node.Controls() {
		kinds[c.Name()] = c.Kind()
	}
	assert.Equal(t, map[string]fields.Kind{
		"model":       fields.KindSelect,
		"temperature": fields.KindNumber,
		"maxTokens":   fields.KindNumber,
		"stream":      fields.KindSwitch,
	}, kinds)
	assert.Equal(t, 0.7, node.Data()["temperature"])
}

func TestInputOutputNamesDeriveFromID(t *testing.T) {
	c := Default()

	in, err := c.Instantiate(TypeInput, valueobjects.MustNodeID("customInput-3"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "input_3", in.Data()["inputName"])
	assert.Equal(t, "Text", in.Data()["inputType"])

	out, err := c.Instantiate(TypeOutput, valueobjects.MustNodeID("customOutput-2"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "output_2", out.Data()["outputName"])

	named, err := c.Instantiate(TypeInput, valueobjects.MustNodeID("customInput-4"), valueobjects.Position{}, map[string]any{"inputName": "query"})
	require.NoError(t, err)
	assert.Equal(t, "query", named.Data()["inputName"])

	video, err := c.Instantiate(TypeInput, valueobjects.MustNodeID("customInput-5"), valueobjects.Position{}, map[string]any{"inputType": "Video"})
	require.NoError(t, err)
	assert.Equal(t, "Text", video.Data()["inputType"])
}

func TestTextTypeUsesTemplateBody(t *testing.T) {
	c := Default()
	node, err := c.Instantiate(TypeText, valueobjects.MustNodeID("text-1"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	require.IsType(t, &entities.TemplateBody{}, node.Body())
	assert.Equal(t, "{{input}}", node.Data()["text"])

	seeded, err := c.Instantiate(TypeText, valueobjects.MustNodeID("text-2"), valueobjects.Position{}, map[string]any{"text": "{{a}} {{b}}"})
	require.NoError(t, err)
	assert.Len(t, seeded.Handles(), 3)

	output, err := c.Instantiate(TypeText, valueobjects.MustNodeID("text-3"), valueobjects.Position{}, map[string]any{"text": "{{output}}"})
	require.NoError(t, err)
	ids := []string{}
	for _, h := range output.Handles() {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"text-3-output-var", "text-3-output"}, ids)
}

func TestFilterConditionFollowsFilterType(t *testing.T) {
	c := Default()
	node, err := c.Instantiate(TypeFilter, valueobjects.MustNodeID("filter-1"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "equals", node.Data()["condition"])

	require.NoError(t, node.SetField("filterType", "date"))
	assert.Equal(t, "before", node.Data()["condition"])
	assert.ErrorIs(t, node.SetField("condition", "contains"), fields.ErrOptionNotAllowed)
}

func TestTransformCustomFieldAndPreview(t *testing.T) {
	c := Default()
	node, err := c.Instantiate(TypeTransform, valueobjects.MustNodeID("transform-1"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	assert.Len(t, node.Controls(), 1)
	assert.Equal(t, "EXAMPLE TEXT", c.View(node).Preview)

	require.NoError(t, node.SetField("transformType", TransformCustom))
	assert.Len(t, node.Controls(), 2)
	assert.Equal(t, "Define your function", c.View(node).Preview)

	require.NoError(t, node.SetField("customFunction", "slugify"))
	assert.Equal(t, "Custom: slugify(input)", c.View(node).Preview)
}

func TestTransformPreview(t *testing.T) {
	tests := []struct {
		kind, custom, want string
	}{
		{TransformUppercase, "", "EXAMPLE TEXT"},
		{TransformLowercase, "", "example text"},
		{TransformCapitalize, "", "Example Text"},
		{TransformReverse, "", "txet elpmaxE"},
		{TransformTrim, "", "Example text"},
		{TransformCustom, "", "Define your function"},
		{TransformCustom, "fn", "Custom: fn(input)"},
		{"unknown", "", "Example text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TransformPreview(tt.kind, tt.custom), tt.kind)
	}
}

func TestInstantiateUnknownType(t *testing.T) {
	_, err := Default().Instantiate("webhook", valueobjects.MustNodeID("webhook-1"), valueobjects.Position{}, nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRegisterRejectsBrokenDefinitions(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.ErrorIs(t, c.Register(Definition{}), ErrInvalidDefinition)
	assert.ErrorIs(t, c.Register(Definition{
		Type:    "dup",
		Handles: []valueobjects.HandleSpec{valueobjects.Input("x"), valueobjects.Output("x")},
	}), ErrInvalidDefinition)
	assert.ErrorIs(t, c.Register(Definition{
		Type: "fields",
		Fields: []fields.Descriptor{
			fields.TextField{Common: fields.Common{Name: "a"}},
			fields.TextField{Common: fields.Common{Name: "a"}},
		},
	}), ErrInvalidDefinition)

	require.NoError(t, c.Register(Definition{Type: "ok"}))
	assert.ErrorIs(t, c.Register(Definition{Type: "ok"}), ErrDuplicateType)
}

func TestApplyOverlay(t *testing.T) {
	base := Default()
	next, err := base.Apply(Overlay{Types: []TypeOverlay{
		{
			Type:     TypeLLM,
			Title:    "Language Model",
			Defaults: map[string]any{"temperature": 0.2},
			Options:  map[string][]fields.Option{"model": {{Value: "local-llama", Label: "Local Llama"}}},
		},
		{
			Type:   TypeCondition,
			Fields: []fields.FieldSpec{{Name: "note", Kind: "textarea", Rows: 3}},
		},
		{
			Type:    "webhook",
			Label:   "Webhook",
			Handles: []HandleConfig{{Name: "payload", Direction: "input"}, {Name: "status", Direction: "output"}},
			Fields:  []fields.FieldSpec{{Name: "url", Kind: "text"}},
		},
	}})
	require.NoError(t, err)

	llm, _ := next.Lookup(TypeLLM)
	assert.Equal(t, "Language Model", llm.Title)
	node, err := next.Instantiate(TypeLLM, valueobjects.MustNodeID("llm-1"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.2, node.Data()["temperature"])
	require.NoError(t, node.SetField("model", "local-llama"))

	cond, _ := next.Lookup(TypeCondition)
	assert.Len(t, cond.Fields, 3)

	hook, err := next.Instantiate("webhook", valueobjects.MustNodeID("webhook-1"), valueobjects.Position{}, nil)
	require.NoError(t, err)
	assert.Len(t, hook.Handles(), 2)

	// the base catalog is untouched
	orig, _ := base.Lookup(TypeLLM)
	assert.Equal(t, "LLM", orig.Title)
	origCond, _ := base.Lookup(TypeCondition)
	assert.Len(t, origCond.Fields, 2)
	_, ok := base.Lookup("webhook")
	assert.False(t, ok)
}

func TestApplyOverlayErrors(t *testing.T) {
	base := Default()
	tests := []struct {
		name    string
		overlay TypeOverlay
	}{
		{name: "missing type", overlay: TypeOverlay{}},
		{name: "unknown field default", overlay: TypeOverlay{Type: TypeLLM, Defaults: map[string]any{"nope": 1}}},
		{name: "options on non-select", overlay: TypeOverlay{Type: TypeLLM, Options: map[string][]fields.Option{"stream": {{Value: "x"}}}}},
		{name: "unknown kind", overlay: TypeOverlay{Type: TypeLLM, Fields: []fields.FieldSpec{{Name: "c", Kind: "color"}}}},
		{name: "new type without handles", overlay: TypeOverlay{Type: "bare"}},
		{name: "changing built-in handles", overlay: TypeOverlay{Type: TypeLLM, Handles: []HandleConfig{{Name: "x", Direction: "input"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := base.Apply(Overlay{Types: []TypeOverlay{tt.overlay}})
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

package fields

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	Name  string
	Value any
}

func recorder() (*[]change, ChangeFunc) {
	var got []change
	return &got, func(name string, value any) {
		got = append(got, change{Name: name, Value: value})
	}
}

func llmSchema() []Descriptor {
	return []Descriptor{
		SelectField{
			Common: Common{Name: "model", Label: "Model"},
			Options: []Option{
				{Value: "gpt-4", Label: "GPT-4"},
				{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
			},
		},
		NumberField{Common: Common{Name: "temperature", Default: 0.7}, Min: Float(0), Max: Float(2), Step: Float(0.1)},
		MultilineField{Common: Common{Name: "notes"}, Rows: 4},
		SwitchField{Common: Common{Name: "stream"}},
		TextField{Common: Common{Name: "apiKey", Placeholder: "sk-..."}},
	}
}

func TestRenderProducesOneControlPerField(t *testing.T) {
	controls := Render(llmSchema(), map[string]any{"model": "gpt-3.5-turbo"}, nil)
	require.Len(t, controls, 5)

	kinds := make([]Kind, 0, len(controls))
	for _, c := range controls {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []Kind{KindSelect, KindNumber, KindMultiline, KindSwitch, KindText}, kinds)

	assert.Equal(t, "gpt-3.5-turbo", controls[0].Value())
	assert.Equal(t, 0.7, controls[1].Value())
	assert.Equal(t, "", controls[2].Value())
	assert.Equal(t, false, controls[3].Value())
	assert.Equal(t, 4, controls[2].(*MultilineControl).Rows())
	assert.Equal(t, "sk-...", controls[4].(*TextControl).Placeholder())
}

func TestRenderSelectDefaultsToFirstOption(t *testing.T) {
	controls := Render(llmSchema()[:1], nil, nil)
	require.Len(t, controls, 1)
	assert.Equal(t, "gpt-4", controls[0].Value())
}

func TestRenderEmptySchema(t *testing.T) {
	assert.Empty(t, Render(nil, map[string]any{"x": 1}, nil))
}

func TestEditsEmitExactlyOneChange(t *testing.T) {
	got, onChange := recorder()
	controls := Render(llmSchema(), nil, onChange)

	require.NoError(t, controls[0].(*SelectControl).Choose("gpt-3.5-turbo"))
	require.NoError(t, controls[1].(*NumberControl).SetNumber(1.2))
	require.NoError(t, controls[2].(*MultilineControl).SetText("line one\nline two"))
	require.NoError(t, controls[3].(*SwitchControl).Toggle())
	require.NoError(t, controls[4].Set("secret"))

	want := []change{
		{Name: "model", Value: "gpt-3.5-turbo"},
		{Name: "temperature", Value: 1.2},
		{Name: "notes", Value: "line one\nline two"},
		{Name: "stream", Value: true},
		{Name: "apiKey", Value: "secret"},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectRejectsUnknownOption(t *testing.T) {
	got, onChange := recorder()
	controls := Render(llmSchema()[:1], nil, onChange)
	sel := controls[0].(*SelectControl)

	err := sel.Choose("claude")
	require.ErrorIs(t, err, ErrOptionNotAllowed)
	assert.Equal(t, "gpt-4", sel.Value())
	assert.Empty(t, *got)

	require.ErrorIs(t, sel.Select(7), ErrOptionNotAllowed)
	require.NoError(t, sel.Select(1))
	assert.Equal(t, "gpt-3.5-turbo", sel.Value())
}

func TestNumberBoundsAreAdvisory(t *testing.T) {
	controls := Render(llmSchema()[1:2], nil, nil)
	num := controls[0].(*NumberControl)

	require.NoError(t, num.SetNumber(5))
	assert.Equal(t, float64(5), num.Number())

	min, max, step := num.Bounds()
	assert.Equal(t, 0.0, *min)
	assert.Equal(t, 2.0, *max)
	assert.Equal(t, 0.1, *step)

	require.ErrorIs(t, num.Set("warm"), ErrNotANumber)
	require.NoError(t, num.Set("0.3"))
	assert.Equal(t, 0.3, num.Number())
}

func TestNumberRejectsNonFiniteValues(t *testing.T) {
	got, onChange := recorder()
	controls := Render(llmSchema()[1:2], nil, onChange)
	num := controls[0].(*NumberControl)

	for _, v := range []any{"NaN", "Inf", "+Inf", "-inf", math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, num.Set(v), ErrNotANumber, "%v", v)
	}
	assert.ErrorIs(t, num.SetNumber(math.Inf(-1)), ErrNotANumber)
	assert.Equal(t, 0.7, num.Number())
	assert.Empty(t, *got)

	values := Defaults(llmSchema()[1:2], map[string]any{"temperature": "NaN"})
	assert.Equal(t, 0.7, values["temperature"])
}

func TestDisabledControlRefusesEdits(t *testing.T) {
	got, onChange := recorder()
	schema := []Descriptor{TextField{Common: Common{Name: "locked", Default: "v", Disabled: true}}}
	controls := Render(schema, nil, onChange)

	require.ErrorIs(t, controls[0].Set("other"), ErrFieldDisabled)
	assert.Equal(t, "v", controls[0].Value())
	assert.Empty(t, *got)
}

func TestShowWhenHidesFields(t *testing.T) {
	schema := []Descriptor{
		SelectField{Common: Common{Name: "transformType"}, Options: []Option{{Value: "uppercase"}, {Value: "custom"}}},
		MultilineField{Common: Common{Name: "customFunction", ShowWhen: &Condition{Field: "transformType", Equals: "custom"}}},
	}

	assert.Len(t, Render(schema, map[string]any{"transformType": "uppercase"}, nil), 1)
	assert.Len(t, Render(schema, map[string]any{"transformType": "custom"}, nil), 2)
}

func TestDependentSelectUsesParentOptionSet(t *testing.T) {
	schema := []Descriptor{
		SelectField{Common: Common{Name: "filterType"}, Options: []Option{{Value: "text"}, {Value: "number"}}},
		SelectField{
			Common:    Common{Name: "condition"},
			DependsOn: "filterType",
			OptionSets: map[string][]Option{
				"text":   {{Value: "contains"}, {Value: "equals"}},
				"number": {{Value: "greater"}, {Value: "less"}},
			},
		},
	}

	controls := Render(schema, map[string]any{"filterType": "number"}, nil)
	require.Len(t, controls, 2)
	sel := controls[1].(*SelectControl)
	assert.Equal(t, "greater", sel.Value())
	assert.Equal(t, []Option{{Value: "greater"}, {Value: "less"}}, sel.Options())
	assert.Len(t, Dependents(schema, "filterType"), 1)
}

func TestPointerDescriptorsRender(t *testing.T) {
	controls := Render([]Descriptor{&SwitchField{Common: Common{Name: "on", Default: "yes"}}}, nil, nil)
	require.Len(t, controls, 1)
	assert.Equal(t, true, controls[0].Value())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "text", want: KindText},
		{in: "textarea", want: KindMultiline},
		{in: "multiline", want: KindMultiline},
		{in: "boolean", want: KindSwitch},
		{in: "number", want: KindNumber},
		{in: "select", want: KindSelect},
		{in: "slider", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromSpec(t *testing.T) {
	d, err := FromSpec(FieldSpec{Name: "rows", Kind: "textarea", Rows: 6})
	require.NoError(t, err)
	assert.Equal(t, MultilineField{Common: Common{Name: "rows"}, Rows: 6}, d)

	_, err = FromSpec(FieldSpec{Name: "x", Kind: "color"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = FromSpec(FieldSpec{Name: "s", Kind: "select"})
	assert.Error(t, err)

	spec := ToSpec(NumberField{Common: Common{Name: "n"}, Min: Float(1)})
	assert.Equal(t, "number", spec.Kind)
	assert.Equal(t, 1.0, *spec.Min)
}

func TestInitialSelectValueMustBeOffered(t *testing.T) {
	schema := []Descriptor{
		SelectField{
			Common:  Common{Name: "inputType", Default: "Text"},
			Options: []Option{{Value: "Text"}, {Value: "File"}},
		},
		SelectField{
			Common:  Common{Name: "format", Default: "yaml"},
			Options: []Option{{Value: "json"}, {Value: "csv"}},
		},
	}

	tests := []struct {
		name string
		data map[string]any
		want map[string]any
	}{
		{name: "offered value kept", data: map[string]any{"inputType": "File", "format": "csv"}, want: map[string]any{"inputType": "File", "format": "csv"}},
		{name: "unknown value falls back to default", data: map[string]any{"inputType": "Video"}, want: map[string]any{"inputType": "Text", "format": "json"}},
		{name: "default not offered falls back to first option", data: map[string]any{"format": "xml"}, want: map[string]any{"inputType": "Text", "format": "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Defaults(schema, tt.data))
		})
	}
}

func TestDefaults(t *testing.T) {
	got := Defaults(llmSchema(), map[string]any{"stream": true, "extra": "kept"})
	assert.Equal(t, map[string]any{
		"model":       "gpt-4",
		"temperature": 0.7,
		"notes":       "",
		"stream":      true,
		"apiKey":      "",
		"extra":       "kept",
	}, got)
}

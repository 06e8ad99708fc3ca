package templates

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/domain/core/valueobjects"
)

var textNode = valueobjects.MustNodeID("text-1")

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "deduplicates in first occurrence order",
			text: "Hello {{name}}, your {{name}} is ready, {{id}}",
			want: []string{"name", "id"},
		},
		{
			name: "default text",
			text: "{{input}}",
			want: []string{"input"},
		},
		{
			name: "no variables",
			text: "plain text with {single} braces",
			want: []string{},
		},
		{
			name: "empty braces do not match",
			text: "{{}} and {{ok}}",
			want: []string{"ok"},
		},
		{
			name: "names are not validated",
			text: "{{first name}} {{a.b}} {{ spaced }}",
			want: []string{"first name", "a.b", " spaced "},
		},
		{
			name: "spans lines",
			text: "{{a}}\n{{b}}\n{{a}}",
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVariables(tt.text))
			assert.Equal(t, len(tt.want) > 0, HasVariables(tt.text))
		})
	}
}

func TestDeriveHandlesScenario(t *testing.T) {
	handles := Derive(textNode, "Hello {{name}}, your {{name}} is ready, {{id}}").Handles

	want := []valueobjects.Handle{
		{ID: "text-1-name", Name: "name", Direction: valueobjects.DirectionInput, Side: valueobjects.SideLeft, Offset: 0.25, NodeID: textNode},
		{ID: "text-1-id", Name: "id", Direction: valueobjects.DirectionInput, Side: valueobjects.SideLeft, Offset: 0.5, NodeID: textNode},
		{ID: "text-1-output", Name: "output", Direction: valueobjects.DirectionOutput, Side: valueobjects.SideRight, Offset: 0.75, NodeID: textNode},
	}
	if diff := cmp.Diff(want, handles); diff != "" {
		t.Errorf("handles mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	texts := []string{"", "{{input}}", "{{a}} {{b}} {{a}}", "no vars", "{{x}}{{y}}{{z}}"}
	for _, text := range texts {
		first := Derive(textNode, text)
		second := Derive(textNode, text)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("derive(%q) not idempotent:\n%s", text, diff)
		}
	}
}

func TestInputCountEqualsDistinctVariables(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "{{a}}", want: 1},
		{text: "{{a}}{{a}}{{a}}{{a}}", want: 1},
		{text: "{{a}} {{b}} {{a}} {{c}} {{b}}", want: 3},
		{text: strings.Repeat("{{v}} ", 50), want: 1},
	}
	for _, tt := range tests {
		inputs := 0
		for _, h := range Derive(textNode, tt.text).Handles {
			if h.IsInput() {
				inputs++
			}
		}
		assert.Equal(t, tt.want, inputs, tt.text)
	}
}

func TestNoVariablesYieldsSingleOutput(t *testing.T) {
	for _, text := range []string{"", "hello", "{ {a} }", "{{}}"} {
		handles := Derive(textNode, text).Handles
		require.Len(t, handles, 1, text)
		assert.True(t, handles[0].IsOutput())
		assert.Equal(t, valueobjects.DefaultOffset, handles[0].Offset)
		assert.Equal(t, "text-1-output", handles[0].ID)
	}
}

func TestRenameVariableKeepsOtherHandles(t *testing.T) {
	before := Derive(textNode, "{{x}} then {{a}} then {{y}}").Handles
	after := Derive(textNode, "{{x}} then {{b}} then {{y}}").Handles
	require.Len(t, after, len(before))

	_, hasA := valueobjects.FindHandle(after, "text-1-a")
	_, hasB := valueobjects.FindHandle(after, "text-1-b")
	assert.False(t, hasA)
	assert.True(t, hasB)

	for i := range before {
		if before[i].Name == "a" {
			assert.Equal(t, "b", after[i].Name)
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
}

func TestDerivedHandleIDsAreUnique(t *testing.T) {
	texts := []string{
		"{{output}}",
		"{{output}} {{output-var}}",
		"{{output-var}} {{output}}",
		"{{a}} {{output}} {{b}}",
	}
	for _, text := range texts {
		handles := Derive(textNode, text).Handles
		seen := map[string]bool{}
		for _, h := range handles {
			assert.False(t, seen[h.ID], "%q: duplicate handle %s", text, h.ID)
			seen[h.ID] = true
		}

		out := handles[len(handles)-1]
		assert.True(t, out.IsOutput())
		assert.Equal(t, "text-1-output", out.ID, text)
	}
}

func TestVariableNamedOutputGetsOwnHandle(t *testing.T) {
	handles := Derive(textNode, "{{output}}").Handles

	want := []valueobjects.Handle{
		{ID: "text-1-output-var", Name: "output", Direction: valueobjects.DirectionInput, Side: valueobjects.SideLeft, Offset: 1.0 / 3, NodeID: textNode},
		{ID: "text-1-output", Name: "output", Direction: valueobjects.DirectionOutput, Side: valueobjects.SideRight, Offset: 2.0 / 3, NodeID: textNode},
	}
	if diff := cmp.Diff(want, handles); diff != "" {
		t.Errorf("handles mismatch (-want +got):\n%s", diff)
	}
}

func TestFootprint(t *testing.T) {
	assert.Equal(t, MinSize, Footprint("{{input}}", 0))
	assert.Equal(t, MinSize, Footprint("", 0))

	wide := Footprint(strings.Repeat("w", 80), 0)
	assert.Greater(t, wide.Width, float64(MinWidth))
	assert.Equal(t, float64(MinHeight), wide.Height)

	tall := Footprint(strings.Repeat("line\n", 10), 0)
	assert.Greater(t, tall.Height, float64(MinHeight))

	withBadges := Footprint(strings.Repeat("line\n", 10), 2)
	assert.Greater(t, withBadges.Height, tall.Height)
}

package aggregates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/domain/events"
)

func inputNode(t *testing.T, id string) *entities.Node {
	t.Helper()
	n, err := entities.NewNode(entities.NodeConfig{
		ID:      valueobjects.MustNodeID(id),
		Type:    "customInput",
		Handles: []valueobjects.HandleSpec{valueobjects.Output("value")},
		Fields:  []fields.Descriptor{fields.TextField{Common: fields.Common{Name: "inputName", Default: "input"}}},
	})
	require.NoError(t, err)
	return n
}

func outputNode(t *testing.T, id string) *entities.Node {
	t.Helper()
	n, err := entities.NewNode(entities.NodeConfig{
		ID:      valueobjects.MustNodeID(id),
		Type:    "customOutput",
		Handles: []valueobjects.HandleSpec{valueobjects.Input("value")},
	})
	require.NoError(t, err)
	return n
}

func textNode(t *testing.T, id, text string) (*entities.Node, *entities.TemplateBody) {
	t.Helper()
	body := entities.NewTemplateBody(text)
	n, err := entities.NewNode(entities.NodeConfig{ID: valueobjects.MustNodeID(id), Type: "text", Body: body})
	require.NoError(t, err)
	return n, body
}

func nid(s string) valueobjects.NodeID { return valueobjects.MustNodeID(s) }

func TestGraphConnectAndSnapshot(t *testing.T) {
	g := NewGraph(DropDangling)
	require.NoError(t, g.AddNode(inputNode(t, "customInput-1")))
	text, _ := textNode(t, "text-1", "{{input}}")
	require.NoError(t, g.AddNode(text))
	require.NoError(t, g.AddNode(outputNode(t, "customOutput-1")))

	_, err := g.Connect(nid("customInput-1"), "customInput-1-value", nid("text-1"), "text-1-input")
	require.NoError(t, err)
	_, err = g.Connect(nid("text-1"), "text-1-output", nid("customOutput-1"), "customOutput-1-value")
	require.NoError(t, err)

	doc, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, doc.NumNodes())
	assert.Equal(t, 2, doc.NumEdges())
	assert.Equal(t, "text-1", doc.Nodes[1].ID)
	assert.Equal(t, map[string]any{"text": "{{input}}"}, doc.Nodes[1].Data)
	assert.Equal(t, "text-1-output", doc.Edges[1].SourceHandle)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var wire map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Contains(t, wire["nodes"][0], "position")
	assert.Contains(t, wire["edges"][0], "sourceHandle")
	assert.Contains(t, wire["edges"][0], "targetHandle")
}

func TestGraphConnectRejections(t *testing.T) {
	g := NewGraph(DropDangling)
	require.NoError(t, g.AddNode(inputNode(t, "customInput-1")))
	require.NoError(t, g.AddNode(outputNode(t, "customOutput-1")))

	tests := []struct {
		name         string
		source       string
		sourceHandle string
		target       string
		targetHandle string
		wantErr      error
	}{
		{"unknown source", "nope-1", "x", "customOutput-1", "customOutput-1-value", ErrNodeNotFound},
		{"unknown handle", "customInput-1", "customInput-1-zzz", "customOutput-1", "customOutput-1-value", ErrHandleNotFound},
		{"input as source", "customOutput-1", "customOutput-1-value", "customInput-1", "customInput-1-value", ErrInvalidConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Connect(nid(tt.source), tt.sourceHandle, nid(tt.target), tt.targetHandle)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := g.Connect(nid("customInput-1"), "customInput-1-value", nid("customOutput-1"), "customOutput-1-value")
	require.NoError(t, err)
	_, err = g.Connect(nid("customInput-1"), "customInput-1-value", nid("customOutput-1"), "customOutput-1-value")
	assert.ErrorIs(t, err, ErrDuplicateEdge)
	assert.Len(t, g.Edges(), 1)
}

func TestGraphTracksNodeDataSnapshots(t *testing.T) {
	g := NewGraph(DropDangling)
	n := inputNode(t, "customInput-1")
	require.NoError(t, g.AddNode(n))
	g.MarkEventsAsCommitted()

	require.NoError(t, n.SetField("inputName", "query"))
	data, ok := g.NodeData(nid("customInput-1"))
	require.True(t, ok)
	assert.Equal(t, "query", data["inputName"])

	evts := g.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeNodeDataChanged, evts[0].GetEventType())
}

func TestPortRecomputeDropsDanglingEdges(t *testing.T) {
	g := NewGraph(DropDangling)
	require.NoError(t, g.AddNode(inputNode(t, "customInput-1")))
	text, body := textNode(t, "text-1", "{{a}} {{b}}")
	require.NoError(t, g.AddNode(text))

	_, err := g.Connect(nid("customInput-1"), "customInput-1-value", nid("text-1"), "text-1-a")
	require.NoError(t, err)
	kept, err := g.Connect(nid("customInput-1"), "customInput-1-value", nid("text-1"), "text-1-b")
	require.NoError(t, err)
	g.MarkEventsAsCommitted()

	require.NoError(t, body.SetText("{{c}} {{b}}"))

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, kept.ID, edges[0].ID)

	types := []string{}
	for _, e := range g.GetUncommittedEvents() {
		types = append(types, e.GetEventType())
	}
	assert.Equal(t, []string{events.TypeNodeDataChanged, events.TypeNodePortsRecomputed, events.TypeEdgeDropped}, types)

	_, err = g.Snapshot()
	assert.NoError(t, err)
}

func TestPortRecomputeFlagsDanglingEdges(t *testing.T) {
	g := NewGraph(FlagDangling)
	require.NoError(t, g.AddNode(inputNode(t, "customInput-1")))
	text, body := textNode(t, "text-1", "{{a}}")
	require.NoError(t, g.AddNode(text))
	edge, err := g.Connect(nid("customInput-1"), "customInput-1-value", nid("text-1"), "text-1-a")
	require.NoError(t, err)

	require.NoError(t, body.SetText("{{b}}"))
	dangling := g.DanglingEdges()
	require.Len(t, dangling, 1)
	assert.Equal(t, "text-1-a", dangling[0].MissingHandle)

	_, err = g.Snapshot()
	assert.ErrorIs(t, err, ErrDanglingEdges)

	require.NoError(t, body.SetText("{{a}}"))
	assert.Empty(t, g.DanglingEdges())
	doc, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, edge.ID, doc.Edges[0].ID)

	require.NoError(t, body.SetText(""))
	require.NoError(t, g.RemoveEdge(edge.ID))
	_, err = g.Snapshot()
	assert.NoError(t, err)
}

func TestVariableNamedOutputKeepsOutgoingEdges(t *testing.T) {
	g := NewGraph(DropDangling)
	text, body := textNode(t, "text-1", "{{input}}")
	require.NoError(t, g.AddNode(text))
	require.NoError(t, g.AddNode(outputNode(t, "customOutput-1")))
	out, err := g.Connect(nid("text-1"), "text-1-output", nid("customOutput-1"), "customOutput-1-value")
	require.NoError(t, err)

	require.NoError(t, body.SetText("{{output}}"))

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, out.ID, edges[0].ID)

	h, ok := text.Handle("text-1-output")
	require.True(t, ok)
	assert.True(t, h.IsOutput())
	_, ok = text.Handle("text-1-output-var")
	assert.True(t, ok)

	fresh, _ := textNode(t, "text-2", "{{output}}")
	require.NoError(t, g.AddNode(fresh))
	_, err = g.Connect(nid("text-2"), "text-2-output", nid("text-1"), "text-1-output-var")
	assert.NoError(t, err)
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := NewGraph(DropDangling)
	in := inputNode(t, "customInput-1")
	require.NoError(t, g.AddNode(in))
	require.NoError(t, g.AddNode(outputNode(t, "customOutput-1")))
	_, err := g.Connect(nid("customInput-1"), "customInput-1-value", nid("customOutput-1"), "customOutput-1-value")
	require.NoError(t, err)

	require.NoError(t, g.RemoveNode(nid("customInput-1")))
	assert.Empty(t, g.Edges())
	assert.Len(t, g.Nodes(), 1)
	assert.ErrorIs(t, g.RemoveNode(nid("customInput-1")), ErrNodeNotFound)

	// a removed node no longer feeds the canvas
	require.NoError(t, in.SetField("inputName", "late"))
	_, ok := g.NodeData(nid("customInput-1"))
	assert.False(t, ok)
}

func TestMoveAndReset(t *testing.T) {
	g := NewGraph("")
	assert.Equal(t, DropDangling, g.Policy())
	require.NoError(t, g.AddNode(inputNode(t, "customInput-1")))

	require.NoError(t, g.MoveNode(nid("customInput-1"), valueobjects.NewPosition(10, 20)))
	n, err := g.GetNode(nid("customInput-1"))
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NewPosition(10, 20), n.Position())
	assert.ErrorIs(t, g.MoveNode(nid("x-1"), valueobjects.Position{}), ErrNodeNotFound)
	assert.ErrorIs(t, g.RemoveEdge("missing"), ErrEdgeNotFound)

	g.Reset()
	doc, err := g.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
	assert.NotNil(t, doc.Nodes)
	assert.NotNil(t, doc.Edges)
}

func TestParseDanglingPolicy(t *testing.T) {
	p, err := ParseDanglingPolicy("flag")
	require.NoError(t, err)
	assert.Equal(t, FlagDangling, p)

	p, err = ParseDanglingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DropDangling, p)

	_, err = ParseDanglingPolicy("ignore")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

package aggregates

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/domain/events"
)

var (
	ErrNodeExists        = errors.New("node already exists on canvas")
	ErrNodeNotFound      = errors.New("node not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrHandleNotFound    = errors.New("handle not found")
	ErrInvalidConnection = errors.New("invalid connection")
	ErrDuplicateEdge     = errors.New("edge already exists")
	ErrDanglingEdges     = errors.New("canvas has dangling edges")
	ErrUnknownPolicy     = errors.New("unknown dangling policy")
)

// CanvasID represents a unique canvas identifier
type CanvasID string

// NewCanvasID creates a new random CanvasID
func NewCanvasID() CanvasID {
	return CanvasID(uuid.New().String())
}

// String returns the string representation
func (id CanvasID) String() string {
	return string(id)
}

// DanglingPolicy decides what happens to an edge whose handle disappeared in a
// port recompute.
type DanglingPolicy string

const (
	// DropDangling removes the edge
	DropDangling DanglingPolicy = "drop"
	// FlagDangling keeps the edge marked dangling; the canvas cannot be
	// snapshotted until it is removed or its handle comes back.
	FlagDangling DanglingPolicy = "flag"
)

// ParseDanglingPolicy maps a configuration value onto a policy
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch DanglingPolicy(s) {
	case "", DropDangling:
		return DropDangling, nil
	case FlagDangling:
		return FlagDangling, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Edge is a directed connection from an output handle to an input handle
type Edge struct {
	ID            string              `json:"id"`
	Source        valueobjects.NodeID `json:"source"`
	SourceHandle  string              `json:"sourceHandle"`
	Target        valueobjects.NodeID `json:"target"`
	TargetHandle  string              `json:"targetHandle"`
	Dangling      bool                `json:"dangling,omitempty"`
	MissingHandle string              `json:"missingHandle,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func (e *Edge) ref() events.EdgeRef {
	return events.EdgeRef{
		ID:           e.ID,
		Source:       e.Source,
		SourceHandle: e.SourceHandle,
		Target:       e.Target,
		TargetHandle: e.TargetHandle,
	}
}

// Touches reports whether the edge has an endpoint on the node
func (e *Edge) Touches(id valueobjects.NodeID) bool {
	return e.Source.Equals(id) || e.Target.Equals(id)
}

// Graph is the aggregate root for the canvas. It owns the topology and keeps
// the latest data snapshot of every node, fed by the nodes' change
// notifications.
type Graph struct {
	id          CanvasID
	nodes       []*entities.Node
	data        map[valueobjects.NodeID]map[string]any
	unsubscribe map[valueobjects.NodeID]func()
	edges       []*Edge
	policy      DanglingPolicy
	updatedAt   time.Time
	version     int
	events      []events.DomainEvent
}

// NewGraph creates an empty canvas
func NewGraph(policy DanglingPolicy) *Graph {
	if policy == "" {
		policy = DropDangling
	}
	return &Graph{
		id:          NewCanvasID(),
		data:        make(map[valueobjects.NodeID]map[string]any),
		unsubscribe: make(map[valueobjects.NodeID]func()),
		policy:      policy,
		updatedAt:   time.Now(),
		version:     1,
		events:      []events.DomainEvent{},
	}
}

// ID returns the canvas identifier
func (g *Graph) ID() CanvasID {
	return g.id
}

// Version returns the version for optimistic locking
func (g *Graph) Version() int {
	return g.version
}

// UpdatedAt returns when the canvas last changed
func (g *Graph) UpdatedAt() time.Time {
	return g.updatedAt
}

// Policy returns the dangling edge policy
func (g *Graph) Policy() DanglingPolicy {
	return g.policy
}

// AddNode places a node on the canvas and starts observing it
func (g *Graph) AddNode(node *entities.Node) error {
	if node == nil {
		return errors.New("node cannot be nil")
	}
	if g.HasNode(node.ID()) {
		return fmt.Errorf("%w: %s", ErrNodeExists, node.ID())
	}

	g.nodes = append(g.nodes, node)
	g.data[node.ID()] = node.Data()
	g.unsubscribe[node.ID()] = node.Subscribe(entities.ObserverFunc(g.onNodeChange))
	g.touch()

	g.addEvent(events.NewNodeDropped(g.id.String(), g.version, node.ID(), node.Type(), node.Position(), g.updatedAt))
	return nil
}

// GetNode retrieves a node by ID
func (g *Graph) GetNode(id valueobjects.NodeID) (*entities.Node, error) {
	for _, n := range g.nodes {
		if n.ID().Equals(id) {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
}

// HasNode checks if a node exists on the canvas
func (g *Graph) HasNode(id valueobjects.NodeID) bool {
	_, err := g.GetNode(id)
	return err == nil
}

// Nodes returns the nodes in insertion order
func (g *Graph) Nodes() []*entities.Node {
	out := make([]*entities.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeData returns the canvas's latest data snapshot for a node
func (g *Graph) NodeData(id valueobjects.NodeID) (map[string]any, bool) {
	d, ok := g.data[id]
	if !ok {
		return nil, false
	}
	return copyMap(d), true
}

// Edges returns copies of the edges in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = *e
	}
	return out
}

// DanglingEdges returns the edges flagged as dangling
func (g *Graph) DanglingEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Dangling {
			out = append(out, *e)
		}
	}
	return out
}

// Connect creates an edge from an output handle of source to an input handle
// of target. A node may connect to itself through distinct handles.
func (g *Graph) Connect(source valueobjects.NodeID, sourceHandle string, target valueobjects.NodeID, targetHandle string) (*Edge, error) {
	src, err := g.GetNode(source)
	if err != nil {
		return nil, err
	}
	dst, err := g.GetNode(target)
	if err != nil {
		return nil, err
	}

	sh, ok := src.Handle(sourceHandle)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrHandleNotFound, sourceHandle, source)
	}
	th, ok := dst.Handle(targetHandle)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrHandleNotFound, targetHandle, target)
	}
	if !sh.IsOutput() {
		return nil, fmt.Errorf("%w: %s is not an output", ErrInvalidConnection, sourceHandle)
	}
	if !th.IsInput() {
		return nil, fmt.Errorf("%w: %s is not an input", ErrInvalidConnection, targetHandle)
	}

	for _, e := range g.edges {
		if e.Source.Equals(source) && e.SourceHandle == sourceHandle &&
			e.Target.Equals(target) && e.TargetHandle == targetHandle {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, e.ID)
		}
	}

	g.touch()
	edge := &Edge{
		ID:           uuid.New().String(),
		Source:       source,
		SourceHandle: sourceHandle,
		Target:       target,
		TargetHandle: targetHandle,
		CreatedAt:    g.updatedAt,
	}
	g.edges = append(g.edges, edge)
	g.addEvent(events.NewEdgeConnected(g.id.String(), g.version, edge.ref(), g.updatedAt))

	out := *edge
	return &out, nil
}

// RemoveEdge deletes an edge
func (g *Graph) RemoveEdge(edgeID string) error {
	for i, e := range g.edges {
		if e.ID != edgeID {
			continue
		}
		g.edges = append(g.edges[:i], g.edges[i+1:]...)
		g.touch()
		g.addEvent(events.NewEdgeRemoved(g.id.String(), g.version, e.ref(), g.updatedAt))
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
}

// RemoveNode removes a node and every edge touching it
func (g *Graph) RemoveNode(id valueobjects.NodeID) error {
	idx := -1
	for i, n := range g.nodes {
		if n.ID().Equals(id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	removed := []string{}
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Touches(id) {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept

	if stop, ok := g.unsubscribe[id]; ok {
		stop()
		delete(g.unsubscribe, id)
	}
	delete(g.data, id)
	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)
	g.touch()

	g.addEvent(events.NewNodeDeleted(g.id.String(), g.version, id, removed, g.updatedAt))
	return nil
}

// MoveNode changes a node's position
func (g *Graph) MoveNode(id valueobjects.NodeID, pos valueobjects.Position) error {
	node, err := g.GetNode(id)
	if err != nil {
		return err
	}
	old := node.Position()
	if old.Equals(pos) {
		return nil
	}
	node.MoveTo(pos)
	g.touch()
	g.addEvent(events.NewNodeMoved(g.id.String(), g.version, id, old, pos, g.updatedAt))
	return nil
}

// Reset removes every node and edge
func (g *Graph) Reset() {
	nodes, edges := len(g.nodes), len(g.edges)
	for _, stop := range g.unsubscribe {
		stop()
	}
	g.nodes = nil
	g.edges = nil
	g.data = make(map[valueobjects.NodeID]map[string]any)
	g.unsubscribe = make(map[valueobjects.NodeID]func())
	g.touch()
	g.addEvent(events.NewCanvasReset(g.id.String(), g.version, nodes, edges, g.updatedAt))
}

// Snapshot serializes the canvas for submission. It fails while any edge is
// flagged dangling so that structurally invalid edges are never sent.
func (g *Graph) Snapshot() (PipelineDocument, error) {
	if dangling := g.DanglingEdges(); len(dangling) > 0 {
		return PipelineDocument{}, fmt.Errorf("%w: %d edge(s), first %s", ErrDanglingEdges, len(dangling), dangling[0].ID)
	}

	doc := PipelineDocument{
		Nodes: make([]NodeRecord, 0, len(g.nodes)),
		Edges: make([]EdgeRecord, 0, len(g.edges)),
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:       n.ID().String(),
			Type:     n.Type(),
			Position: n.Position(),
			Data:     copyMap(g.data[n.ID()]),
		})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, EdgeRecord{
			ID:           e.ID,
			Source:       e.Source.String(),
			SourceHandle: e.SourceHandle,
			Target:       e.Target.String(),
			TargetHandle: e.TargetHandle,
		})
	}
	return doc, nil
}

// GetUncommittedEvents returns events that haven't been persisted
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears the events after persistence
func (g *Graph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

func (g *Graph) onNodeChange(c entities.Change) {
	if _, ok := g.data[c.NodeID]; !ok {
		return
	}
	g.data[c.NodeID] = c.Data
	g.touch()
	g.addEvent(events.NewNodeDataChanged(g.id.String(), g.version, c.NodeID, copyMap(c.Data), g.updatedAt))

	if c.HandlesChanged {
		g.addEvent(events.NewNodePortsRecomputed(g.id.String(), g.version, c.NodeID, c.Handles, g.updatedAt))
		g.resolveDangling(c.NodeID, c.Handles)
	}
}

// resolveDangling applies the dangling policy to the edges of a node whose
// handles were recomputed. Under FlagDangling an edge whose handle reappears
// is restored.
func (g *Graph) resolveDangling(id valueobjects.NodeID, handles []valueobjects.Handle) {
	kept := g.edges[:0]
	for _, e := range g.edges {
		missing := missingHandle(e, id, handles)
		switch {
		case missing == "" && e.Dangling && g.endpointsPresent(e):
			e.Dangling = false
			e.MissingHandle = ""
		case missing == "":
		case g.policy == FlagDangling:
			if !e.Dangling || e.MissingHandle != missing {
				e.Dangling = true
				e.MissingHandle = missing
				g.addEvent(events.NewEdgeFlagged(g.id.String(), g.version, e.ref(), missing, g.updatedAt))
			}
		default:
			g.addEvent(events.NewEdgeDropped(g.id.String(), g.version, e.ref(), missing, g.updatedAt))
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
}

func (g *Graph) endpointsPresent(e *Edge) bool {
	src, err := g.GetNode(e.Source)
	if err != nil {
		return false
	}
	dst, err := g.GetNode(e.Target)
	if err != nil {
		return false
	}
	_, ok1 := src.Handle(e.SourceHandle)
	_, ok2 := dst.Handle(e.TargetHandle)
	return ok1 && ok2
}

// missingHandle returns the id of the endpoint handle on node id that is not in
// handles, or "" when both endpoints on that node still exist.
func missingHandle(e *Edge, id valueobjects.NodeID, handles []valueobjects.Handle) string {
	if e.Source.Equals(id) {
		if h, ok := valueobjects.FindHandle(handles, e.SourceHandle); !ok || !h.IsOutput() {
			return e.SourceHandle
		}
	}
	if e.Target.Equals(id) {
		if h, ok := valueobjects.FindHandle(handles, e.TargetHandle); !ok || !h.IsInput() {
			return e.TargetHandle
		}
	}
	return ""
}

func (g *Graph) touch() {
	g.updatedAt = time.Now()
	g.version++
}

func (g *Graph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package events

import (
	"time"

	"pipeline-builder/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(canvasID, eventType string, version int, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: canvasID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     version,
	}
}

// Event types
const (
	TypeNodeDropped         = "canvas.node_dropped"
	TypeNodeDataChanged     = "canvas.node_data_changed"
	TypeNodePortsRecomputed = "canvas.node_ports_recomputed"
	TypeNodeMoved           = "canvas.node_moved"
	TypeNodeDeleted         = "canvas.node_deleted"
	TypeEdgeConnected       = "canvas.edge_connected"
	TypeEdgeRemoved         = "canvas.edge_removed"
	TypeEdgeDropped         = "canvas.edge_dropped"
	TypeEdgeFlagged         = "canvas.edge_flagged"
	TypeCanvasReset         = "canvas.reset"
	TypePipelineAnalyzed    = "pipeline.analyzed"
)

// Node Events

// NodeDropped is raised when a node is placed on the canvas
type NodeDropped struct {
	BaseEvent
	NodeID   valueobjects.NodeID   `json:"node_id"`
	NodeType string                `json:"node_type"`
	Position valueobjects.Position `json:"position"`
}

// NewNodeDropped creates a NodeDropped event
func NewNodeDropped(canvasID string, version int, nodeID valueobjects.NodeID, nodeType string, pos valueobjects.Position, timestamp time.Time) NodeDropped {
	return NodeDropped{
		BaseEvent: newBase(canvasID, TypeNodeDropped, version, timestamp),
		NodeID:    nodeID,
		NodeType:  nodeType,
		Position:  pos,
	}
}

// NodeDataChanged carries the full data snapshot of a node after an edit
type NodeDataChanged struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
	Data   map[string]any      `json:"data"`
}

// NewNodeDataChanged creates a NodeDataChanged event
func NewNodeDataChanged(canvasID string, version int, nodeID valueobjects.NodeID, data map[string]any, timestamp time.Time) NodeDataChanged {
	return NodeDataChanged{
		BaseEvent: newBase(canvasID, TypeNodeDataChanged, version, timestamp),
		NodeID:    nodeID,
		Data:      data,
	}
}

// NodePortsRecomputed is raised when a node's handle set changes
type NodePortsRecomputed struct {
	BaseEvent
	NodeID  valueobjects.NodeID   `json:"node_id"`
	Handles []valueobjects.Handle `json:"handles"`
}

// NewNodePortsRecomputed creates a NodePortsRecomputed event
func NewNodePortsRecomputed(canvasID string, version int, nodeID valueobjects.NodeID, handles []valueobjects.Handle, timestamp time.Time) NodePortsRecomputed {
	return NodePortsRecomputed{
		BaseEvent: newBase(canvasID, TypeNodePortsRecomputed, version, timestamp),
		NodeID:    nodeID,
		Handles:   handles,
	}
}

// NodeMoved is raised when a node is moved to a new position
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(canvasID string, version int, nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent:   newBase(canvasID, TypeNodeMoved, version, timestamp),
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeDeleted is raised when a node and its edges leave the canvas
type NodeDeleted struct {
	BaseEvent
	NodeID       valueobjects.NodeID `json:"node_id"`
	RemovedEdges []string            `json:"removed_edges"`
}

// NewNodeDeleted creates a NodeDeleted event
func NewNodeDeleted(canvasID string, version int, nodeID valueobjects.NodeID, removedEdges []string, timestamp time.Time) NodeDeleted {
	return NodeDeleted{
		BaseEvent:    newBase(canvasID, TypeNodeDeleted, version, timestamp),
		NodeID:       nodeID,
		RemovedEdges: removedEdges,
	}
}

// Edge Events

// EdgeEvent describes one edge; it is shared by all edge event types
type EdgeEvent struct {
	BaseEvent
	EdgeID       string              `json:"edge_id"`
	Source       valueobjects.NodeID `json:"source"`
	SourceHandle string              `json:"source_handle"`
	Target       valueobjects.NodeID `json:"target"`
	TargetHandle string              `json:"target_handle"`
}

// EdgeConnected is raised when two handles are connected
type EdgeConnected struct{ EdgeEvent }

// EdgeRemoved is raised when an edge is deleted explicitly
type EdgeRemoved struct{ EdgeEvent }

// EdgeDropped is raised when a port recompute removed one of an edge's handles
// and the edge was discarded
type EdgeDropped struct {
	EdgeEvent
	MissingHandle string `json:"missing_handle"`
}

// EdgeFlagged is raised when an edge lost a handle and was kept as dangling
type EdgeFlagged struct {
	EdgeEvent
	MissingHandle string `json:"missing_handle"`
}

// EdgeRef identifies both ends of an edge
type EdgeRef struct {
	ID           string
	Source       valueobjects.NodeID
	SourceHandle string
	Target       valueobjects.NodeID
	TargetHandle string
}

func newEdgeEvent(canvasID, eventType string, version int, e EdgeRef, timestamp time.Time) EdgeEvent {
	return EdgeEvent{
		BaseEvent:    newBase(canvasID, eventType, version, timestamp),
		EdgeID:       e.ID,
		Source:       e.Source,
		SourceHandle: e.SourceHandle,
		Target:       e.Target,
		TargetHandle: e.TargetHandle,
	}
}

// NewEdgeConnected creates an EdgeConnected event
func NewEdgeConnected(canvasID string, version int, e EdgeRef, timestamp time.Time) EdgeConnected {
	return EdgeConnected{newEdgeEvent(canvasID, TypeEdgeConnected, version, e, timestamp)}
}

// NewEdgeRemoved creates an EdgeRemoved event
func NewEdgeRemoved(canvasID string, version int, e EdgeRef, timestamp time.Time) EdgeRemoved {
	return EdgeRemoved{newEdgeEvent(canvasID, TypeEdgeRemoved, version, e, timestamp)}
}

// NewEdgeDropped creates an EdgeDropped event
func NewEdgeDropped(canvasID string, version int, e EdgeRef, missing string, timestamp time.Time) EdgeDropped {
	return EdgeDropped{EdgeEvent: newEdgeEvent(canvasID, TypeEdgeDropped, version, e, timestamp), MissingHandle: missing}
}

// NewEdgeFlagged creates an EdgeFlagged event
func NewEdgeFlagged(canvasID string, version int, e EdgeRef, missing string, timestamp time.Time) EdgeFlagged {
	return EdgeFlagged{EdgeEvent: newEdgeEvent(canvasID, TypeEdgeFlagged, version, e, timestamp), MissingHandle: missing}
}

// Canvas Events

// CanvasReset is raised when every node and edge is removed
type CanvasReset struct {
	BaseEvent
	RemovedNodes int `json:"removed_nodes"`
	RemovedEdges int `json:"removed_edges"`
}

// NewCanvasReset creates a CanvasReset event
func NewCanvasReset(canvasID string, version, nodes, edges int, timestamp time.Time) CanvasReset {
	return CanvasReset{
		BaseEvent:    newBase(canvasID, TypeCanvasReset, version, timestamp),
		RemovedNodes: nodes,
		RemovedEdges: edges,
	}
}

// PipelineAnalyzed is raised by the validation service after each analysis
type PipelineAnalyzed struct {
	BaseEvent
	NumNodes int    `json:"num_nodes"`
	NumEdges int    `json:"num_edges"`
	IsDAG    bool   `json:"is_dag"`
	Error    string `json:"error,omitempty"`
}

// NewPipelineAnalyzed creates a PipelineAnalyzed event. The aggregate is the
// request that carried the pipeline.
func NewPipelineAnalyzed(requestID string, numNodes, numEdges int, isDAG bool, errMsg string, timestamp time.Time) PipelineAnalyzed {
	return PipelineAnalyzed{
		BaseEvent: newBase(requestID, TypePipelineAnalyzed, 1, timestamp),
		NumNodes:  numNodes,
		NumEdges:  numEdges,
		IsDAG:     isDAG,
		Error:     errMsg,
	}
}

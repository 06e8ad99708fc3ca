package services

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"pipeline-builder/application/ports"
	"pipeline-builder/domain/catalog"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/validators"
	"pipeline-builder/domain/core/valueobjects"
	"pipeline-builder/domain/events"
	pkgerrors "pipeline-builder/pkg/errors"
	"pipeline-builder/pkg/utils"
)

// DropPayload is the drag data carried from the toolbar onto the canvas
type DropPayload struct {
	NodeType string `json:"nodeType" validate:"required"`
}

// ParseDropPayload decodes and validates raw drag data
func ParseDropPayload(raw []byte) (DropPayload, error) {
	var p DropPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, pkgerrors.NewValidationError("invalid drop payload").WithCause(err)
	}
	if err := utils.ValidateStruct(p); err != nil {
		return p, pkgerrors.NewValidationError(err.Error())
	}
	return p, nil
}

// CanvasView is the full presentation model of the canvas
type CanvasView struct {
	ID      string              `json:"id"`
	Version int                 `json:"version"`
	Policy  string              `json:"danglingPolicy"`
	Nodes   []entities.NodeView `json:"nodes"`
	Edges   []aggregates.Edge   `json:"edges"`
}

// NodeTypeView describes one entry of the toolbar
type NodeTypeView struct {
	Type      string             `json:"type"`
	Label     string             `json:"label"`
	Title     string             `json:"title"`
	TypeLabel string             `json:"typeLabel,omitempty"`
	Template  bool               `json:"template,omitempty"`
	Fields    []fields.FieldSpec `json:"fields,omitempty"`
}

// EditorService owns one canvas and its node catalog. Every mutation and
// snapshot runs under a single mutex, so callers observe the canvas as if it
// were edited from one thread.
type EditorService struct {
	mu        sync.Mutex
	graph     *aggregates.Graph
	catalog   *catalog.Catalog
	counters  map[string]int
	validator *validators.PipelineValidator
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewEditorService creates an editor over an empty canvas. publisher may be
// nil, in which case canvas events are discarded.
func NewEditorService(
	cat *catalog.Catalog,
	policy aggregates.DanglingPolicy,
	validator *validators.PipelineValidator,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *EditorService {
	if validator == nil {
		validator = validators.NewPipelineValidator(nil)
	}
	return &EditorService{
		graph:     aggregates.NewGraph(policy),
		catalog:   cat,
		counters:  make(map[string]int),
		validator: validator,
		publisher: publisher,
		logger:    logger,
	}
}

// Catalog returns the catalog new nodes are instantiated from
func (s *EditorService) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// SetCatalog swaps the catalog. Nodes already on the canvas keep their schema.
func (s *EditorService) SetCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
	s.logger.Info("Node catalog replaced", zap.Int("types", c.Len()))
}

// NodeTypes lists the catalog in toolbar order
func (s *EditorService) NodeTypes() []NodeTypeView {
	cat := s.Catalog()
	out := make([]NodeTypeView, 0, cat.Len())
	for _, d := range cat.Types() {
		v := NodeTypeView{
			Type:      d.Type,
			Label:     d.Label,
			Title:     d.Title,
			TypeLabel: d.TypeLabel,
			Template:  d.NewBody != nil,
		}
		for _, f := range d.Fields {
			v.Fields = append(v.Fields, fields.ToSpec(f))
		}
		out = append(out, v)
	}
	return out
}

// DropNode places a node described by raw drag data at pos
func (s *EditorService) DropNode(ctx context.Context, payload []byte, pos valueobjects.Position) (entities.NodeView, error) {
	p, err := ParseDropPayload(payload)
	if err != nil {
		return entities.NodeView{}, err
	}
	return s.AddNode(ctx, p.NodeType, pos, nil)
}

// AddNode places a node of nodeType at pos. data seeds the node's fields.
func (s *EditorService) AddNode(ctx context.Context, nodeType string, pos valueobjects.Position, data map[string]any) (entities.NodeView, error) {
	var view entities.NodeView
	err := s.mutate(ctx, "add_node", func() error {
		if _, ok := s.catalog.Lookup(nodeType); !ok {
			return pkgerrors.NewUnknownNodeTypeError(nodeType)
		}
		if err := s.validator.CanAddNode(len(s.graph.Nodes())); err != nil {
			return err
		}
		if text, ok := data[entities.TextKey].(string); ok {
			if err := s.validator.ValidateTemplate(text); err != nil {
				return err
			}
		}

		id := s.nextNodeID(nodeType)
		node, err := s.catalog.Instantiate(nodeType, id, pos, data)
		if err != nil {
			return err
		}
		if err := s.graph.AddNode(node); err != nil {
			return err
		}
		view = s.catalog.View(node)
		return nil
	})
	if err == nil {
		s.logger.Debug("Node dropped", zap.String("nodeID", view.ID.String()), zap.String("type", nodeType))
	}
	return view, err
}

// EditField sets one field of a node, as if the user edited its control
func (s *EditorService) EditField(ctx context.Context, nodeID, field string, value any) (entities.NodeView, error) {
	var view entities.NodeView
	err := s.mutate(ctx, "edit_field", func() error {
		node, err := s.node(nodeID)
		if err != nil {
			return err
		}
		if _, isTemplate := node.Body().(*entities.TemplateBody); isTemplate && field == entities.TextKey {
			if err := s.validator.ValidateTemplate(fields.AsString(value)); err != nil {
				return err
			}
		}
		if err := node.SetField(field, value); err != nil {
			return err
		}
		view = s.catalog.View(node)
		return nil
	})
	return view, err
}

// SetText replaces the text of a template node
func (s *EditorService) SetText(ctx context.Context, nodeID, text string) (entities.NodeView, error) {
	return s.EditField(ctx, nodeID, entities.TextKey, text)
}

// MoveNode changes a node's position
func (s *EditorService) MoveNode(ctx context.Context, nodeID string, pos valueobjects.Position) (entities.NodeView, error) {
	var view entities.NodeView
	err := s.mutate(ctx, "move_node", func() error {
		node, err := s.node(nodeID)
		if err != nil {
			return err
		}
		if err := s.graph.MoveNode(node.ID(), pos); err != nil {
			return err
		}
		view = s.catalog.View(node)
		return nil
	})
	return view, err
}

// Connect links an output handle of source to an input handle of target
func (s *EditorService) Connect(ctx context.Context, source, sourceHandle, target, targetHandle string) (aggregates.Edge, error) {
	var edge aggregates.Edge
	err := s.mutate(ctx, "connect", func() error {
		src, err := parseNodeID(source)
		if err != nil {
			return err
		}
		tgt, err := parseNodeID(target)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateConnection(len(s.graph.Edges()), src, tgt); err != nil {
			return err
		}
		e, err := s.graph.Connect(src, sourceHandle, tgt, targetHandle)
		if err != nil {
			return err
		}
		edge = *e
		return nil
	})
	return edge, err
}

// DeleteNode removes a node and its edges
func (s *EditorService) DeleteNode(ctx context.Context, nodeID string) error {
	return s.mutate(ctx, "delete_node", func() error {
		id, err := parseNodeID(nodeID)
		if err != nil {
			return err
		}
		return s.graph.RemoveNode(id)
	})
}

// DeleteEdge removes one edge
func (s *EditorService) DeleteEdge(ctx context.Context, edgeID string) error {
	return s.mutate(ctx, "delete_edge", func() error {
		return s.graph.RemoveEdge(edgeID)
	})
}

// Reset clears the canvas and restarts id numbering
func (s *EditorService) Reset(ctx context.Context) error {
	return s.mutate(ctx, "reset", func() error {
		s.graph.Reset()
		s.counters = make(map[string]int)
		return nil
	})
}

// Snapshot serializes the canvas for submission
func (s *EditorService) Snapshot() (aggregates.PipelineDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.graph.Snapshot()
	return doc, translate(err)
}

// Canvas returns the presentation model of every node and edge
func (s *EditorService) Canvas() CanvasView {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := s.graph.Nodes()
	v := CanvasView{
		ID:      s.graph.ID().String(),
		Version: s.graph.Version(),
		Policy:  string(s.graph.Policy()),
		Nodes:   make([]entities.NodeView, 0, len(nodes)),
		Edges:   s.graph.Edges(),
	}
	for _, n := range nodes {
		v.Nodes = append(v.Nodes, s.catalog.View(n))
	}
	return v
}

// NodeView returns the presentation model of one node
func (s *EditorService) NodeView(nodeID string) (entities.NodeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, err := s.node(nodeID)
	if err != nil {
		return entities.NodeView{}, translate(err)
	}
	return s.catalog.View(node), nil
}

// mutate runs fn under the lock, then publishes whatever the canvas recorded.
// Publishing happens outside the lock and its failures never fail the edit.
func (s *EditorService) mutate(ctx context.Context, op string, fn func() error) error {
	s.mu.Lock()
	err := fn()
	pending := s.graph.GetUncommittedEvents()
	s.graph.MarkEventsAsCommitted()
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("Canvas operation rejected", zap.String("operation", op), zap.Error(err))
	}
	s.publish(ctx, pending)
	return translate(err)
}

func (s *EditorService) publish(ctx context.Context, pending []events.DomainEvent) {
	if s.publisher == nil || len(pending) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish canvas events",
			zap.Int("count", len(pending)),
			zap.Error(pkgerrors.NewEventPublishError(err)),
		)
	}
}

func (s *EditorService) node(nodeID string) (*entities.Node, error) {
	id, err := parseNodeID(nodeID)
	if err != nil {
		return nil, err
	}
	return s.graph.GetNode(id)
}

func (s *EditorService) nextNodeID(nodeType string) valueobjects.NodeID {
	for {
		s.counters[nodeType]++
		id := valueobjects.NewNodeID(nodeType, s.counters[nodeType])
		if !s.graph.HasNode(id) {
			return id
		}
	}
}

func parseNodeID(raw string) (valueobjects.NodeID, error) {
	id, err := valueobjects.NewNodeIDFromString(raw)
	if err != nil {
		return id, pkgerrors.NewValidationError(err.Error())
	}
	return id, nil
}

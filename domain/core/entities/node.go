package entities

import (
	"fmt"

	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
)

// DefaultFrame is the footprint of a node that does not size itself
var DefaultFrame = valueobjects.Size{Width: 200, Height: 80}

// Change is the notification a node sends after every edit. Data is always a
// full copy of the node's data mapping, never a delta.
type Change struct {
	NodeID         valueobjects.NodeID
	Data           map[string]any
	Handles        []valueobjects.Handle
	HandlesChanged bool
	Version        int
}

// Observer receives node changes
type Observer interface {
	OnNodeChange(Change)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(Change)

func (f ObserverFunc) OnNodeChange(c Change) { f(c) }

// Body is a custom node body that manages its own state and handles in place
// of a field schema. The node calls Bind once; the body calls notify after
// each of its own edits and must undo the edit when notify fails.
type Body interface {
	Bind(nodeID valueobjects.NodeID, notify func() error)
	Data() map[string]any
	Handles() []valueobjects.Handle
	SetField(name string, value any) error
	Frame() valueobjects.Size
	View() any
}

// NodeConfig is everything needed to create a node
type NodeConfig struct {
	ID          valueobjects.NodeID
	Type        string
	Title       string
	TypeLabel   string
	Position    valueobjects.Position
	Handles     []valueobjects.HandleSpec
	Fields      []fields.Descriptor
	Body        Body
	InitialData map[string]any
	Frame       valueobjects.Size
}

type subscription struct {
	id       int
	observer Observer
}

// Node is one configurable unit on the canvas. It is the only writer of its
// own data; observers receive copies.
type Node struct {
	id        valueobjects.NodeID
	nodeType  string
	title     string
	typeLabel string
	position  valueobjects.Position
	schema    []fields.Descriptor
	handles   []valueobjects.Handle
	body      Body
	data      map[string]any
	frame     valueobjects.Size
	version   int

	observers []subscription
	nextSub   int
}

// NewNode creates a node. Field values start from InitialData, then each
// field's default, then the empty value of its kind.
func NewNode(cfg NodeConfig) (*Node, error) {
	if cfg.ID.IsZero() {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidNode)
	}
	if cfg.Type == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidNode)
	}

	n := &Node{
		id:        cfg.ID,
		nodeType:  cfg.Type,
		title:     cfg.Title,
		typeLabel: cfg.TypeLabel,
		position:  cfg.Position,
		schema:    cfg.Fields,
		body:      cfg.Body,
		frame:     cfg.Frame,
		version:   1,
	}
	if n.title == "" {
		n.title = cfg.Type
	}
	if n.frame == (valueobjects.Size{}) {
		n.frame = DefaultFrame
	}

	if n.body != nil {
		n.body.Bind(n.id, n.onBodyChange)
		n.data = copyData(n.body.Data())
		n.handles = copyHandles(n.body.Handles())
		if _, err := valueobjects.ResolveHandles(n.id, specsOf(n.handles)); err != nil {
			return nil, err
		}
		return n, nil
	}

	handles, err := valueobjects.ResolveHandles(n.id, cfg.Handles)
	if err != nil {
		return nil, err
	}
	n.handles = handles
	n.data = fields.Defaults(cfg.Fields, cfg.InitialData)
	return n, nil
}

// ID returns the node's identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Type returns the node type; it never changes after creation
func (n *Node) Type() string {
	return n.nodeType
}

// Title returns the header title
func (n *Node) Title() string {
	return n.title
}

// TypeLabel returns the header badge text
func (n *Node) TypeLabel() string {
	return n.typeLabel
}

// Position returns the node's canvas position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// MoveTo changes the node's position
func (n *Node) MoveTo(pos valueobjects.Position) {
	n.position = pos
}

// Version increments with every emitted change
func (n *Node) Version() int {
	return n.version
}

// Data returns a copy of the node's current data mapping
func (n *Node) Data() map[string]any {
	return copyData(n.data)
}

// Handles returns a copy of the node's current handles
func (n *Node) Handles() []valueobjects.Handle {
	return copyHandles(n.handles)
}

// Handle looks one of the node's handles up by id
func (n *Node) Handle(id string) (valueobjects.Handle, bool) {
	return valueobjects.FindHandle(n.handles, id)
}

// Fields returns the node's field schema
func (n *Node) Fields() []fields.Descriptor {
	return n.schema
}

// Body returns the custom body, or nil
func (n *Node) Body() Body {
	return n.body
}

// Frame returns the node's rendered footprint
func (n *Node) Frame() valueobjects.Size {
	if n.body != nil {
		return n.body.Frame()
	}
	return n.frame
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are notified in subscription order.
func (n *Node) Subscribe(o Observer) func() {
	n.nextSub++
	id := n.nextSub
	n.observers = append(n.observers, subscription{id: id, observer: o})
	return func() {
		for i, s := range n.observers {
			if s.id == id {
				n.observers = append(n.observers[:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// Controls renders the visible fields of the node. Edits made through the
// returned controls update the node and notify observers. A node with a custom
// body has no controls.
func (n *Node) Controls() []fields.Control {
	if n.body != nil {
		return nil
	}
	return fields.Render(n.schema, n.data, n.applyEdit)
}

// SetField edits one field through the same path as a rendered control. Fields
// hidden by a ShowWhen condition can still be set.
func (n *Node) SetField(name string, value any) error {
	if n.body != nil {
		return n.body.SetField(name, value)
	}
	d, ok := fields.Find(n.schema, name)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrFieldNotFound, name, n.id)
	}
	c, ok := fields.NewControl(d, n.data, n.applyEdit)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrFieldNotFound, name, n.id)
	}
	return c.Set(value)
}

func (n *Node) applyEdit(name string, value any) {
	n.data[name] = value
	n.resetDependents(name)
	n.emit(false)
}

// resetDependents moves every select that depends on name back to its first
// option when its current value is no longer offered.
func (n *Node) resetDependents(name string) {
	for _, sel := range fields.Dependents(n.schema, name) {
		opts := sel.OptionsFor(n.data)
		current := fields.AsString(n.data[sel.Name])
		if fields.HasOption(opts, current) {
			continue
		}
		next := ""
		if len(opts) > 0 {
			next = opts[0].Value
		}
		n.data[sel.Name] = next
		n.resetDependents(sel.Name)
	}
}

// onBodyChange adopts the body's new state. A handle set with duplicate ids
// is refused and leaves the node unchanged.
func (n *Node) onBodyChange() error {
	handles := n.body.Handles()
	if _, err := valueobjects.ResolveHandles(n.id, specsOf(handles)); err != nil {
		return err
	}
	n.data = copyData(n.body.Data())
	changed := !valueobjects.SameHandles(n.handles, handles)
	n.handles = copyHandles(handles)
	n.emit(changed)
	return nil
}

func (n *Node) emit(handlesChanged bool) {
	n.version++
	for _, s := range append([]subscription(nil), n.observers...) {
		s.observer.OnNodeChange(Change{
			NodeID:         n.id,
			Data:           copyData(n.data),
			Handles:        copyHandles(n.handles),
			HandlesChanged: handlesChanged,
			Version:        n.version,
		})
	}
}

func copyData(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyHandles(h []valueobjects.Handle) []valueobjects.Handle {
	out := make([]valueobjects.Handle, len(h))
	copy(out, h)
	return out
}

func specsOf(handles []valueobjects.Handle) []valueobjects.HandleSpec {
	specs := make([]valueobjects.HandleSpec, len(handles))
	for i, h := range handles {
		specs[i] = valueobjects.HandleSpec{ID: h.ID, Name: h.Name, Direction: h.Direction, Side: h.Side, Offset: h.Offset}
	}
	return specs
}

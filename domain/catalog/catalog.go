// Package catalog binds every node type to its field schema and handle
// layout. Adding a node type means adding a Definition; the node abstraction
// itself never changes.
package catalog

import (
	"errors"
	"fmt"

	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
)

var (
	ErrUnknownType       = errors.New("unknown node type")
	ErrDuplicateType     = errors.New("node type already registered")
	ErrInvalidDefinition = errors.New("invalid node type definition")
)

// Definition is the static binding of one node type
type Definition struct {
	Type      string
	Label     string
	Title     string
	TypeLabel string
	Handles   []valueobjects.HandleSpec
	Fields    []fields.Descriptor
	Frame     valueobjects.Size
	// Defaults computes per-instance initial data, such as names derived from
	// the node id. It runs before the field defaults.
	Defaults func(id valueobjects.NodeID) map[string]any
	// NewBody, when set, gives the node a custom body instead of fields.
	NewBody func(data map[string]any) entities.Body
	// Preview renders a short derived text shown under the fields.
	Preview func(data map[string]any) string
}

// Catalog is an ordered, immutable-after-build set of node type definitions
type Catalog struct {
	defs  map[string]Definition
	order []string
}

// New builds a catalog from definitions, validating each one
func New(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a definition. Handle identities and field names must be
// unique within the type.
func (c *Catalog) Register(d Definition) error {
	if d.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidDefinition)
	}
	if _, exists := c.defs[d.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, d.Type)
	}
	if d.NewBody == nil {
		sample := valueobjects.NewNodeID(d.Type, 1)
		if _, err := valueobjects.ResolveHandles(sample, d.Handles); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.Type, err)
		}
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if f == nil {
			return fmt.Errorf("%w: %s: nil field", ErrInvalidDefinition, d.Type)
		}
		name := f.Field().Name
		if name == "" {
			return fmt.Errorf("%w: %s: field without name", ErrInvalidDefinition, d.Type)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s: duplicate field %s", ErrInvalidDefinition, d.Type, name)
		}
		seen[name] = struct{}{}
	}
	if d.Label == "" {
		d.Label = d.Type
	}
	if d.Title == "" {
		d.Title = d.Label
	}

	c.defs[d.Type] = d
	c.order = append(c.order, d.Type)
	return nil
}

// Lookup returns the definition of a node type
func (c *Catalog) Lookup(nodeType string) (Definition, bool) {
	d, ok := c.defs[nodeType]
	return d, ok
}

// Types returns the definitions in registration order
func (c *Catalog) Types() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.defs[t])
	}
	return out
}

// Len returns the number of registered types
func (c *Catalog) Len() int {
	return len(c.order)
}

// Instantiate creates a node of the given type. Explicit data wins over the
// type's per-instance defaults, which win over field defaults.
func (c *Catalog) Instantiate(nodeType string, id valueobjects.NodeID, pos valueobjects.Position, data map[string]any) (*entities.Node, error) {
	d, ok := c.defs[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, nodeType)
	}

	initial := map[string]any{}
	if d.Defaults != nil {
		for k, v := range d.Defaults(id) {
			initial[k] = v
		}
	}
	for k, v := range data {
		initial[k] = v
	}

	cfg := entities.NodeConfig{
		ID:          id,
		Type:        d.Type,
		Title:       d.Title,
		TypeLabel:   d.TypeLabel,
		Position:    pos,
		Handles:     d.Handles,
		Fields:      d.Fields,
		InitialData: initial,
		Frame:       d.Frame,
	}
	if d.NewBody != nil {
		cfg.Body = d.NewBody(initial)
		cfg.Handles = nil
		cfg.Fields = nil
	}
	return entities.NewNode(cfg)
}

// View builds the presentation model of a node, including the type's preview
func (c *Catalog) View(n *entities.Node) entities.NodeView {
	v := n.View()
	if d, ok := c.defs[n.Type()]; ok && d.Preview != nil {
		v.Preview = d.Preview(n.Data())
	}
	return v
}

func (c *Catalog) clone() *Catalog {
	out := &Catalog{defs: make(map[string]Definition, len(c.defs)), order: append([]string(nil), c.order...)}
	for k, v := range c.defs {
		v.Handles = append([]valueobjects.HandleSpec(nil), v.Handles...)
		v.Fields = append([]fields.Descriptor(nil), v.Fields...)
		out.defs[k] = v
	}
	return out
}

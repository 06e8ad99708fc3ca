package catalog

import (
	"fmt"

	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
)

// Overlay customises a catalog from configuration. It can relabel types,
// change field defaults, add select options and fields, and declare new
// field-based node types.
type Overlay struct {
	Types []TypeOverlay `json:"types" yaml:"types"`
}

// TypeOverlay changes or declares one node type
type TypeOverlay struct {
	Type      string                     `json:"type" yaml:"type"`
	Label     string                     `json:"label,omitempty" yaml:"label"`
	Title     string                     `json:"title,omitempty" yaml:"title"`
	TypeLabel string                     `json:"typeLabel,omitempty" yaml:"typeLabel"`
	Defaults  map[string]any             `json:"defaults,omitempty" yaml:"defaults"`
	Options   map[string][]fields.Option `json:"options,omitempty" yaml:"options"`
	Fields    []fields.FieldSpec         `json:"fields,omitempty" yaml:"fields"`
	Handles   []HandleConfig             `json:"handles,omitempty" yaml:"handles"`
}

// HandleConfig is the serialisable form of a handle spec
type HandleConfig struct {
	Name      string  `json:"name" yaml:"name"`
	Direction string  `json:"direction" yaml:"direction"`
	Side      string  `json:"side,omitempty" yaml:"side"`
	Offset    float64 `json:"offset,omitempty" yaml:"offset"`
}

func (h HandleConfig) spec() (valueobjects.HandleSpec, error) {
	var s valueobjects.HandleSpec
	switch valueobjects.Direction(h.Direction) {
	case valueobjects.DirectionInput:
		s = valueobjects.Input(h.Name)
	case valueobjects.DirectionOutput:
		s = valueobjects.Output(h.Name)
	default:
		return s, fmt.Errorf("handle %q: invalid direction %q", h.Name, h.Direction)
	}
	if h.Side != "" {
		s = s.On(valueobjects.Side(h.Side))
	}
	return s.At(h.Offset), nil
}

// Apply returns a new catalog with the overlay applied; the receiver is left
// untouched so a bad overlay never breaks the running catalog.
func (c *Catalog) Apply(o Overlay) (*Catalog, error) {
	next := c.clone()
	for _, t := range o.Types {
		if t.Type == "" {
			return nil, fmt.Errorf("%w: overlay without type", ErrInvalidDefinition)
		}
		d, exists := next.defs[t.Type]
		if !exists {
			nd, err := newDefinition(t)
			if err != nil {
				return nil, err
			}
			if err := next.Register(nd); err != nil {
				return nil, err
			}
			continue
		}
		if err := overlayDefinition(&d, t); err != nil {
			return nil, err
		}
		next.defs[t.Type] = d
	}
	return next, nil
}

func newDefinition(t TypeOverlay) (Definition, error) {
	d := Definition{Type: t.Type, Label: t.Label, Title: t.Title, TypeLabel: t.TypeLabel}
	if len(t.Handles) == 0 {
		return d, fmt.Errorf("%w: new type %s needs handles", ErrInvalidDefinition, t.Type)
	}
	for _, h := range t.Handles {
		s, err := h.spec()
		if err != nil {
			return d, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, t.Type, err)
		}
		d.Handles = append(d.Handles, s)
	}
	if err := overlayDefinition(&d, TypeOverlay{Fields: t.Fields, Defaults: t.Defaults, Options: t.Options}); err != nil {
		return d, err
	}
	return d, nil
}

func overlayDefinition(d *Definition, t TypeOverlay) error {
	if t.Label != "" {
		d.Label = t.Label
	}
	if t.Title != "" {
		d.Title = t.Title
	}
	if t.TypeLabel != "" {
		d.TypeLabel = t.TypeLabel
	}
	if len(t.Handles) > 0 {
		return fmt.Errorf("%w: %s: handles of a built-in type cannot change", ErrInvalidDefinition, d.Type)
	}

	for _, spec := range t.Fields {
		f, err := fields.FromSpec(spec)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.Type, err)
		}
		replaced := false
		for i, existing := range d.Fields {
			if existing.Field().Name == spec.Name {
				d.Fields[i] = f
				replaced = true
			}
		}
		if !replaced {
			d.Fields = append(d.Fields, f)
		}
	}

	for name, extra := range t.Options {
		if err := updateField(d, name, func(s *fields.FieldSpec) error {
			if s.Kind != string(fields.KindSelect) {
				return fmt.Errorf("field %s is not a select", name)
			}
			s.Options = append(append([]fields.Option(nil), s.Options...), extra...)
			return nil
		}); err != nil {
			return err
		}
	}

	for name, def := range t.Defaults {
		if err := updateField(d, name, func(s *fields.FieldSpec) error {
			s.Default = def
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func updateField(d *Definition, name string, fn func(*fields.FieldSpec) error) error {
	for i, f := range d.Fields {
		if f.Field().Name != name {
			continue
		}
		spec := fields.ToSpec(f)
		if err := fn(&spec); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.Type, err)
		}
		updated, err := fields.FromSpec(spec)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.Type, err)
		}
		d.Fields[i] = updated
		return nil
	}
	return fmt.Errorf("%w: %s has no field %s", ErrInvalidDefinition, d.Type, name)
}

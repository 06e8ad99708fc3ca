package entities

import (
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
)

// ControlView is the presentation model of one rendered control
type ControlView struct {
	Name        string          `json:"name"`
	Label       string          `json:"label,omitempty"`
	Kind        fields.Kind     `json:"kind"`
	Value       any             `json:"value"`
	Placeholder string          `json:"placeholder,omitempty"`
	Disabled    bool            `json:"disabled,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Options     []fields.Option `json:"options,omitempty"`
	Rows        int             `json:"rows,omitempty"`
	Min         *float64        `json:"min,omitempty"`
	Max         *float64        `json:"max,omitempty"`
	Step        *float64        `json:"step,omitempty"`
}

// NodeView is what a client needs to draw a node
type NodeView struct {
	ID        valueobjects.NodeID   `json:"id"`
	Type      string                `json:"type"`
	Title     string                `json:"title"`
	TypeLabel string                `json:"typeLabel,omitempty"`
	Position  valueobjects.Position `json:"position"`
	Frame     valueobjects.Size     `json:"frame"`
	Handles   []valueobjects.Handle `json:"handles"`
	Controls  []ControlView         `json:"controls,omitempty"`
	Body      any                   `json:"body,omitempty"`
	Preview   string                `json:"preview,omitempty"`
	Data      map[string]any        `json:"data"`
}

// View builds the node's presentation model from its current state
func (n *Node) View() NodeView {
	v := NodeView{
		ID:        n.id,
		Type:      n.nodeType,
		Title:     n.title,
		TypeLabel: n.typeLabel,
		Position:  n.position,
		Frame:     n.Frame(),
		Handles:   n.Handles(),
		Data:      n.Data(),
	}
	if n.body != nil {
		v.Body = n.body.View()
		return v
	}
	for _, c := range n.Controls() {
		v.Controls = append(v.Controls, ViewOf(c))
	}
	return v
}

// ViewOf describes a control for presentation
func ViewOf(c fields.Control) ControlView {
	common := c.Descriptor().Field()
	v := ControlView{
		Name:        c.Name(),
		Label:       common.Label,
		Kind:        c.Kind(),
		Value:       c.Value(),
		Placeholder: common.Placeholder,
		Disabled:    common.Disabled,
		Required:    common.Required,
	}
	switch c := c.(type) {
	case *fields.SelectControl:
		v.Options = c.Options()
	case *fields.MultilineControl:
		v.Rows = c.Rows()
	case *fields.NumberControl:
		v.Min, v.Max, v.Step = c.Bounds()
	}
	return v
}

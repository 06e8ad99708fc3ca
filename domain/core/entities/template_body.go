package entities

import (
	"fmt"

	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/templates"
	"pipeline-builder/domain/core/valueobjects"
)

const (
	// TextKey is the data key holding a template body's text
	TextKey = "text"

	// DefaultTemplateText is the text of a freshly dropped template node
	DefaultTemplateText = "{{input}}"

	templatePlaceholder = "Type here... {{variable}} for variables"
)

// TemplateBody is the body of a free-text node. Its input handles are derived
// from the {{variable}} references in its text and recomputed on every edit,
// so they always match the current text.
type TemplateBody struct {
	nodeID valueobjects.NodeID
	text   string
	ports  templates.Ports
	notify func() error
}

// TemplateView is the presentation model of a template body
type TemplateView struct {
	Text        string            `json:"text"`
	Variables   []string          `json:"variables"`
	Placeholder string            `json:"placeholder"`
	Highlight   bool              `json:"highlight"`
	Frame       valueobjects.Size `json:"frame"`
}

// NewTemplateBody creates a template body. Empty text falls back to
// DefaultTemplateText.
func NewTemplateBody(text string) *TemplateBody {
	if text == "" {
		text = DefaultTemplateText
	}
	return &TemplateBody{text: text}
}

// Bind attaches the body to its node and derives the initial handles
func (b *TemplateBody) Bind(nodeID valueobjects.NodeID, notify func() error) {
	b.nodeID = nodeID
	b.notify = notify
	b.recompute()
}

// Text returns the current text
func (b *TemplateBody) Text() string {
	return b.text
}

// Variables returns the distinct variables of the current text
func (b *TemplateBody) Variables() []string {
	out := make([]string, len(b.ports.Variables))
	copy(out, b.ports.Variables)
	return out
}

// SetText replaces the text, recomputes the handles and notifies the node.
// When the node rejects the new handles the previous text is restored.
func (b *TemplateBody) SetText(text string) error {
	prevText, prevPorts := b.text, b.ports
	b.text = text
	b.recompute()
	if b.notify == nil {
		return nil
	}
	if err := b.notify(); err != nil {
		b.text, b.ports = prevText, prevPorts
		return err
	}
	return nil
}

func (b *TemplateBody) SetField(name string, value any) error {
	if name != TextKey {
		return fmt.Errorf("%w: %s on %s", ErrFieldNotFound, name, b.nodeID)
	}
	return b.SetText(fields.AsString(value))
}

func (b *TemplateBody) Data() map[string]any {
	return map[string]any{TextKey: b.text}
}

func (b *TemplateBody) Handles() []valueobjects.Handle {
	return copyHandles(b.ports.Handles)
}

// Frame grows with the text and never drops below the minimum footprint
func (b *TemplateBody) Frame() valueobjects.Size {
	return templates.Footprint(b.text, len(b.ports.Variables))
}

func (b *TemplateBody) View() any {
	return TemplateView{
		Text:        b.text,
		Variables:   b.Variables(),
		Placeholder: templatePlaceholder,
		Highlight:   templates.HasVariables(b.text),
		Frame:       b.Frame(),
	}
}

func (b *TemplateBody) recompute() {
	b.ports = templates.Derive(b.nodeID, b.text)
}

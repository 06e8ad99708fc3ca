package fields

import (
	"fmt"
)

// ChangeFunc receives every edit made through a control
type ChangeFunc func(name string, value any)

// Control is one editable control produced by the renderer. Its state is local
// until an edit is emitted through the ChangeFunc.
type Control interface {
	Descriptor() Descriptor
	Name() string
	Kind() Kind
	Value() any
	// Set is the kind-agnostic edit path; it coerces the value to the kind.
	Set(value any) error
}

type baseControl struct {
	desc   Descriptor
	common Common
	emit   ChangeFunc
}

func (c *baseControl) Descriptor() Descriptor { return c.desc }
func (c *baseControl) Name() string           { return c.common.Name }
func (c *baseControl) Kind() Kind             { return c.desc.Kind() }

// Label returns the control label
func (c *baseControl) Label() string { return c.common.Label }

// Placeholder returns the control placeholder text
func (c *baseControl) Placeholder() string { return c.common.Placeholder }

func (c *baseControl) commit(value any) {
	if c.emit != nil {
		c.emit(c.common.Name, value)
	}
}

func (c *baseControl) editable() error {
	if c.common.Disabled {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, c.common.Name)
	}
	return nil
}

// TextControl edits a single-line string
type TextControl struct {
	baseControl
	value string
}

func (c *TextControl) Value() any { return c.value }

// Text returns the current string
func (c *TextControl) Text() string { return c.value }

// SetText replaces the string and emits the change
func (c *TextControl) SetText(s string) error {
	if err := c.editable(); err != nil {
		return err
	}
	c.value = s
	c.commit(s)
	return nil
}

func (c *TextControl) Set(value any) error { return c.SetText(AsString(value)) }

// MultilineControl edits a string over several lines
type MultilineControl struct {
	TextControl
	rows int
}

// Rows returns the visual row count
func (c *MultilineControl) Rows() int { return c.rows }

// SelectControl holds one value out of a fixed option list
type SelectControl struct {
	baseControl
	value   string
	options []Option
}

func (c *SelectControl) Value() any { return c.value }

// Options returns the active option list
func (c *SelectControl) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Select picks the option at index i
func (c *SelectControl) Select(i int) error {
	if i < 0 || i >= len(c.options) {
		return fmt.Errorf("%w: index %d of %s", ErrOptionNotAllowed, i, c.common.Name)
	}
	return c.choose(c.options[i].Value)
}

// Choose picks the option carrying value; values outside the list are refused
// and leave the control unchanged.
func (c *SelectControl) Choose(value string) error {
	if HasOption(c.options, value) {
		return c.choose(value)
	}
	return fmt.Errorf("%w: %q for %s", ErrOptionNotAllowed, value, c.common.Name)
}

func (c *SelectControl) choose(value string) error {
	if err := c.editable(); err != nil {
		return err
	}
	c.value = value
	c.commit(value)
	return nil
}

func (c *SelectControl) Set(value any) error { return c.Choose(AsString(value)) }

// NumberControl edits a numeric value. Min, Max and Step are hints for the
// view and are not enforced here.
type NumberControl struct {
	baseControl
	value float64
	min   *float64
	max   *float64
	step  *float64
}

func (c *NumberControl) Value() any { return c.value }

// Number returns the current value
func (c *NumberControl) Number() float64 { return c.value }

// Bounds returns the advisory min, max and step
func (c *NumberControl) Bounds() (min, max, step *float64) { return c.min, c.max, c.step }

// SetNumber replaces the value and emits the change
func (c *NumberControl) SetNumber(n float64) error {
	if err := c.editable(); err != nil {
		return err
	}
	if !IsFinite(n) {
		return fmt.Errorf("%s: %w: %v", c.common.Name, ErrNotANumber, n)
	}
	c.value = n
	c.commit(n)
	return nil
}

func (c *NumberControl) Set(value any) error {
	n, err := AsNumber(value)
	if err != nil {
		return fmt.Errorf("%s: %w", c.common.Name, err)
	}
	return c.SetNumber(n)
}

// SwitchControl edits a boolean
type SwitchControl struct {
	baseControl
	value bool
}

func (c *SwitchControl) Value() any { return c.value }

// On reports the switch state
func (c *SwitchControl) On() bool { return c.value }

// SetOn sets the switch state and emits the change
func (c *SwitchControl) SetOn(on bool) error {
	if err := c.editable(); err != nil {
		return err
	}
	c.value = on
	c.commit(on)
	return nil
}

// Toggle flips the switch
func (c *SwitchControl) Toggle() error { return c.SetOn(!c.value) }

func (c *SwitchControl) Set(value any) error { return c.SetOn(AsBool(value)) }

// Package fields holds the declarative field schema of node types and the
// renderer that turns a schema plus current values into editable controls.
//
// A Descriptor is a closed tagged variant: only the five kinds declared here
// exist, each carrying just the configuration its kind needs.
package fields

import (
	"fmt"
)

// Kind identifies a descriptor variant
type Kind string

const (
	KindText      Kind = "text"
	KindSelect    Kind = "select"
	KindMultiline Kind = "textarea"
	KindNumber    Kind = "number"
	KindSwitch    Kind = "switch"
)

// ParseKind maps a configuration string onto a Kind. Unknown kinds are
// rejected so that a misconfigured catalog fails at load time.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindText, KindSelect, KindMultiline, KindNumber, KindSwitch:
		return Kind(s), nil
	case "multiline":
		return KindMultiline, nil
	case "boolean", "bool":
		return KindSwitch, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Option is one choice of a select field
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Condition shows a field only while another field holds a given value
type Condition struct {
	Field  string `json:"field" yaml:"field"`
	Equals string `json:"equals" yaml:"equals"`
}

// Common is the configuration shared by every kind
type Common struct {
	Name        string
	Label       string
	Default     any
	Placeholder string
	Disabled    bool
	Required    bool
	ShowWhen    *Condition
}

// Field returns the shared configuration; every variant inherits it.
func (c Common) Field() Common {
	return c
}

// Descriptor is the static definition of one configurable property.
type Descriptor interface {
	Field() Common
	Kind() Kind
	descriptor()
}

// TextField is a single-line string
type TextField struct {
	Common
}

// SelectField is a choice constrained to an option list. When DependsOn names
// another field, the active list is OptionSets[value of that field].
type SelectField struct {
	Common
	Options    []Option
	DependsOn  string
	OptionSets map[string][]Option
}

// MultilineField is a string edited over several visual lines
type MultilineField struct {
	Common
	Rows int
}

// NumberField is a numeric value; bounds and step are advisory
type NumberField struct {
	Common
	Min  *float64
	Max  *float64
	Step *float64
}

// SwitchField is a two-state value
type SwitchField struct {
	Common
}

func (TextField) Kind() Kind      { return KindText }
func (SelectField) Kind() Kind    { return KindSelect }
func (MultilineField) Kind() Kind { return KindMultiline }
func (NumberField) Kind() Kind    { return KindNumber }
func (SwitchField) Kind() Kind    { return KindSwitch }

func (TextField) descriptor()      {}
func (SelectField) descriptor()    {}
func (MultilineField) descriptor() {}
func (NumberField) descriptor()    {}
func (SwitchField) descriptor()    {}

// OptionsFor returns the option list active under the given values
func (f SelectField) OptionsFor(values map[string]any) []Option {
	if f.DependsOn == "" {
		return f.Options
	}
	if set, ok := f.OptionSets[AsString(values[f.DependsOn])]; ok {
		return set
	}
	return f.Options
}

// RowCount returns the configured number of rows, 2 when unset
func (f MultilineField) RowCount() int {
	if f.Rows <= 0 {
		return 2
	}
	return f.Rows
}

// Float is a helper for building NumberField bounds
func Float(v float64) *float64 {
	return &v
}

// Visible evaluates the descriptor's ShowWhen condition against values
func Visible(d Descriptor, values map[string]any) bool {
	cond := d.Field().ShowWhen
	if cond == nil {
		return true
	}
	return AsString(values[cond.Field]) == cond.Equals
}

// InitialValue resolves the starting value of a field: the value present in
// data, falling back to the declared default, falling back to the kind's empty
// value. Values are coerced to the kind's Go type; a value the kind cannot
// hold, such as a select value outside the active options, is skipped.
func InitialValue(d Descriptor, data map[string]any) any {
	name := d.Field().Name
	if v, ok := data[name]; ok && v != nil {
		if out, ok := coerce(d, v, data); ok {
			return out
		}
	}
	if def := d.Field().Default; def != nil {
		if out, ok := coerce(d, def, data); ok {
			return out
		}
	}
	return empty(d, data)
}

func coerce(d Descriptor, v any, values map[string]any) (any, bool) {
	switch d := normalize(d).(type) {
	case TextField, MultilineField:
		return AsString(v), true
	case SelectField:
		s := AsString(v)
		opts := d.OptionsFor(values)
		if len(opts) > 0 && !HasOption(opts, s) {
			return nil, false
		}
		return s, true
	case NumberField:
		n, err := AsNumber(v)
		if err != nil {
			return nil, false
		}
		return n, true
	case SwitchField:
		return AsBool(v), true
	default:
		return v, true
	}
}

// HasOption reports whether v is the value of one of opts
func HasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func empty(d Descriptor, values map[string]any) any {
	switch d := normalize(d).(type) {
	case SelectField:
		if opts := d.OptionsFor(values); len(opts) > 0 {
			return opts[0].Value
		}
		return ""
	case NumberField:
		return float64(0)
	case SwitchField:
		return false
	default:
		return ""
	}
}

// normalize lets pointer variants behave like their value counterparts
func normalize(d Descriptor) Descriptor {
	switch p := d.(type) {
	case *TextField:
		return *p
	case *SelectField:
		return *p
	case *MultilineField:
		return *p
	case *NumberField:
		return *p
	case *SwitchField:
		return *p
	default:
		return d
	}
}

package fields

import (
	"fmt"
)

// FieldSpec is the serialisable form of a descriptor used by catalog files.
type FieldSpec struct {
	Name        string              `json:"name" yaml:"name"`
	Kind        string              `json:"kind" yaml:"kind"`
	Label       string              `json:"label,omitempty" yaml:"label"`
	Default     any                 `json:"default,omitempty" yaml:"default"`
	Placeholder string              `json:"placeholder,omitempty" yaml:"placeholder"`
	Disabled    bool                `json:"disabled,omitempty" yaml:"disabled"`
	Required    bool                `json:"required,omitempty" yaml:"required"`
	ShowWhen    *Condition          `json:"showWhen,omitempty" yaml:"showWhen"`
	Options     []Option            `json:"options,omitempty" yaml:"options"`
	DependsOn   string              `json:"dependsOn,omitempty" yaml:"dependsOn"`
	OptionSets  map[string][]Option `json:"optionSets,omitempty" yaml:"optionSets"`
	Rows        int                 `json:"rows,omitempty" yaml:"rows"`
	Min         *float64            `json:"min,omitempty" yaml:"min"`
	Max         *float64            `json:"max,omitempty" yaml:"max"`
	Step        *float64            `json:"step,omitempty" yaml:"step"`
}

// FromSpec builds a descriptor from its serialisable form
func FromSpec(s FieldSpec) (Descriptor, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("field name is required")
	}
	kind, err := ParseKind(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", s.Name, err)
	}
	common := Common{
		Name:        s.Name,
		Label:       s.Label,
		Default:     s.Default,
		Placeholder: s.Placeholder,
		Disabled:    s.Disabled,
		Required:    s.Required,
		ShowWhen:    s.ShowWhen,
	}

	switch kind {
	case KindText:
		return TextField{Common: common}, nil
	case KindMultiline:
		return MultilineField{Common: common, Rows: s.Rows}, nil
	case KindSelect:
		if len(s.Options) == 0 && len(s.OptionSets) == 0 {
			return nil, fmt.Errorf("field %s: select needs options", s.Name)
		}
		return SelectField{Common: common, Options: s.Options, DependsOn: s.DependsOn, OptionSets: s.OptionSets}, nil
	case KindNumber:
		return NumberField{Common: common, Min: s.Min, Max: s.Max, Step: s.Step}, nil
	case KindSwitch:
		return SwitchField{Common: common}, nil
	}
	return nil, fmt.Errorf("field %s: %w: %q", s.Name, ErrUnknownKind, s.Kind)
}

// ToSpec is the inverse of FromSpec
func ToSpec(d Descriptor) FieldSpec {
	c := d.Field()
	s := FieldSpec{
		Name:        c.Name,
		Kind:        string(d.Kind()),
		Label:       c.Label,
		Default:     c.Default,
		Placeholder: c.Placeholder,
		Disabled:    c.Disabled,
		Required:    c.Required,
		ShowWhen:    c.ShowWhen,
	}
	switch d := normalize(d).(type) {
	case SelectField:
		s.Options = d.Options
		s.DependsOn = d.DependsOn
		s.OptionSets = d.OptionSets
	case MultilineField:
		s.Rows = d.Rows
	case NumberField:
		s.Min, s.Max, s.Step = d.Min, d.Max, d.Step
	}
	return s
}

package fields

// NewControl builds the control for a single descriptor, initialised from
// values. The second result is false for a descriptor this renderer does not
// know, in which case nothing is rendered for it.
func NewControl(d Descriptor, values map[string]any, onChange ChangeFunc) (Control, bool) {
	if d == nil {
		return nil, false
	}
	base := baseControl{desc: d, common: d.Field(), emit: onChange}
	initial := InitialValue(d, values)

	switch d := normalize(d).(type) {
	case TextField:
		return &TextControl{baseControl: base, value: initial.(string)}, true
	case MultilineField:
		return &MultilineControl{
			TextControl: TextControl{baseControl: base, value: initial.(string)},
			rows:        d.RowCount(),
		}, true
	case SelectField:
		return &SelectControl{baseControl: base, value: initial.(string), options: d.OptionsFor(values)}, true
	case NumberField:
		return &NumberControl{baseControl: base, value: initial.(float64), min: d.Min, max: d.Max, step: d.Step}, true
	case SwitchField:
		return &SwitchControl{baseControl: base, value: initial.(bool)}, true
	default:
		return nil, false
	}
}

// Render produces one control per visible descriptor, in declaration order.
// Every edit on a returned control invokes onChange(name, value) exactly once.
func Render(descriptors []Descriptor, values map[string]any, onChange ChangeFunc) []Control {
	controls := make([]Control, 0, len(descriptors))
	for _, d := range descriptors {
		if d == nil || !Visible(d, values) {
			continue
		}
		if c, ok := NewControl(d, values, onChange); ok {
			controls = append(controls, c)
		}
	}
	return controls
}

// Find returns the descriptor with the given name
func Find(descriptors []Descriptor, name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d != nil && d.Field().Name == name {
			return d, true
		}
	}
	return nil, false
}

// Dependents returns the select fields whose options depend on name
func Dependents(descriptors []Descriptor, name string) []SelectField {
	var out []SelectField
	for _, d := range descriptors {
		if sel, ok := normalize(d).(SelectField); ok && sel.DependsOn == name {
			out = append(out, sel)
		}
	}
	return out
}

// Defaults resolves the initial value of every descriptor
func Defaults(descriptors []Descriptor, data map[string]any) map[string]any {
	out := make(map[string]any, len(descriptors))
	for k, v := range data {
		out[k] = v
	}
	for _, d := range descriptors {
		if d == nil {
			continue
		}
		out[d.Field().Name] = InitialValue(d, out)
	}
	return out
}

package catalog

import (
	"pipeline-builder/domain/core/entities"
	"pipeline-builder/domain/core/fields"
	"pipeline-builder/domain/core/valueobjects"
)

// Node type identifiers, as carried by the drop payload
const (
	TypeInput     = "customInput"
	TypeOutput    = "customOutput"
	TypeLLM       = "llm"
	TypeText      = "text"
	TypeFilter    = "filter"
	TypeTransform = "transform"
	TypeCondition = "condition"
	TypeMerge     = "merge"
	TypeLoop      = "loop"
)

var (
	in  = valueobjects.Input
	out = valueobjects.Output

	tallFrame = valueobjects.Size{Width: 200, Height: 100}
	wideFrame = valueobjects.Size{Width: 224, Height: 200}
)

func opts(pairs ...string) []fields.Option {
	o := make([]fields.Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		o = append(o, fields.Option{Value: pairs[i], Label: pairs[i+1]})
	}
	return o
}

// nameFromID derives "input_3" from "customInput-3". Ids minted for another
// type are used as-is.
func nameFromID(nodeType, prefix string) func(valueobjects.NodeID) map[string]any {
	key := prefix + "Name"
	return func(id valueobjects.NodeID) map[string]any {
		name := id.String()
		if suffix := id.Suffix(nodeType); suffix != "" {
			name = prefix + "_" + suffix
		}
		return map[string]any{key: name}
	}
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(Builtin()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Builtin returns the built-in node type definitions, in toolbar order
func Builtin() []Definition {
	return []Definition{
		{
			Type:      TypeInput,
			Label:     "Input",
			Title:     "Input Node",
			TypeLabel: "Input",
			Handles:   []valueobjects.HandleSpec{out("value")},
			Fields: []fields.Descriptor{
				fields.TextField{Common: fields.Common{Name: "inputName", Label: "Name"}},
				fields.SelectField{
					Common:  fields.Common{Name: "inputType", Label: "Type", Default: "Text"},
					Options: opts("Text", "Text", "File", "File"),
				},
			},
			Defaults: nameFromID(TypeInput, "input"),
		},
		{
			Type:      TypeLLM,
			Label:     "LLM",
			Title:     "LLM",
			TypeLabel: "Model",
			Handles: []valueobjects.HandleSpec{
				in("system").At(0.3),
				in("prompt").At(0.7),
				out("response"),
			},
			Fields: []fields.Descriptor{
				fields.SelectField{
					Common: fields.Common{Name: "model", Label: "Model"},
					Options: opts(
						"gpt-4o", "GPT-4o",
						"gpt-4", "GPT-4",
						"gpt-3.5-turbo", "GPT-3.5 Turbo",
						"claude-3-5-sonnet", "Claude 3.5 Sonnet",
					),
				},
				fields.NumberField{
					Common: fields.Common{Name: "temperature", Label: "Temperature", Default: 0.7},
					Min:    fields.Float(0),
					Max:    fields.Float(2),
					Step:   fields.Float(0.1),
				},
				fields.NumberField{
					Common: fields.Common{Name: "maxTokens", Label: "Max Tokens", Default: 1024},
					Min:    fields.Float(1),
					Step:   fields.Float(1),
				},
				fields.SwitchField{Common: fields.Common{Name: "stream", Label: "Stream"}},
			},
			Frame: wideFrame,
		},
		{
			Type:      TypeOutput,
			Label:     "Output",
			Title:     "Output Node",
			TypeLabel: "Output",
			Handles:   []valueobjects.HandleSpec{in("value")},
			Fields: []fields.Descriptor{
				fields.TextField{Common: fields.Common{Name: "outputName", Label: "Name"}},
				fields.SelectField{
					Common:  fields.Common{Name: "outputType", Label: "Type", Default: "Text"},
					Options: opts("Text", "Text", "File", "Image"),
				},
			},
			Defaults: nameFromID(TypeOutput, "output"),
		},
		{
			Type:      TypeText,
			Label:     "Text",
			Title:     "Text",
			TypeLabel: "Template",
			NewBody: func(data map[string]any) entities.Body {
				return entities.NewTemplateBody(fields.AsString(data[entities.TextKey]))
			},
		},
		{
			Type:      TypeFilter,
			Label:     "Filter",
			Title:     "Filter",
			TypeLabel: "Logic",
			Handles:   []valueobjects.HandleSpec{in("input"), out("output")},
			Fields: []fields.Descriptor{
				fields.SelectField{
					Common:  fields.Common{Name: "filterType", Label: "Filter Type", Default: "text"},
					Options: opts("text", "Text", "number", "Number", "date", "Date"),
				},
				fields.SelectField{
					Common:    fields.Common{Name: "condition", Label: "Condition", Default: "equals"},
					DependsOn: "filterType",
					OptionSets: map[string][]fields.Option{
						"text": opts(
							"equals", "Equals",
							"contains", "Contains",
							"startsWith", "Starts With",
							"endsWith", "Ends With",
						),
						"number": opts(
							"equals", "=",
							"greater", ">",
							"less", "<",
							"greaterOrEqual", ">=",
							"lessOrEqual", "<=",
							"notEqual", "≠",
						),
						"date": opts(
							"before", "Before",
							"after", "After",
							"on", "On",
							"notOn", "Not On",
							"between", "Between",
						),
					},
				},
				fields.TextField{Common: fields.Common{Name: "value", Label: "Value", Placeholder: "Enter value..."}},
			},
			Frame: wideFrame,
		},
		{
			Type:      TypeTransform,
			Label:     "Transform",
			Title:     "Transform",
			TypeLabel: "Text",
			Handles:   []valueobjects.HandleSpec{in("input"), out("output")},
			Fields: []fields.Descriptor{
				fields.SelectField{
					Common:  fields.Common{Name: "transformType", Label: "Transform", Default: TransformUppercase},
					Options: transformOptions(),
				},
				fields.TextField{
					Common: fields.Common{
						Name:        "customFunction",
						Label:       "Custom Function",
						Placeholder: "e.g., (text) => text.toUpperCase()",
						ShowWhen:    &fields.Condition{Field: "transformType", Equals: TransformCustom},
					},
				},
			},
			Frame: wideFrame,
			Preview: func(data map[string]any) string {
				return TransformPreview(fields.AsString(data["transformType"]), fields.AsString(data["customFunction"]))
			},
		},
		{
			Type:      TypeCondition,
			Label:     "Condition",
			Title:     "Condition",
			TypeLabel: "Logic",
			Handles: []valueobjects.HandleSpec{
				in("input"),
				out("true").At(0.25),
				out("false").At(0.75),
			},
			Fields: []fields.Descriptor{
				fields.SelectField{
					Common:  fields.Common{Name: "operator", Label: "Operator", Default: ">"},
					Options: opts(">", ">", "<", "<", "==", "==", "!=", "!=", ">=", ">=", "<=", "<="),
				},
				fields.TextField{Common: fields.Common{Name: "value", Label: "Value", Default: "0", Placeholder: "Enter comparison value"}},
			},
			Frame: tallFrame,
		},
		{
			Type:      TypeMerge,
			Label:     "Merge",
			Title:     "Merge",
			TypeLabel: "Flow",
			Handles: []valueobjects.HandleSpec{
				in("input1").At(0.25),
				in("input2").At(0.75),
				out("output"),
			},
			Fields: []fields.Descriptor{
				fields.SelectField{
					Common:  fields.Common{Name: "mergeType", Label: "Merge Type", Default: "concat"},
					Options: opts("concat", "Concatenate", "add", "Add", "multiply", "Multiply", "combine", "Combine"),
				},
				fields.TextField{Common: fields.Common{Name: "separator", Label: "Separator", Default: " ", Placeholder: "Separator for concatenation"}},
			},
			Frame: tallFrame,
		},
		{
			Type:      TypeLoop,
			Label:     "Loop",
			Title:     "Loop",
			TypeLabel: "Flow",
			Handles: []valueobjects.HandleSpec{
				in("input"),
				out("output"),
				out("loop").On(valueobjects.SideBottom),
			},
			Fields: []fields.Descriptor{
				fields.TextField{Common: fields.Common{Name: "iterations", Label: "Iterations", Default: "3", Placeholder: "Number of iterations"}},
				fields.SelectField{
					Common:  fields.Common{Name: "loopType", Label: "Loop Type", Default: "for"},
					Options: opts("for", "For Loop", "while", "While Loop", "map", "Map"),
				},
			},
			Frame: tallFrame,
		},
	}
}

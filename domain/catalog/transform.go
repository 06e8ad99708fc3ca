package catalog

import (
	"strings"
	"unicode"

	"pipeline-builder/domain/core/fields"
)

// Transform kinds of the transform node
const (
	TransformUppercase  = "uppercase"
	TransformLowercase  = "lowercase"
	TransformCapitalize = "capitalize"
	TransformReverse    = "reverse"
	TransformTrim       = "trim"
	TransformCustom     = "custom"
)

const previewSample = "Example text"

func transformOptions() []fields.Option {
	return opts(
		TransformUppercase, "UPPERCASE",
		TransformLowercase, "lowercase",
		TransformCapitalize, "Capitalize Words",
		TransformReverse, "Reverse Text",
		TransformTrim, "Trim Whitespace",
		TransformCustom, "Custom Function",
	)
}

// TransformPreview shows what a transform does to a sample text. A custom
// transform is described rather than run.
func TransformPreview(kind, custom string) string {
	switch kind {
	case TransformUppercase:
		return strings.ToUpper(previewSample)
	case TransformLowercase:
		return strings.ToLower(previewSample)
	case TransformCapitalize:
		words := strings.Split(previewSample, " ")
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, " ")
	case TransformReverse:
		r := []rune(previewSample)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r)
	case TransformTrim:
		return strings.TrimSpace(previewSample)
	case TransformCustom:
		if custom == "" {
			return "Define your function"
		}
		return "Custom: " + custom + "(input)"
	default:
		return previewSample
	}
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	if len(r) == 0 {
		return w
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

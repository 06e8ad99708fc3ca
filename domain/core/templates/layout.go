package templates

import (
	"strings"
	"unicode/utf8"

	"pipeline-builder/domain/core/valueobjects"
)

// Layout metrics of the template node frame, in canvas pixels.
const (
	MinWidth  = 200
	MinHeight = 80

	charWidth   = 7.5
	lineHeight  = 19.6
	framePad    = 40
	textareaPad = 16
	badgeRow    = 20
)

// MinSize is the smallest footprint of a template node
var MinSize = valueobjects.Size{Width: MinWidth, Height: MinHeight}

// Footprint estimates the frame size needed to show text without scrolling.
// Width follows the longest line and height the line count; a row of variable
// badges is added when varCount > 0. The result never drops below MinSize.
func Footprint(text string, varCount int) valueobjects.Size {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}

	size := valueobjects.Size{
		Width:  float64(longest)*charWidth + textareaPad + framePad,
		Height: float64(len(lines))*lineHeight + textareaPad + framePad,
	}
	if varCount > 0 {
		size.Height += badgeRow
	}
	return size.Max(MinSize)
}

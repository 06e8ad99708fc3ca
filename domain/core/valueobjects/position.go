package valueobjects

// Position is a 2D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Size is the rendered footprint of a node frame in canvas pixels
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Max returns the component-wise maximum of two sizes
func (s Size) Max(other Size) Size {
	if other.Width > s.Width {
		s.Width = other.Width
	}
	if other.Height > s.Height {
		s.Height = other.Height
	}
	return s
}

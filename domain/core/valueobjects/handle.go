package valueobjects

import (
	"fmt"
)

// Direction tells whether a handle accepts or emits connections
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Side is the edge of the node frame a handle is anchored to
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// DefaultOffset centers a handle along its side.
const DefaultOffset = 0.5

// Handle is a directional connection point on a node.
// Offset is the fraction (0..1) along the anchor side.
type Handle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Side      Side      `json:"side"`
	Offset    float64   `json:"offset"`
	NodeID    NodeID    `json:"nodeId"`
}

// IsInput reports whether the handle is a connection target
func (h Handle) IsInput() bool {
	return h.Direction == DirectionInput
}

// IsOutput reports whether the handle is a connection source
func (h Handle) IsOutput() bool {
	return h.Direction == DirectionOutput
}

// HandleSpec is the static, per-node-type description of a handle
type HandleSpec struct {
	ID        string
	Name      string
	Direction Direction
	Side      Side
	Offset    float64
}

// Input declares an input handle on the left side
func Input(name string) HandleSpec {
	return HandleSpec{Name: name, Direction: DirectionInput, Side: SideLeft}
}

// Output declares an output handle on the right side
func Output(name string) HandleSpec {
	return HandleSpec{Name: name, Direction: DirectionOutput, Side: SideRight}
}

// At returns a copy of the handle spec positioned at the given offset
func (s HandleSpec) At(offset float64) HandleSpec {
	s.Offset = offset
	return s
}

// On returns a copy of the handle spec anchored to another side
func (s HandleSpec) On(side Side) HandleSpec {
	s.Side = side
	return s
}

// HandleID builds the default identity of a named handle: "{nodeId}-{name}".
func HandleID(nodeID NodeID, name string) string {
	return nodeID.String() + "-" + name
}

// ResolveHandles turns handle specs into concrete handles for one node.
//
// Identity is the explicit ID when set, otherwise "{nodeId}-{name}". A spec with
// neither gets "{nodeId}-{direction}-{k}" where k counts handles of that
// direction, so the fallback is stable across re-renders. Duplicate identities
// within the node are reported as an error.
func ResolveHandles(nodeID NodeID, specs []HandleSpec) ([]Handle, error) {
	handles := make([]Handle, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	ordinal := map[Direction]int{}

	for _, spec := range specs {
		if spec.Direction != DirectionInput && spec.Direction != DirectionOutput {
			return nil, fmt.Errorf("handle %q: invalid direction %q", spec.Name, spec.Direction)
		}
		ordinal[spec.Direction]++

		id := spec.ID
		switch {
		case id != "":
		case spec.Name != "":
			id = HandleID(nodeID, spec.Name)
		default:
			id = fmt.Sprintf("%s-%s-%d", nodeID, spec.Direction, ordinal[spec.Direction])
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHandle, id)
		}
		seen[id] = struct{}{}

		side := spec.Side
		if side == "" {
			side = SideLeft
			if spec.Direction == DirectionOutput {
				side = SideRight
			}
		}
		offset := spec.Offset
		if offset == 0 {
			offset = DefaultOffset
		}

		handles = append(handles, Handle{
			ID:        id,
			Name:      spec.Name,
			Direction: spec.Direction,
			Side:      side,
			Offset:    offset,
			NodeID:    nodeID,
		})
	}
	return handles, nil
}

// FindHandle looks a handle up by id
func FindHandle(handles []Handle, id string) (Handle, bool) {
	for _, h := range handles {
		if h.ID == id {
			return h, true
		}
	}
	return Handle{}, false
}

// SameHandles reports whether two ordered handle lists are identical
func SameHandles(a, b []Handle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

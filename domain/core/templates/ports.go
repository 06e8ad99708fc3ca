package templates

import (
	"pipeline-builder/domain/core/valueobjects"
)

// OutputName is the name of the single output handle of a template node
const OutputName = "output"

// DeriveHandles computes the full handle list of a template node from its
// variables: one left-side input per variable, then one right-side output.
//
// Handles are spaced evenly over n+1 slots: input i sits at (i+1)/(n+2) and the
// output follows the last input, or is centred when there are no inputs.
// The output always owns "{nodeId}-output"; an input whose id would clash
// with it, or with an earlier input, gets "-var" appended until it is unique.
// The result depends only on nodeID and vars.
func DeriveHandles(nodeID valueobjects.NodeID, vars []string) []valueobjects.Handle {
	n := len(vars)
	slots := float64(n + 2)
	handles := make([]valueobjects.Handle, 0, n+1)

	outputID := valueobjects.HandleID(nodeID, OutputName)
	taken := map[string]struct{}{outputID: {}}

	for i, name := range vars {
		id := valueobjects.HandleID(nodeID, name)
		for {
			if _, clash := taken[id]; !clash {
				break
			}
			id += "-var"
		}
		taken[id] = struct{}{}

		handles = append(handles, valueobjects.Handle{
			ID:        id,
			Name:      name,
			Direction: valueobjects.DirectionInput,
			Side:      valueobjects.SideLeft,
			Offset:    float64(i+1) / slots,
			NodeID:    nodeID,
		})
	}

	offset := valueobjects.DefaultOffset
	if n > 0 {
		offset = float64(n+1) / slots
	}
	handles = append(handles, valueobjects.Handle{
		ID:        outputID,
		Name:      OutputName,
		Direction: valueobjects.DirectionOutput,
		Side:      valueobjects.SideRight,
		Offset:    offset,
		NodeID:    nodeID,
	})
	return handles
}

// Ports is the derived port state of a template text
type Ports struct {
	Variables []string
	Handles   []valueobjects.Handle
}

// Derive extracts variables from text and derives the handles in one step
func Derive(nodeID valueobjects.NodeID, text string) Ports {
	vars := ExtractVariables(text)
	return Ports{Variables: vars, Handles: DeriveHandles(nodeID, vars)}
}

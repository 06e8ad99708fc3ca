package valueobjects

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NodeID is a value object representing a unique node identifier on the canvas.
// Canvas ids take the form "{nodeType}-{n}", mirroring the drop payload mapping.
type NodeID struct {
	value string
}

// NewNodeID creates the canonical id for the n-th node of a given type
func NewNodeID(nodeType string, n int) NodeID {
	return NodeID{value: fmt.Sprintf("%s-%d", nodeType, n)}
}

// NewNodeIDFromString creates a NodeID from an existing string
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return NodeID{}, errors.New("node ID cannot contain whitespace")
	}
	return NodeID{value: id}, nil
}

// MustNodeID is NewNodeIDFromString for literals known to be valid.
func MustNodeID(id string) NodeID {
	nodeID, err := NewNodeIDFromString(id)
	if err != nil {
		panic(err)
	}
	return nodeID
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// Equal is Equals under the name go-cmp looks for.
func (id NodeID) Equal(other NodeID) bool {
	return id.Equals(other)
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// Suffix returns the part of the id after the given type prefix, or "" when the
// id was not minted for that type.
func (id NodeID) Suffix(nodeType string) string {
	prefix := nodeType + "-"
	if !strings.HasPrefix(id.value, prefix) {
		return ""
	}
	return strings.TrimPrefix(id.value, prefix)
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("NodeID must be a string")
	}
	id.value = s
	return nil
}

package entities

import "errors"

var (
	// ErrInvalidNode is returned when a node configuration is incomplete
	ErrInvalidNode = errors.New("invalid node")

	// ErrFieldNotFound is returned when an edit names a field the node does not declare
	ErrFieldNotFound = errors.New("field not found")
)

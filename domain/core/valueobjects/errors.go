package valueobjects

import "errors"

// ErrDuplicateHandle is returned when two handles of one node share an identity.
// It indicates a broken node-type definition rather than a user error.
var ErrDuplicateHandle = errors.New("duplicate handle id")

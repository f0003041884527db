package tree

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a tree node. IDs are process-wide unique and monotonically
// assigned. The zero ID means "no node" and is the parent of every top-level
// node.
type ID uint64

// NoID is the parent ID of top-level nodes.
const NoID ID = 0

// globalIDCounter is the source of unique node IDs.
var globalIDCounter uint64

// NewID returns the next unique node ID.
// IDs are monotonically increasing and never reused.
func NewID() ID {
	return ID(atomic.AddUint64(&globalIDCounter, 1))
}

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

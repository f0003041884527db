// Package tree holds the per-generation tree of internal nodes built from a
// component descriptor tree.
//
// # Identity
//
// Every Node carries an ID that is allocated once, on construction, and never
// changes. A node built with a previous-generation counterpart (the node found
// under the same Key in the previous parent) inherits the counterpart's ID, so
// the same logical position keeps the same ID across generations. Reuse
// decisions compare IDs, never component pointers.
//
// # Ownership
//
// A RootNode owns every node of one generation, keyed by ID, together with the
// parent relation. Nodes refer to their parent by ID only. A previous
// generation is consulted through lookups (RootNode.NodeForID,
// Node.ChildForKey) and can be dropped as soon as nothing looks it up.
//
// Once a generation is built it is never mutated again, so readers of an old
// generation need no locking.
package tree

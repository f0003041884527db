package build

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/vango-dev/componenttree/pkg/tree"
)

// DirtyIDs is the set of node IDs that must be rebuilt in a pass. It is
// upward closed: when an ID is present, so is every ID on its path to the
// root.
type DirtyIDs = mapset.Set[tree.ID]

// NewDirtyIDs returns a set holding ids. Passes are single threaded, so the
// set is not synchronized.
func NewDirtyIDs(ids ...tree.ID) DirtyIDs {
	return mapset.NewThreadUnsafeSet(ids...)
}

// TreeNodeDirtyIDsFor returns the dirty IDs for a pass. A NewTree pass
// rebuilds every node and gets an empty set; any other trigger against an
// existing previous generation gets the path to the root of every updated
// node. Updates targeting IDs that are no longer part of previousRoot are
// skipped.
func TreeNodeDirtyIDsFor(previousRoot *tree.RootNode, updates StateUpdates, trigger Trigger) DirtyIDs {
	dirty := NewDirtyIDs()
	if previousRoot == nil || trigger == TriggerNewTree {
		return dirty
	}
	for _, id := range updates.IDs() {
		MarkTreeNodeDirtyIDsFromNodeUntilRoot(id, previousRoot, dirty)
	}
	return dirty
}

// MarkTreeNodeDirtyIDsFromNodeUntilRoot adds id and every ancestor of id in
// previousRoot to dirty. The walk stops at the first ID already present,
// since the rest of its path is present too. Marking an unknown ID does
// nothing.
func MarkTreeNodeDirtyIDsFromNodeUntilRoot(id tree.ID, previousRoot *tree.RootNode, dirty DirtyIDs) {
	if !previousRoot.Has(id) {
		return
	}
	for current := id; current != tree.NoID; {
		if !dirty.Add(current) {
			return
		}
		parent, ok := previousRoot.ParentID(current)
		if !ok {
			return
		}
		current = parent
	}
}

// ComponentHasStateUpdate reports whether node's previous-generation
// counterpart, looked up through previousParent, has a pending state update
// of its own. Pending updates count whatever the trigger. Builders compute it
// once per level and pass it down as parentHasStateUpdate.
func ComponentHasStateUpdate(node, previousParent *tree.Node, p *Params) bool {
	if previousParent == nil {
		return false
	}
	prev := previousParent.ChildForKey(node.Key())
	if prev == nil || prev.ID() != node.ID() {
		return false
	}
	return p.updates.Has(prev.ID())
}

package tree

import (
	"slices"

	"github.com/vango-dev/componenttree/internal/errors"
)

// RootNode owns every node of one generation.
type RootNode struct {
	generation uint64
	container  *Node
	nodes      map[ID]*Node
	parents    map[ID]ID

	// scopes holds state for components whose state is not kept on their
	// node (see StateOf).
	scopes map[ID]any

	sealed bool
}

// NewRoot creates an empty generation. The container is the implicit parent
// of top-level nodes; it has NoID and is not registered.
func NewRoot(generation uint64, vectorIndex bool) *RootNode {
	return &RootNode{
		generation: generation,
		container: &Node{
			id:         NoID,
			kind:       KindWithChildren,
			generation: generation,
			index:      newChildIndex(vectorIndex),
		},
		nodes:   make(map[ID]*Node),
		parents: make(map[ID]ID),
		scopes:  make(map[ID]any),
	}
}

// Generation returns the generation number.
func (r *RootNode) Generation() uint64 {
	return r.generation
}

// Container returns the implicit parent of top-level nodes.
func (r *RootNode) Container() *Node {
	return r.container
}

// Register inserts n under parent and records it in this generation.
// Registering an ID twice in one generation is a fatal precondition
// violation.
func (r *RootNode) Register(n, parent *Node) {
	if parent == nil {
		errors.Fail("T004", "registering node %d (%s)", n.id, n.key)
	}
	r.mustBeOpen()
	r.insert(n, parent.id)
	n.parent = parent.id
	n.generation = r.generation
	parent.mustBeOpen()
	parent.appendChild(n)
}

// RegisterReused inserts a node whose children were adopted from prev, and
// records the shared descendants in this generation without touching them.
// Scope state kept in prev for the shared descendants is carried over.
func (r *RootNode) RegisterReused(n, parent *Node, prev *RootNode) {
	r.Register(n, parent)
	var walk func(p *Node)
	walk = func(p *Node) {
		for _, c := range p.children {
			r.insert(c, p.id)
			if s, ok := prev.ScopeState(c.id); ok {
				r.scopes[c.id] = s
			}
			walk(c)
		}
	}
	walk(n)
}

func (r *RootNode) insert(n *Node, parent ID) {
	if _, exists := r.nodes[n.id]; exists {
		errors.Fail("T001", "node %d (%s) already registered in generation %d", n.id, n.key, r.generation)
	}
	r.nodes[n.id] = n
	r.parents[n.id] = parent
}

// NodeForID returns the node registered under id.
func (r *RootNode) NodeForID(id ID) (*Node, bool) {
	if r == nil {
		return nil, false
	}
	n, ok := r.nodes[id]
	return n, ok
}

// ParentID returns the parent of id in this generation. Top-level nodes
// report NoID.
func (r *RootNode) ParentID(id ID) (ID, bool) {
	if r == nil {
		return NoID, false
	}
	p, ok := r.parents[id]
	return p, ok
}

// Has reports whether id is part of this generation.
func (r *RootNode) Has(id ID) bool {
	_, ok := r.NodeForID(id)
	return ok
}

// Owns reports whether n is this generation's node for its ID, or the
// container itself.
func (r *RootNode) Owns(n *Node) bool {
	if n == r.container {
		return true
	}
	got, ok := r.nodes[n.id]
	return ok && got == n
}

// Len returns the number of registered nodes.
func (r *RootNode) Len() int {
	return len(r.nodes)
}

// IDs returns every ID registered in this generation, ascending.
func (r *RootNode) IDs() []ID {
	ids := make([]ID, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Orphaned returns the IDs present in prev but not in r, ascending.
// Callers use it to drop state kept for nodes that no longer exist.
func (r *RootNode) Orphaned(prev *RootNode) []ID {
	if prev == nil {
		return nil
	}
	var out []ID
	for id := range prev.nodes {
		if _, ok := r.nodes[id]; !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Walk visits every node in render order (pre-order). Returning false skips
// the visited node's subtree.
func (r *RootNode) Walk(fn func(*Node) bool) {
	r.container.Walk(fn)
}

// SetScopeState stores state for id in the scope table.
func (r *RootNode) SetScopeState(id ID, state any) {
	r.mustBeOpen()
	r.scopes[id] = state
}

// ScopeState returns state stored for id in the scope table.
func (r *RootNode) ScopeState(id ID) (any, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.scopes[id]
	return s, ok
}

// StateOf returns n's state, looking at the node first and at the scope
// table second.
func (r *RootNode) StateOf(n *Node) (any, bool) {
	if s, ok := n.State(); ok {
		return s, true
	}
	return r.ScopeState(n.id)
}

// Seal freezes the generation. Any further structural mutation fails.
func (r *RootNode) Seal() {
	r.sealed = true
	r.container.sealed = true
	for _, n := range r.nodes {
		n.sealed = true
	}
}

// Sealed reports whether Seal was called.
func (r *RootNode) Sealed() bool {
	return r.sealed
}

func (r *RootNode) mustBeOpen() {
	if r.sealed {
		errors.Fail("T006", "generation %d is sealed", r.generation)
	}
}

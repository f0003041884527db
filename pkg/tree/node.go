package tree

import (
	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
)

// Kind describes how many child slots a node exposes.
type Kind uint8

const (
	KindLeaf         Kind = iota // No child slots
	KindWithChild                // Exactly one child slot
	KindWithChildren             // Ordered child slots
	KindRender                   // One slot plus the cached produced child
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindWithChild:
		return "WithChild"
	case KindWithChildren:
		return "WithChildren"
	case KindRender:
		return "Render"
	default:
		return "Unknown"
	}
}

// Spec describes a node to construct.
type Spec struct {
	Kind      Kind
	Component component.Component
	Key       Key

	// Previous is the previous-generation counterpart, if any. When set,
	// the new node inherits its ID.
	Previous *Node

	// VectorIndex selects an ordered scan instead of a hash index for
	// ChildForKey lookups.
	VectorIndex bool
}

// Node is one position in the component tree for one generation.
type Node struct {
	id         ID
	kind       Kind
	key        Key
	component  component.Component
	parent     ID
	generation uint64

	state    any
	hasState bool
	layout   any
	produced component.Component

	children  []*Node
	index     childIndex
	keyCounts map[keyBase]int

	sealed bool
}

// New constructs a node. The ID is taken from s.Previous when present and
// freshly allocated otherwise; it cannot change afterwards.
func New(s Spec) *Node {
	var id ID
	if s.Previous != nil {
		id = s.Previous.id
	} else {
		id = NewID()
	}
	return &Node{
		id:        id,
		kind:      s.Kind,
		key:       s.Key,
		component: s.Component,
		index:     newChildIndex(s.VectorIndex),
	}
}

// ID returns the node identifier.
func (n *Node) ID() ID {
	return n.id
}

// Kind returns the node kind.
func (n *Node) Kind() Kind {
	return n.kind
}

// Key returns the key the node was registered under in its parent.
func (n *Node) Key() Key {
	return n.key
}

// Component returns the component instance that produced this node.
func (n *Node) Component() component.Component {
	return n.component
}

// ParentID returns the parent's ID, or NoID for top-level nodes.
func (n *Node) ParentID() ID {
	return n.parent
}

// Generation returns the generation the node was first registered in.
// Nodes shared by a reused subtree keep their original generation.
func (n *Node) Generation() uint64 {
	return n.generation
}

// State returns the node's state and whether it has one.
func (n *Node) State() (any, bool) {
	return n.state, n.hasState
}

// Layout returns the cached layout, if any.
func (n *Node) Layout() any {
	return n.layout
}

// SetLayout caches a layout computed for this node. Layout is computed after
// the build pass, so this is allowed on sealed generations.
func (n *Node) SetLayout(layout any) {
	n.layout = layout
}

// ProducedChild returns the component a render node computed (or reused).
func (n *Node) ProducedChild() component.Component {
	return n.produced
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns the i-th child in render order.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Children returns a copy of the ordered children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildForKey returns the child registered under key, or nil.
// It is safe to call on a nil node, which has no children.
func (n *Node) ChildForKey(key Key) *Node {
	if n == nil {
		return nil
	}
	pos, ok := n.index.lookup(n.children, key)
	if !ok {
		return nil
	}
	return n.children[pos]
}

// Walk visits the node's descendants in pre-order. Returning false from fn
// skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// NextKey returns the key for the next child of component type typ with
// user key name, counting earlier siblings with the same type and name.
func (n *Node) NextKey(typ, name string) Key {
	n.mustBeOpen()
	if n.keyCounts == nil {
		n.keyCounts = make(map[keyBase]int)
	}
	b := keyBase{typ: typ, name: name}
	occ := n.keyCounts[b]
	n.keyCounts[b] = occ + 1
	return Key{Type: typ, Name: name, Occurrence: occ}
}

// SetState stores the node's state.
func (n *Node) SetState(state any) {
	n.mustBeOpen()
	n.state = state
	n.hasState = true
}

// SetProducedChild records the component a render node computed.
func (n *Node) SetProducedChild(c component.Component) {
	n.mustBeOpen()
	n.produced = c
}

// AdoptChildren shares prev's children with n. The children are not copied:
// a reused subtree is the same set of immutable nodes in both generations.
func (n *Node) AdoptChildren(prev *Node) {
	n.mustBeOpen()
	for _, c := range prev.children {
		n.appendChild(c)
	}
}

func (n *Node) appendChild(c *Node) {
	n.index.add(c.key, len(n.children))
	n.children = append(n.children, c)
}

func (n *Node) mustBeOpen() {
	if n.sealed {
		errors.Fail("T006", "node %d (%s) belongs to a sealed generation", n.id, n.key)
	}
}

package build

import (
	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// checkInputs enforces the shared builder contract.
func checkInputs(c component.Component, parent, previousParent *tree.Node, p *Params) {
	if component.IsNil(c) {
		errors.Fail("T002", "component under parent %d", parentID(parent))
	}
	if parent == nil {
		errors.Fail("T004", "building %s", c.TypeName())
	}
	if !p.root.Owns(parent) {
		errors.Fail("T003", "parent %d is not part of generation %d", parent.ID(), p.root.Generation())
	}
	if previousParent != nil && (p.previousRoot == nil || !p.previousRoot.Owns(previousParent)) {
		errors.Fail("T003", "previous parent %d is not part of the previous generation", previousParent.ID())
	}
}

func parentID(n *tree.Node) tree.ID {
	if n == nil {
		return tree.NoID
	}
	return n.ID()
}

// newNode constructs the node for c and returns it with its previous
// counterpart, if any. The node is not registered yet.
func newNode(kind tree.Kind, c component.Component, parent, previousParent *tree.Node, p *Params) (*tree.Node, *tree.Node) {
	key := parent.NextKey(c.TypeName(), component.KeyOf(c))
	prev := previousParent.ChildForKey(key)
	n := tree.New(tree.Spec{
		Kind:        kind,
		Component:   c,
		Key:         key,
		Previous:    prev,
		VectorIndex: p.config.Unify.UseVector,
	})
	return n, prev
}

// resolveState sets the state of a rebuilt node: the counterpart's state
// with pending updates applied, or the initial state on first build.
func resolveState(n, prev *tree.Node, c component.Component, p *Params) {
	s, ok := c.(component.Stateful)
	if !ok {
		return
	}
	var (
		value any
		found bool
	)
	if prev != nil {
		value, found = p.previousRoot.StateOf(prev)
		if p.updates.Has(prev.ID()) {
			if !found {
				value, found = s.InitialState(), true
			}
			value = p.updates.apply(prev.ID(), value)
			if !p.dirty.Contains(prev.ID()) {
				// NewTree passes have no up-front set.
				p.MarkDirty(prev.ID())
			}
		}
	}
	if !found {
		value = s.InitialState()
	}
	storeState(n, c, value, p)
}

// carryState copies the counterpart's state onto a reused node.
func carryState(n, prev *tree.Node, c component.Component, p *Params) {
	if _, ok := c.(component.Stateful); !ok {
		return
	}
	if value, found := p.previousRoot.StateOf(prev); found {
		storeState(n, c, value, p)
	}
}

func storeState(n *tree.Node, c component.Component, value any, p *Params) {
	if p.config.Unify.Enable || component.ShapeOf(c).IsRender() {
		n.SetState(value)
		return
	}
	p.root.SetScopeState(n.ID(), value)
}

// stateOf returns the state a render method receives.
func stateOf(n *tree.Node, p *Params) any {
	s, _ := p.root.StateOf(n)
	return s
}

package build

import (
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// BuildRenderLayout builds a layout component that computes its single
// declared child. It shares the reuse gate with BuildRender and returns the
// container node.
func BuildRenderLayout(c component.RenderLayout, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) *tree.Node {
	checkInputs(c, parent, previousParent, p)

	n, prev := newNode(tree.KindWithChild, c, parent, previousParent, p)
	if canReuse(c, prev, previousParent, p, parentHasStateUpdate) {
		reuseSubtree(n, prev, parent, c, p)
		return n
	}

	resolveState(n, prev, c, p)
	p.root.Register(n, parent)
	p.report.record(n.ID(), OutcomeRebuilt)

	p.report.Rendered++
	child := c.RenderLayout(stateOf(n, p))
	n.SetProducedChild(child)
	if component.IsNil(child) {
		return n
	}
	hasStateUpdate := parentHasStateUpdate || ComponentHasStateUpdate(n, previousParent, p)
	dispatch(child, n, prev, p, hasStateUpdate)
	return n
}

// BuildRenderLayoutWithChildren builds a layout component that computes its
// ordered declared children. Children are built in the order returned;
// nil children are skipped.
func BuildRenderLayoutWithChildren(c component.RenderLayoutWithChildren, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) *tree.Node {
	checkInputs(c, parent, previousParent, p)

	n, prev := newNode(tree.KindWithChildren, c, parent, previousParent, p)
	if canReuse(c, prev, previousParent, p, parentHasStateUpdate) {
		reuseSubtree(n, prev, parent, c, p)
		return n
	}

	resolveState(n, prev, c, p)
	p.root.Register(n, parent)
	p.report.record(n.ID(), OutcomeRebuilt)

	p.report.Rendered++
	children := c.RenderChildren(stateOf(n, p))
	hasStateUpdate := parentHasStateUpdate || ComponentHasStateUpdate(n, previousParent, p)
	for _, child := range children {
		if component.IsNil(child) {
			continue
		}
		dispatch(child, n, prev, p, hasStateUpdate)
	}
	return n
}

package build

import (
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// BuildRender builds a render component under parent and returns its node
// together with the child component it produced.
//
// When the reuse gate holds, the previous subtree is adopted as is, the
// previous produced child is returned, onReuse (if any) and the pass reuse
// callback are called with c, and c.Render is not called. Otherwise c.Render
// runs with the node's state and the produced child is built under the node.
func BuildRender(c component.Render, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool, onReuse ReuseFunc) (*tree.Node, component.Component) {
	checkInputs(c, parent, previousParent, p)

	kind := tree.KindWithChild
	if p.config.Unify.UseRenderNodes {
		kind = tree.KindRender
	}
	n, prev := newNode(kind, c, parent, previousParent, p)

	if canReuse(c, prev, previousParent, p, parentHasStateUpdate) {
		reuseSubtree(n, prev, parent, c, p)
		if onReuse != nil {
			onReuse(c)
		}
		return n, n.ProducedChild()
	}

	resolveState(n, prev, c, p)
	p.root.Register(n, parent)
	p.report.record(n.ID(), OutcomeRebuilt)

	p.report.Rendered++
	child := c.Render(stateOf(n, p))
	n.SetProducedChild(child)
	if component.IsNil(child) {
		return n, nil
	}
	hasStateUpdate := parentHasStateUpdate || ComponentHasStateUpdate(n, previousParent, p)
	dispatch(child, n, prev, p, hasStateUpdate)
	return n, child
}

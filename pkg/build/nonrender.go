package build

import (
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// BuildNonRender builds c, whose single child was computed by its parent,
// then builds child under c's node. Non-render nodes are always rebuilt;
// only their render-style descendants can be reused.
func BuildNonRender(c, child component.Component, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) {
	checkInputs(c, parent, previousParent, p)

	kind := tree.KindWithChildren
	if p.config.Unify.UseSingleChildNodeForComposite {
		kind = tree.KindWithChild
	}
	n, prev := buildNonRenderNode(kind, c, parent, previousParent, p)
	if component.IsNil(child) {
		return
	}
	hasStateUpdate := parentHasStateUpdate || ComponentHasStateUpdate(n, previousParent, p)
	dispatch(child, n, prev, p, hasStateUpdate)
}

// BuildNonRenderWithChildren builds c, whose ordered children were computed
// by its parent, then builds each child under c's node in order. Nil
// children are skipped.
func BuildNonRenderWithChildren(c component.Component, children []component.Component, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) {
	checkInputs(c, parent, previousParent, p)

	n, prev := buildNonRenderNode(tree.KindWithChildren, c, parent, previousParent, p)
	hasStateUpdate := parentHasStateUpdate || ComponentHasStateUpdate(n, previousParent, p)
	for _, child := range children {
		if component.IsNil(child) {
			continue
		}
		dispatch(child, n, prev, p, hasStateUpdate)
	}
}

func buildNonRenderNode(kind tree.Kind, c component.Component, parent, previousParent *tree.Node, p *Params) (*tree.Node, *tree.Node) {
	n, prev := newNode(kind, c, parent, previousParent, p)
	resolveState(n, prev, c, p)
	p.root.Register(n, parent)
	p.report.record(n.ID(), OutcomeRebuilt)
	return n, prev
}

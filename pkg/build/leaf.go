package build

import (
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// BuildLeaf builds the terminal node for c under parent. A reusable leaf
// keeps its counterpart's state and cached layout; otherwise it is rebuilt
// with any pending state updates applied.
func BuildLeaf(c component.Component, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) {
	checkInputs(c, parent, previousParent, p)

	n, prev := newNode(tree.KindLeaf, c, parent, previousParent, p)
	if canReuse(c, prev, previousParent, p, parentHasStateUpdate) {
		carryState(n, prev, c, p)
		n.SetLayout(prev.Layout())
		p.root.Register(n, parent)
		p.report.record(n.ID(), OutcomeReused)
		return
	}

	resolveState(n, prev, c, p)
	p.root.Register(n, parent)
	p.report.record(n.ID(), OutcomeRebuilt)
}

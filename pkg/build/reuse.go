package build

import (
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// canReuse is the reuse gate shared by every builder. A state update on an
// ancestor always forces a rebuild, even when c reports equal props.
func canReuse(c component.Component, prev, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) bool {
	if prev == nil || previousParent == nil {
		return false
	}
	if p.trigger == TriggerNewTree || parentHasStateUpdate {
		return false
	}
	if p.isDirty(prev.ID()) || p.updates.Has(prev.ID()) {
		return false
	}
	if p.trigger.Has(TriggerPropsUpdate) {
		u, ok := c.(component.Updater)
		return ok && !u.ShouldComponentUpdate(prev.Component())
	}
	return p.trigger.Has(TriggerStateUpdate)
}

// reuseSubtree turns n into a copy of prev that shares prev's children,
// registers it under parent and notifies the reuse callback.
func reuseSubtree(n, prev, parent *tree.Node, c component.Component, p *Params) {
	carryState(n, prev, c, p)
	n.SetProducedChild(prev.ProducedChild())
	if p.config.EnableLayoutCacheInRender {
		n.SetLayout(prev.Layout())
	}
	n.AdoptChildren(prev)
	p.root.RegisterReused(n, parent, p.previousRoot)
	p.report.record(n.ID(), OutcomeReused)
	n.Walk(func(*tree.Node) bool {
		p.report.Shared++
		return true
	})
	if p.onReuse != nil {
		p.onReuse(c)
		p.report.Notified++
	}
	p.logger.Debug("reused subtree",
		"id", n.ID(),
		"key", n.Key().String(),
		"shared", n.ChildCount())
}

package build

import (
	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// dispatch builds c with the builder matching its shape.
func dispatch(c component.Component, parent, previousParent *tree.Node, p *Params, parentHasStateUpdate bool) {
	switch component.ShapeOf(c) {
	case component.ShapeLeaf:
		BuildLeaf(c, parent, previousParent, p, parentHasStateUpdate)
	case component.ShapeWithChild:
		BuildNonRender(c, c.(component.WithChild).Child(), parent, previousParent, p, parentHasStateUpdate)
	case component.ShapeWithChildren:
		BuildNonRenderWithChildren(c, c.(component.WithChildren).Children(), parent, previousParent, p, parentHasStateUpdate)
	case component.ShapeRender:
		BuildRender(c.(component.Render), parent, previousParent, p, parentHasStateUpdate, nil)
	case component.ShapeRenderLayout:
		BuildRenderLayout(c.(component.RenderLayout), parent, previousParent, p, parentHasStateUpdate)
	case component.ShapeRenderLayoutWithChildren:
		BuildRenderLayoutWithChildren(c.(component.RenderLayoutWithChildren), parent, previousParent, p, parentHasStateUpdate)
	default:
		errors.Fail("T005", "%s (%T)", c.TypeName(), c)
	}
}

// Package component defines the shapes a component descriptor can take when
// it is built into a tree.
//
// The descriptor language itself lives outside this module. All a build pass
// needs is to know, once per node, which of a closed set of shapes a
// component has:
//
//   - Leaf: no children.
//   - WithChild / WithChildren: the parent already computed the child (or
//     children) and hands them over as props.
//   - Render: the component computes its single child lazily from its state.
//   - RenderLayout / RenderLayoutWithChildren: a layout container that
//     computes its declared child (or children) from its state.
//
// ShapeOf resolves the shape by interface assertion. A component that
// implements more than one shape interface resolves to the first match in
// the order Render, RenderLayoutWithChildren, RenderLayout, WithChildren,
// WithChild, Leaf.
package component

package component

// Shape is the build strategy discriminator.
type Shape uint8

const (
	ShapeUnknown                  Shape = iota
	ShapeLeaf                           // No children
	ShapeWithChild                      // Precomputed single child
	ShapeWithChildren                   // Precomputed ordered children
	ShapeRender                         // Lazily computed single child
	ShapeRenderLayout                   // Layout container, computed single child
	ShapeRenderLayoutWithChildren       // Layout container, computed children
)

// String returns the string representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeLeaf:
		return "Leaf"
	case ShapeWithChild:
		return "WithChild"
	case ShapeWithChildren:
		return "WithChildren"
	case ShapeRender:
		return "Render"
	case ShapeRenderLayout:
		return "RenderLayout"
	case ShapeRenderLayoutWithChildren:
		return "RenderLayoutWithChildren"
	default:
		return "Unknown"
	}
}

// IsRender reports whether components of this shape compute their children
// themselves.
func (s Shape) IsRender() bool {
	return s == ShapeRender || s == ShapeRenderLayout || s == ShapeRenderLayoutWithChildren
}

// ShapeOf resolves the shape of c.
func ShapeOf(c Component) Shape {
	switch c.(type) {
	case Render:
		return ShapeRender
	case RenderLayoutWithChildren:
		return ShapeRenderLayoutWithChildren
	case RenderLayout:
		return ShapeRenderLayout
	case WithChildren:
		return ShapeWithChildren
	case WithChild:
		return ShapeWithChild
	case Leaf:
		return ShapeLeaf
	default:
		return ShapeUnknown
	}
}

// ContainsRender reports whether a render-style component is reachable from
// c through precomputed children. Render-style components end the search:
// their children are not known until they are built.
func ContainsRender(c Component) bool {
	if IsNil(c) {
		return false
	}
	switch s := ShapeOf(c); s {
	case ShapeRender, ShapeRenderLayout, ShapeRenderLayoutWithChildren:
		return true
	case ShapeWithChild:
		return ContainsRender(c.(WithChild).Child())
	case ShapeWithChildren:
		for _, child := range c.(WithChildren).Children() {
			if ContainsRender(child) {
				return true
			}
		}
	}
	return false
}

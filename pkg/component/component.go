package component

import "reflect"

// Component is any descriptor that can be built into a tree node.
type Component interface {
	// TypeName names the component type. Together with Keyed.Key it
	// identifies the same logical component across generations.
	TypeName() string
}

// Leaf is a component with no children.
type Leaf interface {
	Component
	IsLeaf()
}

// WithChild is a component whose single child was computed by its parent.
type WithChild interface {
	Component
	Child() Component
}

// WithChildren is a component whose ordered children were computed by its
// parent.
type WithChildren interface {
	Component
	Children() []Component
}

// Render is a component that computes its single child from its state.
type Render interface {
	Component
	Render(state any) Component
}

// RenderLayout is a layout container that computes its single declared
// child from its state.
type RenderLayout interface {
	Component
	RenderLayout(state any) Component
}

// RenderLayoutWithChildren is a layout container that computes its ordered
// declared children from its state.
type RenderLayoutWithChildren interface {
	Component
	RenderChildren(state any) []Component
}

// Keyed components carry a user supplied key that distinguishes siblings of
// the same type.
type Keyed interface {
	Key() string
}

// Stateful components own state that survives across generations.
type Stateful interface {
	InitialState() any
}

// Updater lets a component skip a rebuild on a props update when nothing it
// renders from has changed.
type Updater interface {
	// ShouldComponentUpdate reports whether the component must be rebuilt
	// given the previous generation's instance.
	ShouldComponentUpdate(previous Component) bool
}

// KeyOf returns the user key of c, or "" if c is not Keyed.
func KeyOf(c Component) string {
	if k, ok := c.(Keyed); ok {
		return k.Key()
	}
	return ""
}

// IsNil reports whether c is nil or a typed nil pointer.
func IsNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

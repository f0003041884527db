package treetest

import (
	"reflect"

	"github.com/vango-dev/componenttree/pkg/component"
)

// shouldUpdate compares props when memo is set. Without memo a fixture
// always updates.
func shouldUpdate(memo bool, props any, prev component.Component) bool {
	if !memo {
		return true
	}
	p, ok := propsOf(prev)
	if !ok {
		return true
	}
	return !reflect.DeepEqual(p, props)
}

func propsOf(c component.Component) (any, bool) {
	switch v := c.(type) {
	case *Leaf:
		return v.Props, true
	case *Box:
		return v.Props, true
	case *Stack:
		return v.Props, true
	case *Render:
		return v.Props, true
	case *Frame:
		return v.Props, true
	case *Column:
		return v.Props, true
	}
	return nil, false
}

// Leaf is a component without children.
type Leaf struct {
	Name    string
	ID      string
	Initial any
	Props   any
	Memo    bool
}

func (l *Leaf) TypeName() string {
	if l.Name != "" {
		return l.Name
	}
	return "Leaf"
}
func (l *Leaf) Key() string       { return l.ID }
func (l *Leaf) InitialState() any { return l.Initial }
func (l *Leaf) IsLeaf()           {}
func (l *Leaf) ShouldComponentUpdate(prev component.Component) bool {
	return shouldUpdate(l.Memo, l.Props, prev)
}

// Box is a non-render component with one precomputed child.
type Box struct {
	Name    string
	ID      string
	Initial any
	Props   any
	Inner   component.Component
}

func (x *Box) TypeName() string {
	if x.Name != "" {
		return x.Name
	}
	return "Box"
}
func (x *Box) Key() string                { return x.ID }
func (x *Box) InitialState() any          { return x.Initial }
func (x *Box) Child() component.Component { return x.Inner }

// Stack is a non-render component with ordered precomputed children.
type Stack struct {
	Name    string
	ID      string
	Initial any
	Props   any
	Items   []component.Component
}

func (s *Stack) TypeName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Stack"
}
func (s *Stack) Key() string                     { return s.ID }
func (s *Stack) InitialState() any               { return s.Initial }
func (s *Stack) Children() []component.Component { return s.Items }

// Render computes its child from its state. Renders counts calls to Render.
type Render struct {
	Name    string
	ID      string
	Initial any
	Props   any
	Memo    bool
	Fn      func(state any) component.Component
	Renders int
}

func (r *Render) TypeName() string {
	if r.Name != "" {
		return r.Name
	}
	return "Render"
}
func (r *Render) Key() string       { return r.ID }
func (r *Render) InitialState() any { return r.Initial }
func (r *Render) Render(state any) component.Component {
	r.Renders++
	if r.Fn == nil {
		return nil
	}
	return r.Fn(state)
}
func (r *Render) ShouldComponentUpdate(prev component.Component) bool {
	return shouldUpdate(r.Memo, r.Props, prev)
}

// Frame is a layout component computing its single child.
type Frame struct {
	Name    string
	ID      string
	Initial any
	Props   any
	Memo    bool
	Fn      func(state any) component.Component
	Renders int
}

func (f *Frame) TypeName() string {
	if f.Name != "" {
		return f.Name
	}
	return "Frame"
}
func (f *Frame) Key() string       { return f.ID }
func (f *Frame) InitialState() any { return f.Initial }
func (f *Frame) RenderLayout(state any) component.Component {
	f.Renders++
	if f.Fn == nil {
		return nil
	}
	return f.Fn(state)
}
func (f *Frame) ShouldComponentUpdate(prev component.Component) bool {
	return shouldUpdate(f.Memo, f.Props, prev)
}

// Column is a layout component computing ordered children.
type Column struct {
	Name    string
	ID      string
	Initial any
	Props   any
	Memo    bool
	Fn      func(state any) []component.Component
	Renders int
}

func (c *Column) TypeName() string {
	if c.Name != "" {
		return c.Name
	}
	return "Column"
}
func (c *Column) Key() string       { return c.ID }
func (c *Column) InitialState() any { return c.Initial }
func (c *Column) RenderChildren(state any) []component.Component {
	c.Renders++
	if c.Fn == nil {
		return nil
	}
	return c.Fn(state)
}
func (c *Column) ShouldComponentUpdate(prev component.Component) bool {
	return shouldUpdate(c.Memo, c.Props, prev)
}

// Static returns a render function that always produces c.
func Static(c component.Component) func(any) component.Component {
	return func(any) component.Component { return c }
}

// StaticList returns a render function that always produces cs.
func StaticList(cs ...component.Component) func(any) []component.Component {
	return func(any) []component.Component { return cs }
}

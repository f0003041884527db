package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// Descriptor types.
const (
	TypeLeaf           = "leaf"
	TypeNode           = "node"
	TypeStack          = "stack"
	TypeRender         = "render"
	TypeLayout         = "layout"
	TypeLayoutChildren = "layoutChildren"
)

// Spec is one JSON descriptor.
type Spec struct {
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Key      string  `json:"key,omitempty"`
	State    any     `json:"state,omitempty"`
	Props    any     `json:"props,omitempty"`
	Memo     bool    `json:"memo,omitempty"`
	Child    *Spec   `json:"child,omitempty"`
	Children []*Spec `json:"children,omitempty"`
}

// Component is implemented by every decoded component.
type Component interface {
	component.Component
	component.Keyed
	component.Stateful
	component.Updater

	// Name returns the descriptor name, or the type when unnamed.
	Name() string

	// Spec returns the descriptor the component was decoded from.
	Spec() *Spec
}

// Decode parses a JSON descriptor tree.
func Decode(data []byte) (Component, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.New("C004").WithDetail("parsing descriptor").Wrap(err)
	}
	return Build(&spec)
}

// Load reads and decodes a descriptor file.
func Load(path string) (Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("C004").WithDetail(path).Wrap(err)
	}
	return Decode(data)
}

// Build turns spec into components, checking that each descriptor has the
// children its type needs.
func Build(spec *Spec) (Component, error) {
	return buildSpec(spec, "$")
}

func buildSpec(spec *Spec, path string) (Component, error) {
	if spec == nil {
		return nil, invalid(path, "missing descriptor")
	}
	b := base{spec: spec}

	switch spec.Type {
	case TypeLeaf:
		if spec.Child != nil || len(spec.Children) > 0 {
			return nil, invalid(path, "leaf descriptors cannot have children")
		}
		return &leaf{b}, nil

	case TypeNode, TypeRender, TypeLayout:
		if len(spec.Children) > 0 {
			return nil, invalid(path, spec.Type+" descriptors take a single child")
		}
		child, err := buildSpec(spec.Child, path+".child")
		if err != nil {
			return nil, err
		}
		b.child = child
		switch spec.Type {
		case TypeNode:
			return &node{b}, nil
		case TypeRender:
			return &render{b}, nil
		default:
			return &layout{b}, nil
		}

	case TypeStack, TypeLayoutChildren:
		if spec.Child != nil {
			return nil, invalid(path, spec.Type+" descriptors take children, not child")
		}
		for i, cs := range spec.Children {
			child, err := buildSpec(cs, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			b.children = append(b.children, child)
		}
		if spec.Type == TypeStack {
			return &stack{b}, nil
		}
		return &layoutChildren{b}, nil
	}

	return nil, invalid(path, fmt.Sprintf("unknown type %q", spec.Type)).
		WithSuggestion("Use one of " + strings.Join(Types(), ", "))
}

func invalid(path, msg string) *errors.TreeError {
	return errors.New("C004").WithDetail(path + ": " + msg)
}

// Types returns the supported descriptor types.
func Types() []string {
	return []string{TypeLeaf, TypeNode, TypeStack, TypeRender, TypeLayout, TypeLayoutChildren}
}

type base struct {
	spec     *Spec
	child    component.Component
	children []component.Component
}

func (b base) TypeName() string {
	return b.Name()
}

func (b base) Name() string {
	if b.spec.Name != "" {
		return b.spec.Name
	}
	return b.spec.Type
}

func (b base) Key() string       { return b.spec.Key }
func (b base) InitialState() any { return b.spec.State }
func (b base) Spec() *Spec       { return b.spec }

// ShouldComponentUpdate compares props when memo is set.
func (b base) ShouldComponentUpdate(previous component.Component) bool {
	if !b.spec.Memo {
		return true
	}
	prev, ok := previous.(Component)
	if !ok {
		return true
	}
	return !reflect.DeepEqual(prev.Spec().Props, b.spec.Props)
}

type leaf struct{ base }

func (*leaf) IsLeaf() {}

type node struct{ base }

func (n *node) Child() component.Component { return n.child }

type stack struct{ base }

func (s *stack) Children() []component.Component { return s.children }

type render struct{ base }

func (r *render) Render(any) component.Component { return r.child }

type layout struct{ base }

func (l *layout) RenderLayout(any) component.Component { return l.child }

type layoutChildren struct{ base }

func (l *layoutChildren) RenderChildren(any) []component.Component { return l.children }

// FindByName returns the nodes of root whose descriptor name is name, in
// render order.
func FindByName(root *tree.RootNode, name string) []*tree.Node {
	var out []*tree.Node
	root.Walk(func(n *tree.Node) bool {
		if c, ok := n.Component().(Component); ok && c.Name() == name {
			out = append(out, n)
		}
		return true
	})
	return out
}

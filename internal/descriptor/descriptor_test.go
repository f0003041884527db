package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/treetest"
)

const appJSON = `{
  "type": "stack", "name": "App",
  "children": [
    {"type": "render", "name": "Counter", "state": 0,
     "child": {"type": "leaf", "name": "Label"}},
    {"type": "node", "name": "Card",
     "child": {"type": "layout", "name": "Body", "child": {"type": "leaf"}}},
    {"type": "layoutChildren", "name": "List", "memo": true, "props": {"rows": 2},
     "children": [{"type": "leaf", "name": "Row"}, {"type": "leaf", "name": "Row", "key": "last"}]}
  ]
}`

func TestDecodeShapes(t *testing.T) {
	root, err := Decode([]byte(appJSON))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	tests := []struct {
		path []string
		want component.Shape
	}{
		{[]string{"App"}, component.ShapeWithChildren},
		{[]string{"App", "Counter"}, component.ShapeRender},
		{[]string{"App", "Counter", "Label"}, component.ShapeLeaf},
		{[]string{"App", "Card"}, component.ShapeWithChild},
		{[]string{"App", "Card", "Body"}, component.ShapeRenderLayout},
		{[]string{"App", "Card", "Body", "leaf"}, component.ShapeLeaf},
		{[]string{"App", "List"}, component.ShapeRenderLayoutWithChildren},
		{[]string{"App", "List", "Row#last"}, component.ShapeLeaf},
	}

	res := build.New().Build(context.Background(), root, build.Input{})
	for _, tt := range tests {
		n := treetest.Find(t, res.Root, tt.path...)
		if got := component.ShapeOf(n.Component()); got != tt.want {
			t.Errorf("%v: shape = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{`},
		{"unknown type", `{"type": "widget"}`},
		{"leaf with child", `{"type": "leaf", "child": {"type": "leaf"}}`},
		{"render without child", `{"type": "render"}`},
		{"node with children", `{"type": "node", "child": {"type": "leaf"}, "children": [{"type": "leaf"}]}`},
		{"stack with child", `{"type": "stack", "child": {"type": "leaf"}}`},
		{"nested error", `{"type": "stack", "children": [{"type": "leaf"}, {"type": "bogus"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.json))
			if !errors.Is(err, errors.New("C004")) {
				t.Errorf("Decode error = %v, want C004", err)
			}
		})
	}
}

func TestNestedErrorPath(t *testing.T) {
	_, err := Decode([]byte(`{"type": "stack", "children": [{"type": "leaf"}, {"type": "bogus"}]}`))
	te := errors.FromError(err, "")
	if te == nil {
		t.Fatal("expected an error")
	}
	if te.Detail != `$.children[1]: unknown type "bogus"` {
		t.Errorf("Detail = %q", te.Detail)
	}
}

func TestMemoComparesProps(t *testing.T) {
	decode := func(props string) Component {
		c, err := Decode([]byte(`{"type": "render", "name": "Item", "memo": true, "props": ` + props + `, "child": {"type": "leaf"}}`))
		if err != nil {
			t.Fatal(err)
		}
		return c
	}

	a, same, other := decode(`{"n": 1}`), decode(`{"n": 1}`), decode(`{"n": 2}`)
	if same.ShouldComponentUpdate(a) {
		t.Error("equal props should not update")
	}
	if !other.ShouldComponentUpdate(a) {
		t.Error("changed props should update")
	}

	plain, _ := Decode([]byte(`{"type": "leaf"}`))
	if !plain.ShouldComponentUpdate(plain) {
		t.Error("components without memo always update")
	}
}

func TestFindByName(t *testing.T) {
	root, err := Decode([]byte(appJSON))
	if err != nil {
		t.Fatal(err)
	}
	res := build.New().Build(context.Background(), root, build.Input{})

	if got := FindByName(res.Root, "Row"); len(got) != 2 {
		t.Errorf("FindByName(Row) = %d nodes, want 2", len(got))
	}
	counter := FindByName(res.Root, "Counter")
	if len(counter) != 1 {
		t.Fatalf("FindByName(Counter) = %d nodes, want 1", len(counter))
	}
	if s, _ := counter[0].State(); s != float64(0) {
		t.Errorf("Counter state = %v, want 0", s)
	}
	if got := FindByName(res.Root, "Missing"); len(got) != 0 {
		t.Errorf("FindByName(Missing) = %v", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.tree.json")
	if err := os.WriteFile(path, []byte(appJSON), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Name() != "App" {
		t.Errorf("Name() = %q, want App", c.Name())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.New("C004")) {
		t.Errorf("Load(missing) error = %v, want C004", err)
	}
}

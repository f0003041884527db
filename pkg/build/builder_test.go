package build

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
	"github.com/vango-dev/componenttree/pkg/treetest"
)

func stateUpdate(prev *Result, updates StateUpdates) Input {
	return Input{
		PreviousRoot: prev.Root,
		StateUpdates: updates,
		Trigger:      TriggerStateUpdate,
	}
}

func TestFirstBuildLeaf(t *testing.T) {
	leaf := &treetest.Leaf{Name: "Text"}
	res := New(WithConfig(alwaysBuild())).Build(context.Background(), leaf, Input{})

	if res.Root == nil {
		t.Fatal("expected a root")
	}
	if res.Generation != 1 {
		t.Errorf("Generation = %d, want 1", res.Generation)
	}
	n := treetest.Find(t, res.Root, "Text")
	if n.Kind() != tree.KindLeaf {
		t.Errorf("Kind = %v, want Leaf", n.Kind())
	}
	if n.ParentID() != tree.NoID {
		t.Errorf("ParentID = %d, want NoID", n.ParentID())
	}
	if got := res.Report.Outcome(n.ID()); got != OutcomeRebuilt {
		t.Errorf("Outcome = %v, want rebuilt", got)
	}
	if res.Report.Reused != 0 {
		t.Errorf("Reused = %d, want 0", res.Report.Reused)
	}
	if !res.Root.Sealed() {
		t.Error("generation should be sealed after the pass")
	}
}

func TestStateUpdateReusesCleanSibling(t *testing.T) {
	root, a, bc := threeNodeTree()
	b := New()
	first := b.Build(context.Background(), root, Input{})

	prevRoot := treetest.Find(t, first.Root, "Root")
	prevA := treetest.Find(t, first.Root, "Root", "A")
	prevB := treetest.Find(t, first.Root, "Root", "B")

	updates := StateUpdates{}
	updates.Add(prevA.ID(), Set(1))

	var reused []component.Component
	in := stateUpdate(first, updates)
	in.OnReuse = func(c component.Component) { reused = append(reused, c) }
	second := b.Build(context.Background(), root, in)

	if !second.DirtyIDs.Equal(NewDirtyIDs(prevA.ID(), prevRoot.ID())) {
		t.Errorf("DirtyIDs = %v", sortedIDs(second.DirtyIDs))
	}

	nextRoot := treetest.Find(t, second.Root, "Root")
	nextA := treetest.Find(t, second.Root, "Root", "A")
	nextB := treetest.Find(t, second.Root, "Root", "B")

	for _, pair := range []struct {
		name       string
		prev, next *tree.Node
		want       Outcome
	}{
		{"root", prevRoot, nextRoot, OutcomeRebuilt},
		{"A", prevA, nextA, OutcomeRebuilt},
		{"B", prevB, nextB, OutcomeReused},
	} {
		if pair.prev.ID() != pair.next.ID() {
			t.Errorf("%s: ID changed from %d to %d", pair.name, pair.prev.ID(), pair.next.ID())
		}
		if got := second.Report.Outcome(pair.next.ID()); got != pair.want {
			t.Errorf("%s: Outcome = %v, want %v", pair.name, got, pair.want)
		}
	}

	if a.Renders != 2 {
		t.Errorf("A.Renders = %d, want 2", a.Renders)
	}
	if bc.Renders != 1 {
		t.Errorf("B.Renders = %d, want 1 (reused)", bc.Renders)
	}
	if nextB.Child(0) != prevB.Child(0) {
		t.Error("reused subtree should share the previous child node")
	}
	if len(reused) != 1 || reused[0] != bc {
		t.Errorf("reuse callback got %v, want [B]", reused)
	}
	if s, _ := nextA.State(); s != 1 {
		t.Errorf("A state = %v, want 1", s)
	}
	if second.Root.Len() != first.Root.Len() {
		t.Errorf("Len = %d, want %d", second.Root.Len(), first.Root.Len())
	}
	if parent, _ := second.Root.ParentID(nextB.Child(0).ID()); parent != nextB.ID() {
		t.Errorf("shared child parent = %d, want %d", parent, nextB.ID())
	}
}

func TestAncestorStateUpdateForcesRebuild(t *testing.T) {
	root, a, bc := threeNodeTree()
	b := New()
	first := b.Build(context.Background(), root, Input{})

	updates := StateUpdates{}
	updates.Add(treetest.Find(t, first.Root, "Root").ID(), Set("x"))
	second := b.Build(context.Background(), root, stateUpdate(first, updates))

	if second.Report.Reused != 0 {
		t.Errorf("Reused = %d, want 0", second.Report.Reused)
	}
	if a.Renders != 2 || bc.Renders != 2 {
		t.Errorf("Renders = %d/%d, want 2/2", a.Renders, bc.Renders)
	}
}

func TestAncestorStateUpdateDominatesEqualProps(t *testing.T) {
	child := &treetest.Render{Name: "Child", Memo: true, Props: 1, Fn: treetest.Static(&treetest.Leaf{})}
	parent := &treetest.Render{Name: "Parent", Initial: 0, Fn: treetest.Static(child)}
	b := New()
	first := b.Build(context.Background(), parent, Input{})

	updates := StateUpdates{}
	updates.Add(treetest.Find(t, first.Root, "Parent").ID(), Set(1))
	in := stateUpdate(first, updates)
	in.Trigger |= TriggerPropsUpdate
	b.Build(context.Background(), parent, in)

	if child.Renders != 2 {
		t.Errorf("Child.Renders = %d, want 2", child.Renders)
	}
}

func TestRenderReuseSkipsRender(t *testing.T) {
	label := &treetest.Leaf{Name: "Label"}
	r := &treetest.Render{Name: "Counter", Initial: 5, Fn: treetest.Static(label)}
	first := New().Build(context.Background(), r, Input{})
	prev := treetest.Find(t, first.Root, "Counter")

	newRoot := tree.NewRoot(first.Generation+1, false)
	p := NewParams(newRoot, first.Root, StateUpdates{}, TriggerStateUpdate, DefaultConfig())

	calls := 0
	node, produced := BuildRender(r, newRoot.Container(), first.Root.Container(), p, false, func(c component.Component) {
		calls++
		if c != r {
			t.Errorf("callback component = %v, want %v", c, r)
		}
	})

	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
	if r.Renders != 1 {
		t.Errorf("Renders = %d, want 1", r.Renders)
	}
	if produced != label {
		t.Errorf("produced = %v, want previous child %v", produced, label)
	}
	if node.ID() != prev.ID() {
		t.Errorf("ID = %d, want %d", node.ID(), prev.ID())
	}
	if node.Child(0) != prev.Child(0) {
		t.Error("reused node should hold the previous child node")
	}
	if s, _ := node.State(); s != 5 {
		t.Errorf("state = %v, want 5", s)
	}
	if p.Report().Outcome(node.ID()) != OutcomeReused {
		t.Error("outcome should be reused")
	}
}

func TestRenderRebuildReturnsProducedChild(t *testing.T) {
	r := &treetest.Render{Name: "Counter", Initial: 0, Fn: func(state any) component.Component {
		return &treetest.Leaf{Name: "Label", Props: state}
	}}
	root := tree.NewRoot(1, false)
	p := NewParams(root, nil, nil, TriggerNewTree, DefaultConfig())

	node, produced := BuildRender(r, root.Container(), nil, p, false, nil)

	leaf, ok := produced.(*treetest.Leaf)
	if !ok || leaf.Props != 0 {
		t.Fatalf("produced = %#v", produced)
	}
	if node.ProducedChild() != produced {
		t.Error("node should record the produced child")
	}
	if node.ChildCount() != 1 || node.Child(0).Component() != produced {
		t.Error("produced child should be built under the render node")
	}
}

func TestChildOrderPreserved(t *testing.T) {
	items := []component.Component{
		&treetest.Leaf{Name: "Text", ID: "title"},
		&treetest.Render{Name: "Counter", Fn: treetest.Static(&treetest.Leaf{})},
		&treetest.Leaf{Name: "Text"},
		&treetest.Render{Name: "Counter", Fn: treetest.Static(&treetest.Leaf{})},
		&treetest.Leaf{Name: "Text"},
	}
	stack := &treetest.Stack{Name: "List", Items: items}
	b := New()
	first := b.Build(context.Background(), stack, Input{})

	want := []string{"Text#title", "Counter", "Text", "Counter[1]", "Text[1]"}
	treetest.ExpectKeys(t, treetest.Find(t, first.Root, "List"), want...)

	updates := StateUpdates{}
	updates.Add(treetest.Find(t, first.Root, "List", "Counter[1]").ID(), Set(1))
	second := b.Build(context.Background(), stack, stateUpdate(first, updates))

	list := treetest.Find(t, second.Root, "List")
	treetest.ExpectKeys(t, list, want...)
	if second.Report.Outcome(list.Child(1).ID()) != OutcomeReused {
		t.Error("first counter should be reused")
	}
	if second.Report.Outcome(list.Child(3).ID()) != OutcomeRebuilt {
		t.Error("updated counter should be rebuilt")
	}
	if diff := cmp.Diff(treetest.Shape(first.Root), treetest.Shape(second.Root)); diff != "" {
		t.Errorf("shape changed (-first +second):\n%s", diff)
	}
}

func TestPropsUpdate(t *testing.T) {
	tests := []struct {
		name      string
		memo      bool
		nextProps any
		wantReuse bool
	}{
		{"equal props", true, "a", true},
		{"changed props", true, "b", false},
		{"no props comparison", false, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &treetest.Render{Name: "Item", Memo: tt.memo, Props: "a", Fn: treetest.Static(&treetest.Leaf{})}
			b := New()
			first := b.Build(context.Background(), r, Input{})

			next := &treetest.Render{Name: "Item", Memo: tt.memo, Props: tt.nextProps, Fn: treetest.Static(&treetest.Leaf{})}
			second := b.Build(context.Background(), next, Input{
				PreviousRoot: first.Root,
				Trigger:      TriggerPropsUpdate,
			})

			gotReuse := second.Report.Reused == 1
			if gotReuse != tt.wantReuse {
				t.Errorf("reused = %v, want %v", gotReuse, tt.wantReuse)
			}
			if gotReuse == (next.Renders == 1) {
				t.Errorf("Renders = %d with reuse %v", next.Renders, gotReuse)
			}
		})
	}
}

func TestPendingUpdateOutsideStatePassIsDiscovered(t *testing.T) {
	counter := &treetest.Render{Name: "Counter", Initial: 1, Memo: true, Props: "p", Fn: treetest.Static(&treetest.Leaf{})}
	app := &treetest.Stack{Name: "App", Items: []component.Component{counter}}
	b := New()
	first := b.Build(context.Background(), app, Input{})
	counterID := treetest.Find(t, first.Root, "App", "Counter").ID()
	appID := treetest.Find(t, first.Root, "App").ID()

	updates := StateUpdates{}
	updates.Add(counterID, func(old any) any { return old.(int) + 1 })
	second := b.Build(context.Background(), app, Input{
		PreviousRoot: first.Root,
		StateUpdates: updates,
		Trigger:      TriggerPropsUpdate,
	})

	if !second.DirtyIDs.Equal(NewDirtyIDs(counterID, appID)) {
		t.Errorf("DirtyIDs = %v", sortedIDs(second.DirtyIDs))
	}
	n := treetest.Find(t, second.Root, "App", "Counter")
	if s, _ := n.State(); s != 2 {
		t.Errorf("state = %v, want 2", s)
	}
	if second.Report.Outcome(counterID) != OutcomeRebuilt {
		t.Error("counter with a pending update must be rebuilt")
	}
}

func TestAncestorUpdateInPropsPassRebuildsMemoizedChild(t *testing.T) {
	child := &treetest.Render{Name: "Child", Memo: true, Props: 1, Fn: treetest.Static(&treetest.Leaf{Name: "Label"})}
	parent := &treetest.Render{Name: "Parent", Initial: 0, Memo: true, Props: "x", Fn: treetest.Static(child)}
	b := New()
	first := b.Build(context.Background(), parent, Input{})
	parentID := treetest.Find(t, first.Root, "Parent").ID()
	childID := treetest.Find(t, first.Root, "Parent", "Child").ID()

	updates := StateUpdates{}
	updates.Add(parentID, func(old any) any { return old.(int) + 1 })
	second := b.Build(context.Background(), parent, Input{
		PreviousRoot: first.Root,
		StateUpdates: updates,
		Trigger:      TriggerPropsUpdate,
	})

	if parent.Renders != 2 {
		t.Errorf("Parent.Renders = %d, want 2", parent.Renders)
	}
	if child.Renders != 2 {
		t.Errorf("Child.Renders = %d, want 2", child.Renders)
	}
	if got := second.Report.Outcome(childID); got != OutcomeRebuilt {
		t.Errorf("child outcome = %v, want rebuilt", got)
	}
	if s, _ := treetest.Find(t, second.Root, "Parent").State(); s != 1 {
		t.Errorf("Parent state = %v, want 1", s)
	}
}

func TestPendingUpdateBelowMemoizedRenderInPropsPass(t *testing.T) {
	inner := &treetest.Render{Name: "Inner", Initial: 1, Fn: treetest.Static(&treetest.Leaf{Name: "Label"})}
	outer := &treetest.Render{Name: "Outer", Memo: true, Props: "p", Fn: treetest.Static(inner)}
	b := New()
	first := b.Build(context.Background(), outer, Input{})
	outerID := treetest.Find(t, first.Root, "Outer").ID()
	innerID := treetest.Find(t, first.Root, "Outer", "Inner").ID()

	updates := StateUpdates{}
	updates.Add(innerID, func(old any) any { return old.(int) + 1 })
	second := b.Build(context.Background(), outer, Input{
		PreviousRoot: first.Root,
		StateUpdates: updates,
		Trigger:      TriggerPropsUpdate,
	})

	if diff := cmp.Diff([]tree.ID{outerID, innerID}, sortedIDs(second.DirtyIDs)); diff != "" {
		t.Errorf("DirtyIDs mismatch (-want +got):\n%s", diff)
	}
	if second.Report.Reused != 0 {
		t.Errorf("Reused = %d, want 0", second.Report.Reused)
	}
	if inner.Renders != 2 {
		t.Errorf("Inner.Renders = %d, want 2", inner.Renders)
	}
	n := treetest.Find(t, second.Root, "Outer", "Inner")
	if s, _ := n.State(); s != 2 {
		t.Errorf("Inner state = %v, want 2", s)
	}
}

func TestPropsPassWithoutUpdatesStillReusesMemoizedRender(t *testing.T) {
	inner := &treetest.Render{Name: "Inner", Initial: 1, Fn: treetest.Static(&treetest.Leaf{Name: "Label"})}
	outer := &treetest.Render{Name: "Outer", Memo: true, Props: "p", Fn: treetest.Static(inner)}
	b := New()
	first := b.Build(context.Background(), outer, Input{})

	second := b.Build(context.Background(), outer, Input{
		PreviousRoot: first.Root,
		StateUpdates: StateUpdates{},
		Trigger:      TriggerPropsUpdate,
	})

	if second.Report.Reused != 1 {
		t.Errorf("Reused = %d, want 1", second.Report.Reused)
	}
	if outer.Renders != 1 || inner.Renders != 1 {
		t.Errorf("Renders = %d/%d, want 1/1", outer.Renders, inner.Renders)
	}
	if second.DirtyIDs.Cardinality() != 0 {
		t.Errorf("DirtyIDs = %v, want empty", sortedIDs(second.DirtyIDs))
	}
}

// frameTree returns Root -> {Card (single-child layout) -> Body, A}.
func frameTree() (root *treetest.Column, card *treetest.Frame, a *treetest.Render) {
	card = &treetest.Frame{Name: "Card", Initial: 0, Fn: treetest.Static(&treetest.Leaf{Name: "Body"})}
	a = &treetest.Render{Name: "A", Initial: 0, Fn: treetest.Static(&treetest.Leaf{Name: "LabelA"})}
	root = &treetest.Column{Name: "Root", Fn: treetest.StaticList(card, a)}
	return root, card, a
}

func TestRenderLayoutReusedWhenClean(t *testing.T) {
	root, card, _ := frameTree()
	b := New()
	first := b.Build(context.Background(), root, Input{})
	prevCard := treetest.Find(t, first.Root, "Root", "Card")
	prevBody := treetest.Find(t, first.Root, "Root", "Card", "Body")
	aID := treetest.Find(t, first.Root, "Root", "A").ID()

	updates := StateUpdates{}
	updates.Add(aID, Set(1))
	second := b.Build(context.Background(), root, stateUpdate(first, updates))

	if card.Renders != 1 {
		t.Errorf("Card.Renders = %d, want 1", card.Renders)
	}
	nextCard := treetest.Find(t, second.Root, "Root", "Card")
	if got := second.Report.Outcome(nextCard.ID()); got != OutcomeReused {
		t.Errorf("Card outcome = %v, want reused", got)
	}
	if nextCard.ID() != prevCard.ID() {
		t.Errorf("Card ID = %d, want %d", nextCard.ID(), prevCard.ID())
	}
	if nextCard.ChildCount() != 1 || nextCard.Child(0) != prevBody {
		t.Error("reused layout should share the previous child node")
	}
	if pid, _ := second.Root.ParentID(prevBody.ID()); pid != nextCard.ID() {
		t.Errorf("shared Body parent = %d, want %d", pid, nextCard.ID())
	}
}

func TestRenderLayoutRebuildDispatchesChild(t *testing.T) {
	root, card, _ := frameTree()
	b := New()
	first := b.Build(context.Background(), root, Input{})
	prevCard := treetest.Find(t, first.Root, "Root", "Card")
	prevBody := treetest.Find(t, first.Root, "Root", "Card", "Body")

	updates := StateUpdates{}
	updates.Add(prevCard.ID(), Set(5))
	second := b.Build(context.Background(), root, stateUpdate(first, updates))

	if card.Renders != 2 {
		t.Errorf("Card.Renders = %d, want 2", card.Renders)
	}
	nextCard := treetest.Find(t, second.Root, "Root", "Card")
	if nextCard.Kind() != tree.KindWithChild {
		t.Errorf("Card kind = %v, want WithChild", nextCard.Kind())
	}
	if got := second.Report.Outcome(nextCard.ID()); got != OutcomeRebuilt {
		t.Errorf("Card outcome = %v, want rebuilt", got)
	}
	if s, _ := second.Root.StateOf(nextCard); s != 5 {
		t.Errorf("Card state = %v, want 5", s)
	}
	if nextCard.ProducedChild() == nil || nextCard.ProducedChild().TypeName() != "Body" {
		t.Errorf("ProducedChild = %v, want Body", nextCard.ProducedChild())
	}

	body := treetest.Find(t, second.Root, "Root", "Card", "Body")
	if body == prevBody {
		t.Error("Body under an updated layout must not be shared")
	}
	if body.ID() != prevBody.ID() {
		t.Errorf("Body ID = %d, want inherited %d", body.ID(), prevBody.ID())
	}
	if got := second.Report.Outcome(body.ID()); got != OutcomeRebuilt {
		t.Errorf("Body outcome = %v, want rebuilt", got)
	}
	if body.ParentID() != nextCard.ID() {
		t.Errorf("Body ParentID = %d, want %d", body.ParentID(), nextCard.ID())
	}
}

func TestNewTreeNeverReuses(t *testing.T) {
	root, a, bc := threeNodeTree()
	b := New()
	first := b.Build(context.Background(), root, Input{})
	aID := treetest.Find(t, first.Root, "Root", "A").ID()

	updates := StateUpdates{}
	updates.Add(aID, Set(9))
	second := b.Build(context.Background(), root, Input{PreviousRoot: first.Root, StateUpdates: updates})

	if second.Report.Reused != 0 {
		t.Errorf("Reused = %d, want 0", second.Report.Reused)
	}
	if a.Renders != 2 || bc.Renders != 2 {
		t.Errorf("Renders = %d/%d, want 2/2", a.Renders, bc.Renders)
	}
	n := treetest.Find(t, second.Root, "Root", "A")
	if n.ID() != aID {
		t.Errorf("ID = %d, want %d", n.ID(), aID)
	}
	if s, _ := n.State(); s != 9 {
		t.Errorf("state = %v, want 9", s)
	}
}

func TestStateSurvivesGenerations(t *testing.T) {
	var seen []any
	counter := &treetest.Render{Name: "Counter", Initial: 0, Fn: func(state any) component.Component {
		seen = append(seen, state)
		return &treetest.Leaf{Name: "Label"}
	}}
	b := New()
	res := b.Build(context.Background(), counter, Input{})
	id := treetest.Find(t, res.Root, "Counter").ID()

	inc := func(old any) any { return old.(int) + 1 }
	for i := 0; i < 3; i++ {
		updates := StateUpdates{}
		updates.Add(id, inc)
		updates.Add(id, inc)
		res = b.Build(context.Background(), counter, stateUpdate(res, updates))
	}

	if diff := cmp.Diff([]any{0, 2, 4, 6}, seen); diff != "" {
		t.Errorf("render states mismatch (-want +got):\n%s", diff)
	}
	if res.Generation != 4 {
		t.Errorf("Generation = %d, want 4", res.Generation)
	}
}

func TestSkipsTreeWithoutRenderComponent(t *testing.T) {
	static := &treetest.Stack{Name: "App", Items: []component.Component{&treetest.Leaf{}, &treetest.Box{Inner: &treetest.Leaf{}}}}

	tests := []struct {
		name     string
		cfg      Config
		wantTree bool
	}{
		{"default", DefaultConfig(), false},
		{"always", alwaysBuild(), true},
		{"debug", Config{Debug: true, AlwaysBuildRenderTreeInDebug: true}, true},
		{"debug without flag", Config{Debug: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			res := New().Build(context.Background(), static, Input{Config: &cfg})
			if (res.Root != nil) != tt.wantTree {
				t.Errorf("Root = %v, want tree %v", res.Root, tt.wantTree)
			}
			if res.Skipped == tt.wantTree {
				t.Errorf("Skipped = %v", res.Skipped)
			}
		})
	}
}

func TestUnifyStateStorage(t *testing.T) {
	leaf := &treetest.Leaf{Name: "Toggle", Initial: false}
	counter := &treetest.Render{Name: "Counter", Initial: 3, Fn: treetest.Static(leaf)}

	for _, unify := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Unify.Enable = unify
		res := New(WithConfig(cfg)).Build(context.Background(), counter, Input{})

		n := treetest.Find(t, res.Root, "Counter", "Toggle")
		_, onNode := n.State()
		_, inScope := res.Root.ScopeState(n.ID())
		if onNode != unify || inScope == unify {
			t.Errorf("unify=%v: onNode=%v inScope=%v", unify, onNode, inScope)
		}
		if s, ok := res.Root.StateOf(n); !ok || s != false {
			t.Errorf("unify=%v: StateOf = %v, %v", unify, s, ok)
		}
		if s, _ := treetest.Find(t, res.Root, "Counter").State(); s != 3 {
			t.Errorf("unify=%v: render state = %v, want 3", unify, s)
		}
	}
}

func TestNodeKindSwitches(t *testing.T) {
	desc := &treetest.Box{Name: "Card", Inner: &treetest.Render{Name: "Body", Fn: treetest.Static(&treetest.Leaf{})}}

	tests := []struct {
		name     string
		unify    UnifyConfig
		wantBox  tree.Kind
		wantBody tree.Kind
	}{
		{"defaults", UnifyConfig{}, tree.KindWithChildren, tree.KindWithChild},
		{"single child", UnifyConfig{UseSingleChildNodeForComposite: true}, tree.KindWithChild, tree.KindWithChild},
		{"render nodes", UnifyConfig{UseRenderNodes: true}, tree.KindWithChildren, tree.KindRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Unify = tt.unify
			res := New(WithConfig(cfg)).Build(context.Background(), desc, Input{})
			if got := treetest.Find(t, res.Root, "Card").Kind(); got != tt.wantBox {
				t.Errorf("Card kind = %v, want %v", got, tt.wantBox)
			}
			if got := treetest.Find(t, res.Root, "Card", "Body").Kind(); got != tt.wantBody {
				t.Errorf("Body kind = %v, want %v", got, tt.wantBody)
			}
		})
	}
}

func TestVectorIndexMatchesMapIndex(t *testing.T) {
	build := func(vector bool) (*Result, *Result) {
		root, _, _ := threeNodeTree()
		cfg := DefaultConfig()
		cfg.Unify.UseVector = vector
		b := New(WithConfig(cfg))
		first := b.Build(context.Background(), root, Input{})
		updates := StateUpdates{}
		updates.Add(treetest.Find(t, first.Root, "Root", "A").ID(), Set(1))
		return first, b.Build(context.Background(), root, stateUpdate(first, updates))
	}

	_, withMap := build(false)
	_, withVector := build(true)
	if diff := cmp.Diff(treetest.Shape(withMap.Root), treetest.Shape(withVector.Root)); diff != "" {
		t.Errorf("shape differs (-map +vector):\n%s", diff)
	}
	if withMap.Report.Reused != withVector.Report.Reused || withVector.Report.Reused != 1 {
		t.Errorf("Reused map=%d vector=%d, want 1", withMap.Report.Reused, withVector.Report.Reused)
	}
}

func TestLayoutCacheOnReuse(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		root, _, _ := threeNodeTree()
		cfg := DefaultConfig()
		cfg.EnableLayoutCacheInRender = enabled
		b := New(WithConfig(cfg))
		first := b.Build(context.Background(), root, Input{})
		treetest.Find(t, first.Root, "Root", "B").SetLayout("150x40")

		updates := StateUpdates{}
		updates.Add(treetest.Find(t, first.Root, "Root", "A").ID(), Set(1))
		second := b.Build(context.Background(), root, stateUpdate(first, updates))

		got := treetest.Find(t, second.Root, "Root", "B").Layout()
		if enabled && got != "150x40" {
			t.Errorf("enabled: Layout = %v, want cached", got)
		}
		if !enabled && got != nil {
			t.Errorf("disabled: Layout = %v, want nil", got)
		}
	}
}

func TestOrphanedAfterChildRemoved(t *testing.T) {
	show := true
	gone := &treetest.Leaf{Name: "Banner"}
	app := &treetest.Column{Name: "App", Initial: true, Fn: func(any) []component.Component {
		if show {
			return []component.Component{gone, &treetest.Leaf{Name: "Body"}}
		}
		return []component.Component{&treetest.Leaf{Name: "Body"}}
	}}
	b := New()
	first := b.Build(context.Background(), app, Input{})
	bannerID := treetest.Find(t, first.Root, "App", "Banner").ID()

	show = false
	updates := StateUpdates{}
	updates.Add(treetest.Find(t, first.Root, "App").ID(), Set(false))
	second := b.Build(context.Background(), app, stateUpdate(first, updates))

	if diff := cmp.Diff([]tree.ID{bannerID}, second.Root.Orphaned(first.Root)); diff != "" {
		t.Errorf("Orphaned mismatch (-want +got):\n%s", diff)
	}
}

func TestPreconditionsFailFast(t *testing.T) {
	t.Run("nil root", func(t *testing.T) {
		err := errors.Catch(func() { New().Build(context.Background(), nil, Input{}) })
		if !errors.Is(err, errors.ErrNilComponent) {
			t.Errorf("err = %v, want T002", err)
		}
	})

	t.Run("unknown shape", func(t *testing.T) {
		err := errors.Catch(func() {
			New(WithConfig(alwaysBuild())).Build(context.Background(), shapeless{}, Input{})
		})
		if !errors.Is(err, errors.ErrUnknownShape) {
			t.Errorf("err = %v, want T005", err)
		}
	})

	t.Run("previous parent from another generation", func(t *testing.T) {
		root, _, _ := threeNodeTree()
		first := New().Build(context.Background(), root, Input{})
		unrelated := New().Build(context.Background(), &treetest.Render{Name: "Other", Fn: treetest.Static(&treetest.Leaf{})}, Input{})

		newRoot := tree.NewRoot(2, false)
		p := NewParams(newRoot, first.Root, nil, TriggerStateUpdate, DefaultConfig())
		err := errors.Catch(func() {
			BuildLeaf(&treetest.Leaf{}, newRoot.Container(), treetest.Find(t, unrelated.Root, "Other"), p, false)
		})
		if !errors.Is(err, errors.ErrGenerationMismatch) {
			t.Errorf("err = %v, want T003", err)
		}
	})

	t.Run("nil parent", func(t *testing.T) {
		newRoot := tree.NewRoot(1, false)
		p := NewParams(newRoot, nil, nil, TriggerNewTree, DefaultConfig())
		err := errors.Catch(func() { BuildLeaf(&treetest.Leaf{}, nil, nil, p, false) })
		if !errors.Is(err, errors.ErrNilParent) {
			t.Errorf("err = %v, want T004", err)
		}
	})
}

type shapeless struct{}

func (shapeless) TypeName() string { return "shapeless" }

func TestMiddlewareOrder(t *testing.T) {
	var calls []string
	mw := func(name string) Middleware {
		return func(next PassFunc) PassFunc {
			return func(ctx context.Context, root component.Component, in Input) *Result {
				calls = append(calls, name+">")
				res := next(ctx, root, in)
				calls = append(calls, "<"+name)
				return res
			}
		}
	}

	b := New(WithMiddleware(mw("outer"), mw("inner")))
	b.Build(context.Background(), &treetest.Render{Fn: treetest.Static(&treetest.Leaf{})}, Input{})

	if diff := cmp.Diff([]string{"outer>", "inner>", "<inner", "<outer"}, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestTriggerString(t *testing.T) {
	tests := []struct {
		trigger Trigger
		want    string
	}{
		{TriggerNewTree, "new_tree"},
		{TriggerStateUpdate, "state_update"},
		{TriggerPropsUpdate, "props_update"},
		{TriggerStateUpdate | TriggerPropsUpdate, "state_update|props_update"},
	}
	for _, tt := range tests {
		if got := tt.trigger.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		parsed, ok := ParseTrigger(tt.want)
		if !ok || parsed != tt.trigger {
			t.Errorf("ParseTrigger(%q) = %v, %v", tt.want, parsed, ok)
		}
	}
	if _, ok := ParseTrigger("bogus"); ok {
		t.Error("ParseTrigger(bogus) should fail")
	}
}

func TestReusedSubtreeKeepsScopeState(t *testing.T) {
	toggle := &treetest.Leaf{Name: "Toggle", Initial: "off"}
	a := &treetest.Render{Name: "A", Initial: 0, Fn: treetest.Static(&treetest.Leaf{})}
	b := &treetest.Render{Name: "B", Fn: treetest.Static(toggle)}
	root := &treetest.Column{Name: "Root", Fn: treetest.StaticList(a, b)}

	builder := New()
	first := builder.Build(context.Background(), root, Input{})
	updates := StateUpdates{}
	updates.Add(treetest.Find(t, first.Root, "Root", "A").ID(), Set(1))
	second := builder.Build(context.Background(), root, stateUpdate(first, updates))

	n := treetest.Find(t, second.Root, "Root", "B", "Toggle")
	if s, ok := second.Root.StateOf(n); !ok || s != "off" {
		t.Errorf("StateOf(Toggle) = %v, %v, want off", s, ok)
	}
}

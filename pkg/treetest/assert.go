package treetest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/componenttree/pkg/tree"
)

// Find walks down from the root container following child keys written as
// Key.String() (e.g., "Row[1]" or "Button#ok") and fails the test when a
// step is missing.
func Find(t testing.TB, root *tree.RootNode, path ...string) *tree.Node {
	t.Helper()
	if root == nil {
		t.Fatalf("Find(%v): nil root", path)
	}
	n := root.Container()
	for _, step := range path {
		next := childByKeyString(n, step)
		if next == nil {
			t.Fatalf("Find(%v): no child %q under %q (have %v)", path, step, n.Key(), Keys(n))
		}
		n = next
	}
	return n
}

func childByKeyString(n *tree.Node, key string) *tree.Node {
	for _, c := range n.Children() {
		if c.Key().String() == key {
			return c
		}
	}
	return nil
}

// Keys returns the key strings of n's children in order.
func Keys(n *tree.Node) []string {
	out := make([]string, 0, n.ChildCount())
	for _, c := range n.Children() {
		out = append(out, c.Key().String())
	}
	return out
}

// ExpectKeys fails the test unless n's children carry exactly keys, in
// order.
func ExpectKeys(t testing.TB, n *tree.Node, keys ...string) {
	t.Helper()
	if diff := cmp.Diff(keys, Keys(n)); diff != "" {
		t.Errorf("children of %q mismatch (-want +got):\n%s", n.Key(), diff)
	}
}

// Dump renders the generation as an indented outline, one node per line:
// "Key id=N kind=K".
func Dump(root *tree.RootNode) string {
	if root == nil {
		return "<nil>\n"
	}
	var b strings.Builder
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		for _, c := range n.Children() {
			fmt.Fprintf(&b, "%s%s id=%d kind=%s\n", strings.Repeat("  ", depth), c.Key(), c.ID(), c.Kind())
			walk(c, depth+1)
		}
	}
	walk(root.Container(), 0)
	return b.String()
}

// Shape renders the generation like Dump but without IDs, so that two
// generations with the same structure compare equal.
func Shape(root *tree.RootNode) string {
	if root == nil {
		return "<nil>\n"
	}
	var b strings.Builder
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		for _, c := range n.Children() {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), c.Key())
			walk(c, depth+1)
		}
	}
	walk(root.Container(), 0)
	return b.String()
}

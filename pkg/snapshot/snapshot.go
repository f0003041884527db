package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// Document is the JSON form of one generation.
type Document struct {
	Generation uint64 `json:"generation"`
	Nodes      []Node `json:"nodes"`
}

// Node is the JSON form of one tree node.
type Node struct {
	ID         tree.ID   `json:"id"`
	Parent     tree.ID   `json:"parent"`
	Key        string    `json:"key"`
	Type       string    `json:"type"`
	Kind       string    `json:"kind"`
	Depth      int       `json:"depth"`
	Generation uint64    `json:"generation"`
	Children   []tree.ID `json:"children,omitempty"`
	State      any       `json:"state,omitempty"`
	Layout     any       `json:"layout,omitempty"`
}

// FromRoot captures root. Nodes are listed in render order (pre-order).
func FromRoot(root *tree.RootNode) *Document {
	doc := &Document{Generation: root.Generation()}
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		for _, c := range n.Children() {
			rec := Node{
				ID:         c.ID(),
				Parent:     n.ID(),
				Key:        c.Key().String(),
				Type:       c.Key().Type,
				Kind:       c.Kind().String(),
				Depth:      depth,
				Generation: c.Generation(),
				Layout:     jsonable(c.Layout()),
			}
			for _, gc := range c.Children() {
				rec.Children = append(rec.Children, gc.ID())
			}
			if s, ok := root.StateOf(c); ok {
				rec.State = jsonable(s)
			}
			doc.Nodes = append(doc.Nodes, rec)
			walk(c, depth+1)
		}
	}
	walk(root.Container(), 0)
	return doc
}

// jsonable returns v when it encodes as JSON and its %v form otherwise.
func jsonable(v any) any {
	if v == nil {
		return nil
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}

// Encode captures root and encodes it as indented JSON.
func Encode(root *tree.RootNode) ([]byte, error) {
	if root == nil {
		return nil, errors.New("S001").WithDetail("no generation to encode")
	}
	data, err := json.MarshalIndent(FromRoot(root), "", "  ")
	if err != nil {
		return nil, errors.New("S001").Wrap(err)
	}
	return append(data, '\n'), nil
}

// Decode parses a document produced by Encode.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("S001").WithDetail("decoding snapshot").Wrap(err)
	}
	return &doc, nil
}

// Name returns the object name used for a generation's snapshot.
func Name(generation uint64) string {
	return fmt.Sprintf("generation-%06d.json", generation)
}

// Find returns the node with id, if present.
func (d *Document) Find(id tree.ID) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

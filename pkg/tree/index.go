package tree

// childIndex finds a child position by key. The ordered children slice on
// the node is always the source of truth; an index only speeds up lookups.
type childIndex interface {
	add(key Key, pos int)
	lookup(children []*Node, key Key) (int, bool)
}

// mapIndex is a hash index over child keys.
type mapIndex map[Key]int

func (m mapIndex) add(key Key, pos int) {
	m[key] = pos
}

func (m mapIndex) lookup(_ []*Node, key Key) (int, bool) {
	pos, ok := m[key]
	return pos, ok
}

// vectorIndex keeps no extra state and scans the children in order.
type vectorIndex struct{}

func (vectorIndex) add(Key, int) {}

func (vectorIndex) lookup(children []*Node, key Key) (int, bool) {
	for i, c := range children {
		if c.key == key {
			return i, true
		}
	}
	return 0, false
}

func newChildIndex(vector bool) childIndex {
	if vector {
		return vectorIndex{}
	}
	return mapIndex{}
}

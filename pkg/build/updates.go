package build

import (
	"slices"

	"github.com/vango-dev/componenttree/pkg/tree"
)

// Update computes a component's next state from its current state.
type Update func(old any) any

// Set returns an Update that replaces the state with v.
func Set(v any) Update {
	return func(any) any { return v }
}

// StateUpdates maps a node ID from the previous generation to the updates
// pending for it, in the order they were enqueued.
type StateUpdates map[tree.ID][]Update

// Add enqueues u for id.
func (s StateUpdates) Add(id tree.ID, u Update) {
	s[id] = append(s[id], u)
}

// Has reports whether id has pending updates.
func (s StateUpdates) Has(id tree.ID) bool {
	return len(s[id]) > 0
}

// IDs returns the IDs with pending updates, ascending.
func (s StateUpdates) IDs() []tree.ID {
	ids := make([]tree.ID, 0, len(s))
	for id, us := range s {
		if len(us) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// apply runs the pending updates for id over state.
func (s StateUpdates) apply(id tree.ID, state any) any {
	for _, u := range s[id] {
		state = u(state)
	}
	return state
}

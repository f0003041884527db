package build

import (
	"time"

	"github.com/vango-dev/componenttree/pkg/tree"
)

// Outcome is the terminal state of a node in one pass.
type Outcome uint8

const (
	OutcomeUnvisited Outcome = iota
	OutcomeRebuilt
	OutcomeReused
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRebuilt:
		return "rebuilt"
	case OutcomeReused:
		return "reused"
	default:
		return "unvisited"
	}
}

// Report summarizes a pass.
type Report struct {
	// Reused counts nodes whose previous counterpart was reused.
	Reused int

	// Rebuilt counts nodes that were built from scratch.
	Rebuilt int

	// Shared counts descendants carried over inside reused subtrees.
	Shared int

	// Rendered counts calls to a component's render method.
	Rendered int

	// Notified counts reuse callback invocations.
	Notified int

	// Duration is the wall time of the pass.
	Duration time.Duration

	outcomes map[tree.ID]Outcome
}

// Outcome returns what happened to the node with id in this pass. Shared
// descendants of a reused subtree report OutcomeUnvisited.
func (r Report) Outcome(id tree.ID) Outcome {
	return r.outcomes[id]
}

func (r *Report) record(id tree.ID, o Outcome) {
	if r.outcomes == nil {
		r.outcomes = make(map[tree.ID]Outcome)
	}
	r.outcomes[id] = o
	switch o {
	case OutcomeRebuilt:
		r.Rebuilt++
	case OutcomeReused:
		r.Reused++
	}
}

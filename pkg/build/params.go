package build

import (
	"log/slog"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// ReuseFunc is called once for every render-style component whose previous
// subtree was reused, with the new component instance.
type ReuseFunc func(c component.Component)

// Params carries the context of one pass through the recursive build. Only
// the discovered dirty IDs and the report change once it is constructed.
type Params struct {
	previousRoot *tree.RootNode
	root         *tree.RootNode
	updates      StateUpdates
	trigger      Trigger
	dirty        DirtyIDs
	config       Config
	onReuse      ReuseFunc
	logger       *slog.Logger

	discovered DirtyIDs
	report     *Report
}

// NewParams builds the parameters for a pass that populates root. The
// dirty IDs are computed here, once.
func NewParams(root, previousRoot *tree.RootNode, updates StateUpdates, trigger Trigger, cfg Config) *Params {
	if root == nil {
		errors.Fail("T004", "build params need a root for the new generation")
	}
	if updates == nil {
		updates = StateUpdates{}
	}
	return &Params{
		previousRoot: previousRoot,
		root:         root,
		updates:      updates,
		trigger:      trigger,
		dirty:        TreeNodeDirtyIDsFor(previousRoot, updates, trigger),
		config:       cfg,
		logger:       slog.Default(),
		discovered:   NewDirtyIDs(),
		report:       &Report{},
	}
}

// WithReuseFunc sets the reuse callback and returns p.
func (p *Params) WithReuseFunc(fn ReuseFunc) *Params {
	p.onReuse = fn
	return p
}

// WithLogger sets the logger and returns p.
func (p *Params) WithLogger(logger *slog.Logger) *Params {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// PreviousRoot returns the previous generation, or nil on a first build.
func (p *Params) PreviousRoot() *tree.RootNode { return p.previousRoot }

// Root returns the generation under construction.
func (p *Params) Root() *tree.RootNode { return p.root }

// StateUpdates returns the pending state updates.
func (p *Params) StateUpdates() StateUpdates { return p.updates }

// Trigger returns the build trigger.
func (p *Params) Trigger() Trigger { return p.trigger }

// Config returns the resolved configuration.
func (p *Params) Config() Config { return p.config }

// DirtyIDs returns the dirty IDs computed up front. Callers must not modify
// the returned set.
func (p *Params) DirtyIDs() DirtyIDs { return p.dirty }

// Discovered returns the dirty IDs found while building.
func (p *Params) Discovered() DirtyIDs { return p.discovered }

// AllDirtyIDs returns the union of the up-front and discovered dirty IDs.
func (p *Params) AllDirtyIDs() DirtyIDs { return p.dirty.Union(p.discovered) }

// Report returns the pass report so far.
func (p *Params) Report() Report { return *p.report }

// MarkDirty records id, and its path to the root of the previous
// generation, as dirty.
func (p *Params) MarkDirty(id tree.ID) {
	MarkTreeNodeDirtyIDsFromNodeUntilRoot(id, p.previousRoot, p.discovered)
}

func (p *Params) isDirty(id tree.ID) bool {
	return p.dirty.Contains(id) || p.discovered.Contains(id)
}

package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// Input describes one build pass.
type Input struct {
	// PreviousRoot is the last generation, or nil on a first build.
	PreviousRoot *tree.RootNode

	// StateUpdates holds the updates pending for previous-generation nodes.
	StateUpdates StateUpdates

	// Trigger is the reason for the pass.
	Trigger Trigger

	// Config overrides the builder's configuration for this pass.
	Config *Config

	// OnReuse is called for every reused render-style component.
	OnReuse ReuseFunc
}

// Result is the outcome of a build pass.
type Result struct {
	// Root is the new generation. It is nil when the pass was skipped
	// because the descriptors contain no render-style component.
	Root *tree.RootNode

	// Generation is the number of the generation this pass produced.
	Generation uint64

	// Trigger echoes Input.Trigger.
	Trigger Trigger

	// DirtyIDs holds the dirty IDs computed up front plus those discovered
	// while building.
	DirtyIDs DirtyIDs

	// Report summarizes what happened to each node.
	Report Report

	// Skipped is true when no tree was built.
	Skipped bool
}

// PassFunc runs one build pass.
type PassFunc func(ctx context.Context, root component.Component, in Input) *Result

// Middleware wraps a PassFunc, typically to observe it.
type Middleware func(next PassFunc) PassFunc

// Builder runs build passes.
type Builder struct {
	config      Config
	logger      *slog.Logger
	middlewares []Middleware
	pass        PassFunc
}

// Option configures a Builder.
type Option func(*Builder)

// WithConfig sets the default configuration for passes.
func WithConfig(cfg Config) Option {
	return func(b *Builder) {
		b.config = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMiddleware adds middleware around every pass. The first middleware
// is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(b *Builder) {
		b.middlewares = append(b.middlewares, mw...)
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		config: DefaultConfig(),
		logger: slog.Default().With("component", "build"),
	}
	for _, opt := range opts {
		opt(b)
	}

	pass := b.run
	for i := len(b.middlewares) - 1; i >= 0; i-- {
		pass = b.middlewares[i](pass)
	}
	b.pass = pass
	return b
}

// Config returns the builder's default configuration.
func (b *Builder) Config() Config {
	return b.config
}

// Build runs one pass over the descriptor tree rooted at root. It panics
// with an *errors.TreeError when root is nil or the descriptors break the
// build contract. ctx only carries tracing information; a pass always runs
// to completion.
func (b *Builder) Build(ctx context.Context, root component.Component, in Input) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	return b.pass(ctx, root, in)
}

func (b *Builder) run(_ context.Context, root component.Component, in Input) *Result {
	if component.IsNil(root) {
		errors.Fail("T002", "build pass root")
	}

	cfg := b.config
	if in.Config != nil {
		cfg = *in.Config
	}

	start := time.Now()
	generation := uint64(1)
	if in.PreviousRoot != nil {
		generation = in.PreviousRoot.Generation() + 1
	}

	if !cfg.ShouldAlwaysBuildRenderTree() && !component.ContainsRender(root) {
		b.logger.Debug("build pass skipped",
			"generation", generation,
			"reason", "no render component")
		return &Result{
			Generation: generation,
			Trigger:    in.Trigger,
			DirtyIDs:   TreeNodeDirtyIDsFor(in.PreviousRoot, in.StateUpdates, in.Trigger),
			Report:     Report{Duration: time.Since(start)},
			Skipped:    true,
		}
	}

	newRoot := tree.NewRoot(generation, cfg.Unify.UseVector)
	p := NewParams(newRoot, in.PreviousRoot, in.StateUpdates, in.Trigger, cfg).
		WithReuseFunc(in.OnReuse).
		WithLogger(b.logger)

	var previousContainer *tree.Node
	if in.PreviousRoot != nil {
		previousContainer = in.PreviousRoot.Container()
	}
	dispatch(root, newRoot.Container(), previousContainer, p, false)
	newRoot.Seal()

	report := p.Report()
	report.Duration = time.Since(start)
	dirty := p.AllDirtyIDs()

	b.logger.Debug("build pass complete",
		"generation", generation,
		"trigger", in.Trigger.String(),
		"nodes", newRoot.Len(),
		"dirty", dirty.Cardinality(),
		"reused", report.Reused,
		"rebuilt", report.Rebuilt,
		"duration", report.Duration)

	return &Result{
		Root:       newRoot,
		Generation: generation,
		Trigger:    in.Trigger,
		DirtyIDs:   dirty,
		Report:     report,
	}
}

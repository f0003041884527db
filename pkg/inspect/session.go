package inspect

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/component"
	"github.com/vango-dev/componenttree/pkg/snapshot"
	"github.com/vango-dev/componenttree/pkg/tree"
)

// DefaultHistory is the number of results a session keeps by default.
const DefaultHistory = 32

// Summary describes one pass.
type Summary struct {
	Generation uint64        `json:"generation"`
	Trigger    string        `json:"trigger"`
	Skipped    bool          `json:"skipped"`
	Nodes      int           `json:"nodes"`
	Dirty      []tree.ID     `json:"dirty"`
	Orphaned   []tree.ID     `json:"orphaned,omitempty"`
	Reused     int           `json:"reused"`
	Rebuilt    int           `json:"rebuilt"`
	Shared     int           `json:"shared"`
	Rendered   int           `json:"rendered"`
	Duration   time.Duration `json:"duration_ns"`
}

// Session runs passes over one root component and remembers their results.
type Session struct {
	mu      sync.Mutex
	root    component.Component
	builder *build.Builder
	history []*build.Result
	last    *tree.RootNode
	limit   int
	sink    snapshot.Sink
	onPass  []func(Summary)
	logger  *slog.Logger
	reused  map[string]int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistory sets how many results are kept.
func WithHistory(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithSink writes a snapshot of every built generation to sink.
func WithSink(sink snapshot.Sink) SessionOption {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// OnPass registers fn to be called with the summary of every pass. fn runs
// with the session lock held and must not call back into the session.
func OnPass(fn func(Summary)) SessionOption {
	return func(s *Session) {
		s.onPass = append(s.onPass, fn)
	}
}

// NewSession creates a session for root. No pass runs until Start.
func NewSession(root component.Component, b *build.Builder, opts ...SessionOption) *Session {
	if b == nil {
		b = build.New()
	}
	s := &Session{
		root:    root,
		builder: b,
		limit:   DefaultHistory,
		logger:  slog.Default().With("component", "inspect"),
		reused:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the first pass.
func (s *Session) Start(ctx context.Context) (*build.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, build.Input{})
}

// Apply increments the state of every node in ids and runs a pass with
// trigger. IDs not present in the latest generation are ignored by the
// pass.
func (s *Session) Apply(ctx context.Context, trigger build.Trigger, ids []tree.ID) (*build.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updates := build.StateUpdates{}
	for _, id := range ids {
		updates.Add(id, Increment)
	}
	return s.run(ctx, build.Input{
		PreviousRoot: s.last,
		StateUpdates: updates,
		Trigger:      trigger,
	})
}

// run executes one pass. A precondition failure is returned as an error and
// leaves the history untouched.
func (s *Session) run(ctx context.Context, in build.Input) (*build.Result, error) {
	in.OnReuse = func(c component.Component) {
		s.reused[c.TypeName()]++
	}

	var res *build.Result
	if err := errors.Catch(func() {
		res = s.builder.Build(ctx, s.root, in)
	}); err != nil {
		s.logger.Error("build pass failed", "error", err)
		return nil, err
	}

	summary := summarize(res, s.last)
	if res.Root != nil {
		s.last = res.Root
	}
	s.history = append(s.history, res)
	if len(s.history) > s.limit {
		s.history = s.history[len(s.history)-s.limit:]
	}

	if s.sink != nil && res.Root != nil {
		if err := s.writeSnapshot(ctx, res); err != nil {
			s.logger.Warn("snapshot failed", "generation", res.Generation, "error", err)
		}
	}
	for _, fn := range s.onPass {
		fn(summary)
	}
	return res, nil
}

func (s *Session) writeSnapshot(ctx context.Context, res *build.Result) error {
	data, err := snapshot.Encode(res.Root)
	if err != nil {
		return err
	}
	return s.sink.Put(ctx, snapshot.Name(res.Generation), data)
}

func summarize(res *build.Result, previous *tree.RootNode) Summary {
	dirty := res.DirtyIDs.ToSlice()
	slices.Sort(dirty)
	sum := Summary{
		Generation: res.Generation,
		Trigger:    res.Trigger.String(),
		Skipped:    res.Skipped,
		Dirty:      dirty,
		Reused:     res.Report.Reused,
		Rebuilt:    res.Report.Rebuilt,
		Shared:     res.Report.Shared,
		Rendered:   res.Report.Rendered,
		Duration:   res.Report.Duration,
	}
	if res.Root != nil {
		sum.Nodes = res.Root.Len()
		sum.Orphaned = res.Root.Orphaned(previous)
	}
	return sum
}

// Latest returns the most recent result, or nil before Start.
func (s *Session) Latest() *build.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil
	}
	return s.history[len(s.history)-1]
}

// Generation returns the kept result for generation g. A skipped pass does
// not advance the generation, so the next pass reuses its number; the built
// result wins over skipped ones.
func (s *Session) Generation(g uint64) (*build.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var skipped *build.Result
	for _, res := range s.history {
		if res.Generation != g {
			continue
		}
		if res.Root != nil {
			return res, true
		}
		skipped = res
	}
	return skipped, skipped != nil
}

// Summaries returns the summaries of the kept results, oldest first.
func (s *Session) Summaries() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, 0, len(s.history))
	var prev *tree.RootNode
	for _, res := range s.history {
		out = append(out, summarize(res, prev))
		if res.Root != nil {
			prev = res.Root
		}
	}
	return out
}

// ReuseCounts returns how often each component type was reused.
func (s *Session) ReuseCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.reused))
	for k, v := range s.reused {
		out[k] = v
	}
	return out
}

// IDsForType returns the IDs of nodes in the latest generation whose
// component type is typ.
func (s *Session) IDsForType(typ string) []tree.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	var ids []tree.ID
	s.last.Walk(func(n *tree.Node) bool {
		if n.Key().Type == typ {
			ids = append(ids, n.ID())
		}
		return true
	})
	return ids
}

// Increment is the update applied by Apply: numbers grow by one, booleans
// flip, nil becomes 1 and anything else is kept.
func Increment(old any) any {
	switch v := old.(type) {
	case nil:
		return 1
	case int:
		return v + 1
	case int64:
		return v + 1
	case float64:
		return v + 1
	case bool:
		return !v
	default:
		return old
	}
}

package middleware

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/component"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "componenttree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "build").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the pass duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "componenttree",
		Subsystem: "build",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for build passes.
type metrics struct {
	passesTotal  *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	passFailures *prometheus.CounterVec
	nodesReused  prometheus.Counter
	nodesRebuilt prometheus.Counter
	nodesShared  prometheus.Counter
	renderCalls  prometheus.Counter
	dirtyIDs     prometheus.Histogram
	treesSkipped prometheus.Counter
	treeNodes    prometheus.Gauge
	generation   prometheus.Gauge
}

// globalMetrics is the singleton metrics instance, created on the first
// call to Prometheus.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of build passes by trigger",
			ConstLabels: config.ConstLabels,
		}, []string{"trigger"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Build pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"trigger"}),

		passFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_failures_total",
			Help:        "Build passes aborted by a precondition failure, by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		nodesReused: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_reused_total",
			Help:        "Total number of subtrees reused from the previous generation",
			ConstLabels: config.ConstLabels,
		}),

		nodesRebuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_rebuilt_total",
			Help:        "Total number of nodes built from scratch",
			ConstLabels: config.ConstLabels,
		}),

		nodesShared: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_shared_total",
			Help:        "Total number of descendants carried over inside reused subtrees",
			ConstLabels: config.ConstLabels,
		}),

		renderCalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_calls_total",
			Help:        "Total number of component render calls",
			ConstLabels: config.ConstLabels,
		}),

		dirtyIDs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dirty_ids",
			Help:        "Number of dirty node IDs per pass",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),

		treesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "trees_skipped_total",
			Help:        "Total number of passes that built no tree",
			ConstLabels: config.ConstLabels,
		}),

		treeNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_nodes",
			Help:        "Number of nodes in the most recent generation",
			ConstLabels: config.ConstLabels,
		}),

		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "generation",
			Help:        "Number of the most recent generation",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for build
// passes.
//
// Metrics collected:
//   - componenttree_build_passes_total: Counter of passes by trigger
//   - componenttree_build_pass_duration_seconds: Histogram of pass duration
//   - componenttree_build_pass_failures_total: Counter of aborted passes by error code
//   - componenttree_build_nodes_reused_total: Counter of reused subtrees
//   - componenttree_build_nodes_rebuilt_total: Counter of rebuilt nodes
//   - componenttree_build_nodes_shared_total: Counter of shared descendants
//   - componenttree_build_render_calls_total: Counter of render calls
//   - componenttree_build_dirty_ids: Histogram of dirty IDs per pass
//   - componenttree_build_trees_skipped_total: Counter of skipped passes
//   - componenttree_build_tree_nodes: Gauge of the latest tree size
//   - componenttree_build_generation: Gauge of the latest generation number
//
// The metrics are registered once per process. Only the options of the first
// call take effect; later calls share the same collectors and their options
// are ignored.
//
// Example:
//
//	b := build.New(build.WithMiddleware(
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) build.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next build.PassFunc) build.PassFunc {
		return func(ctx context.Context, root component.Component, in build.Input) (res *build.Result) {
			trigger := in.Trigger.String()
			defer func() {
				if r := recover(); r != nil {
					m.passFailures.WithLabelValues(failureCode(r)).Inc()
					panic(r)
				}
			}()

			res = next(ctx, root, in)

			m.passesTotal.WithLabelValues(trigger).Inc()
			m.passDuration.WithLabelValues(trigger).Observe(res.Report.Duration.Seconds())
			m.dirtyIDs.Observe(float64(res.DirtyIDs.Cardinality()))
			m.generation.Set(float64(res.Generation))
			if res.Skipped {
				m.treesSkipped.Inc()
				m.treeNodes.Set(0)
				return res
			}
			m.nodesReused.Add(float64(res.Report.Reused))
			m.nodesRebuilt.Add(float64(res.Report.Rebuilt))
			m.nodesShared.Add(float64(res.Report.Shared))
			m.renderCalls.Add(float64(res.Report.Rendered))
			m.treeNodes.Set(float64(res.Root.Len()))
			return res
		}
	}
}

// failureCode returns a bounded label for a recovered panic value. This
// keeps error messages out of label values.
func failureCode(r any) string {
	if err, ok := r.(error); ok {
		if te := errors.FromError(err, ""); te != nil && te.Code != "" {
			return te.Code
		}
	}
	return "internal"
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the metrics for custom registrations and tests.
type Collector struct {
	PassesTotal  *prometheus.CounterVec
	PassDuration *prometheus.HistogramVec
	PassFailures *prometheus.CounterVec
	NodesReused  prometheus.Counter
	NodesRebuilt prometheus.Counter
	NodesShared  prometheus.Counter
	RenderCalls  prometheus.Counter
	DirtyIDs     prometheus.Histogram
	TreesSkipped prometheus.Counter
	TreeNodes    prometheus.Gauge
	Generation   prometheus.Gauge
}

// GetMetrics returns the global metrics collector.
// Returns nil if the Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		PassesTotal:  globalMetrics.passesTotal,
		PassDuration: globalMetrics.passDuration,
		PassFailures: globalMetrics.passFailures,
		NodesReused:  globalMetrics.nodesReused,
		NodesRebuilt: globalMetrics.nodesRebuilt,
		NodesShared:  globalMetrics.nodesShared,
		RenderCalls:  globalMetrics.renderCalls,
		DirtyIDs:     globalMetrics.dirtyIDs,
		TreesSkipped: globalMetrics.treesSkipped,
		TreeNodes:    globalMetrics.treeNodes,
		Generation:   globalMetrics.generation,
	}
}

package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/component"
)

// Default tracer name for build passes.
const defaultTracerName = "componenttree"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "componenttree").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludeRootType records the root component type name on the span.
	// Enabled by default.
	IncludeRootType bool

	// Filter determines which passes to trace.
	// Return true to trace the pass, false to skip.
	// If nil, all passes are traced.
	Filter func(in build.Input) bool

	// AttributeExtractor extracts custom attributes from a finished pass.
	AttributeExtractor func(res *build.Result) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeRootType enables/disables recording the root component type.
func WithIncludeRootType(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeRootType = include
	}
}

// WithPassFilter sets a filter function for passes.
func WithPassFilter(filter func(in build.Input) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(res *build.Result) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:      defaultTracerName,
		IncludeRootType: true,
	}
}

// OpenTelemetry creates middleware that traces every build pass.
//
// Each span is named "componenttree.build <trigger>" and carries the
// generation, trigger, dirty ID count and the reuse report. A precondition
// failure is recorded on the span before the panic continues.
//
// Example:
//
//	b := build.New(build.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given.
func OpenTelemetry(opts ...OTelOption) build.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next build.PassFunc) build.PassFunc {
		return func(ctx context.Context, root component.Component, in build.Input) *build.Result {
			if config.Filter != nil && !config.Filter(in) {
				return next(ctx, root, in)
			}

			attrs := []attribute.KeyValue{
				attribute.String("componenttree.trigger", in.Trigger.String()),
				attribute.Bool("componenttree.first_build", in.PreviousRoot == nil),
				attribute.Int("componenttree.state_updates", len(in.StateUpdates)),
			}
			if config.IncludeRootType && !component.IsNil(root) {
				attrs = append(attrs, attribute.String("componenttree.root_type", root.TypeName()))
			}

			spanCtx, span := tracer.Start(ctx,
				fmt.Sprintf("componenttree.build %s", in.Trigger),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			defer func() {
				if r := recover(); r != nil {
					if err, ok := r.(error); ok {
						span.RecordError(err)
						span.SetStatus(codes.Error, err.Error())
					} else {
						span.SetStatus(codes.Error, fmt.Sprint(r))
					}
					panic(r)
				}
			}()

			res := next(spanCtx, root, in)

			span.SetAttributes(
				attribute.Int64("componenttree.generation", int64(res.Generation)),
				attribute.Int("componenttree.dirty_ids", res.DirtyIDs.Cardinality()),
				attribute.Bool("componenttree.skipped", res.Skipped),
				attribute.Int("componenttree.reused", res.Report.Reused),
				attribute.Int("componenttree.rebuilt", res.Report.Rebuilt),
				attribute.Int("componenttree.rendered", res.Report.Rendered),
			)
			if config.AttributeExtractor != nil {
				span.SetAttributes(config.AttributeExtractor(res)...)
			}
			span.SetStatus(codes.Ok, "")
			return res
		}
	}
}

// SpanFromContext returns the span of the build pass running in ctx. Inner
// middleware and the pass itself receive the span's context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

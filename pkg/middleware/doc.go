// Package middleware provides observability middleware for build passes.
//
// Both middlewares are build.Middleware values and are installed on a
// builder with build.WithMiddleware. The first middleware given is the
// outermost.
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware opens one span per pass carrying the
// trigger, generation, dirty ID count and reuse report:
//
//	b := build.New(build.WithMiddleware(
//	    middleware.OpenTelemetry(
//	        middleware.WithTracerName("my-app"),
//	        middleware.WithPassFilter(func(in build.Input) bool {
//	            return in.Trigger != build.TriggerNewTree
//	        }),
//	    ),
//	))
//
// # Prometheus Metrics
//
// The Prometheus middleware counts passes, reused and rebuilt nodes, render
// calls and skipped trees, and observes pass duration and dirty ID counts:
//
//	b := build.New(build.WithMiddleware(middleware.Prometheus()))
//
// Then expose metrics:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware

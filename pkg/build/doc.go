// Package build constructs a new generation of tree nodes from a component
// descriptor tree, reusing subtrees of the previous generation where it can.
//
// # Build Pass
//
// A Builder runs one pass per call to Build:
//
//	b := build.New(build.WithConfig(cfg), build.WithLogger(logger))
//	first := b.Build(ctx, app, build.Input{})
//
//	updates := build.StateUpdates{}
//	updates.Add(counterID, build.Set(42))
//	next := b.Build(ctx, app, build.Input{
//	    PreviousRoot: first.Root,
//	    StateUpdates: updates,
//	    Trigger:      build.TriggerStateUpdate,
//	})
//
// The pass first computes the dirty IDs: every node on a path from a node
// with a pending state update up to the root of the previous generation.
// It then walks the descriptors top-down and dispatches, once per component,
// on its shape (see package component) to one of the builders:
// BuildNonRender, BuildNonRenderWithChildren, BuildRender,
// BuildRenderLayout, BuildRenderLayoutWithChildren and BuildLeaf.
//
// # Reuse
//
// A render-style component is reused, without calling its render method,
// when its previous counterpart exists, the counterpart is not dirty, no
// ancestor had a direct state update (parentHasStateUpdate) and either the
// pass is a state update or, for a props update, the component reports it
// does not need to update. A reused component keeps its previous subtree
// verbatim; the subtree's nodes are shared with the previous generation.
//
// # Failures
//
// Contract violations (nil component, identifier collision, a previous
// parent from the wrong generation) panic with an *errors.TreeError. A
// missing previous counterpart is not an error: the node is rebuilt.
package build

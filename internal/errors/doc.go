// Package errors provides structured, coded errors for componenttree.
//
// Every error carries a short code (e.g., "T001") that maps to a registered
// template with a message, a longer explanation and a documentation URL.
//
// # Error Categories
//
//   - precondition: the caller broke the build contract (identifier
//     collision, nil component, mismatched generations). These are fatal
//     and raised with Fail, which panics.
//   - config: configuration file or environment problems.
//   - snapshot: generation dump encoding or upload problems.
//   - cli: command line usage problems.
//
// # Usage
//
//	if r.Has(n.ID()) {
//	    errors.Fail("T001", "node %d registered twice", n.ID())
//	}
//
//	err := errors.Catch(func() { b.Build(ctx, root, in) })
//	if err != nil {
//	    errors.PrintError(err)
//	}
package errors

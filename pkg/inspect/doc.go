// Package inspect serves a live view of successive generations over HTTP.
//
// A Session owns a root component, a build.Builder and a bounded history of
// pass results. Passes are serialized per session. The Server exposes the
// session through a chi router:
//
//	GET  /generations           pass summaries, oldest first
//	GET  /generations/latest    snapshot of the latest generation
//	GET  /generations/{gen}     snapshot of generation gen
//	POST /updates               apply state updates and run a pass
//	GET  /metrics               Prometheus metrics
//	GET  /ws                    pass summaries streamed as JSON messages
//
// A POST /updates body names the nodes to update by ID or by component
// type and the pass trigger:
//
//	{"trigger": "state_update", "ids": [12], "types": ["Counter"]}
//
// Each targeted node's state is incremented (see Increment).
package inspect
